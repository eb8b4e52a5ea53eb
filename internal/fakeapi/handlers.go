package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/utpfund/admin-console-go/internal/core/domain"
)

func (s *Server) login(c echo.Context) error {
	s.mu.Lock()
	s.loginCalls++
	latency := s.latency
	s.mu.Unlock()
	if latency > 0 {
		time.Sleep(latency)
	}

	var req domain.Credentials
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}
	if req.Email != s.operator.Email ||
		bcrypt.CompareHashAndPassword(s.passHash, []byte(req.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS")
	}

	return ok(c, http.StatusOK, "Login successful", domain.LoginResult{
		User:  &s.operator,
		Token: s.IssueToken(),
	})
}

func (s *Server) logout(c echo.Context) error {
	s.mu.Lock()
	s.logoutCalls++
	failing := s.failLogout
	s.mu.Unlock()

	if failing {
		return fail(c, http.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED")
	}
	return ok(c, http.StatusOK, "Logged out", nil)
}

func (s *Server) refresh(c echo.Context) error {
	return ok(c, http.StatusOK, "Token refreshed", map[string]string{
		"token": s.IssueToken(),
	})
}

func (s *Server) profile(c echo.Context) error {
	return ok(c, http.StatusOK, "Profile", map[string]any{"user": s.operator})
}

func (s *Server) createAdmin(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required", "VALIDATION")
	}

	admin := domain.User{
		ID:        fmt.Sprintf("adm_%d", time.Now().UnixNano()),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.RoleAdmin,
		IsActive:  true,
	}
	return ok(c, http.StatusCreated, "Admin created", map[string]any{"admin": admin})
}

func (s *Server) rechargeWallet(c echo.Context) error {
	var req struct {
		AdminID    string  `json:"adminId"`
		Amount     float64 `json:"amount"`
		WalletType string  `json:"walletType"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}
	if req.Amount <= 0 {
		return fail(c, http.StatusBadRequest, "Amount must be positive", "VALIDATION")
	}

	return ok(c, http.StatusOK, "Wallet recharged", map[string]any{
		"admin": map[string]any{
			"id":              req.AdminID,
			"name":            "Managed Admin",
			"email":           "admin@example.com",
			"walletType":      req.WalletType,
			"amountRecharged": req.Amount,
			"balanceBefore":   100.0,
			"balanceAfter":    100.0 + req.Amount,
		},
	})
}

func (s *Server) listDeposits(c echo.Context) error {
	status := c.QueryParam("status")

	s.mu.Lock()
	matched := make([]domain.DepositRequest, 0, len(s.deposits))
	summary := domain.DepositSummary{}
	for _, d := range s.deposits {
		summary.TotalRequests++
		switch d.Status {
		case domain.DepositPending:
			summary.PendingRequests++
		case domain.DepositApproved:
			summary.ApprovedRequests++
		case domain.DepositRejected:
			summary.RejectedRequests++
		}
		summary.TotalAmount += d.Amount
		if status == "" || d.Status == status {
			matched = append(matched, d)
		}
	}
	s.mu.Unlock()

	return ok(c, http.StatusOK, "Deposit requests", map[string]any{
		"depositRequests": matched,
		"pagination":      domain.Pagination{Current: 1, Pages: 1, Total: len(matched)},
		"summary":         summary,
	})
}

func (s *Server) approveDeposit(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.Bind(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deposits {
		if s.deposits[i].ID != id {
			continue
		}
		if s.deposits[i].Status != domain.DepositPending {
			return fail(c, http.StatusConflict, "Deposit request already resolved", "ALREADY_RESOLVED")
		}
		s.deposits[i].Status = domain.DepositApproved
		s.deposits[i].Notes = req.Notes
		approver := domain.DepositAdmin{Name: s.operator.FullName(), Email: s.operator.Email}
		s.deposits[i].ApprovedBy = &approver
		s.deposits[i].ApprovedAt = time.Now().UTC().Format(time.RFC3339)

		return ok(c, http.StatusOK, "Deposit request approved", map[string]any{
			"depositRequest": s.deposits[i],
			"user": map[string]any{
				"id":    s.deposits[i].User.ID,
				"name":  s.deposits[i].User.Name,
				"email": s.deposits[i].User.Email,
				"wallets": domain.Wallets{
					MainWallet: s.deposits[i].Amount,
				},
			},
		})
	}
	return fail(c, http.StatusNotFound, "Deposit request not found", "NOT_FOUND")
}

func (s *Server) rejectDeposit(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.Bind(&req); err != nil || req.RejectionReason == "" {
		return fail(c, http.StatusBadRequest, "Rejection reason is required", "VALIDATION")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deposits {
		if s.deposits[i].ID != id {
			continue
		}
		if s.deposits[i].Status != domain.DepositPending {
			return fail(c, http.StatusConflict, "Deposit request already resolved", "ALREADY_RESOLVED")
		}
		s.deposits[i].Status = domain.DepositRejected
		s.deposits[i].RejectionReason = req.RejectionReason
		return ok(c, http.StatusOK, "Deposit request rejected", map[string]any{
			"depositRequest": s.deposits[i],
		})
	}
	return fail(c, http.StatusNotFound, "Deposit request not found", "NOT_FOUND")
}

func (s *Server) listUsers(c echo.Context) error {
	role := c.QueryParam("role")
	search := c.QueryParam("search")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	s.mu.Lock()
	matched := make([]domain.UserDetails, 0, len(s.users))
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		if search != "" && !contains(u.Email, search) && !contains(u.FullName(), search) {
			continue
		}
		matched = append(matched, u)
	}
	s.mu.Unlock()

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return ok(c, http.StatusOK, "Users", map[string]any{
		"users":      matched,
		"pagination": domain.Pagination{Current: 1, Pages: 1, Total: len(matched)},
	})
}

func (s *Server) getUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == c.Param("id") {
			return ok(c, http.StatusOK, "User", map[string]any{"user": u})
		}
	}
	return fail(c, http.StatusNotFound, "User not found", "NOT_FOUND")
}

func (s *Server) createUser(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Role      string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}

	user := domain.UserDetails{User: domain.User{
		ID:        fmt.Sprintf("usr_%d", time.Now().UnixNano()),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		IsActive:  true,
	}}

	s.mu.Lock()
	s.users = append(s.users, user)
	s.mu.Unlock()
	return ok(c, http.StatusCreated, "User created", map[string]any{"user": user})
}

func (s *Server) updateUser(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != c.Param("id") {
			continue
		}
		if req.FirstName != "" {
			s.users[i].FirstName = req.FirstName
		}
		if req.LastName != "" {
			s.users[i].LastName = req.LastName
		}
		if req.Email != "" {
			s.users[i].Email = req.Email
		}
		if req.Phone != "" {
			s.users[i].Phone = req.Phone
		}
		return ok(c, http.StatusOK, "User updated", map[string]any{"user": s.users[i]})
	}
	return fail(c, http.StatusNotFound, "User not found", "NOT_FOUND")
}

func (s *Server) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == c.Param("id") {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return ok(c, http.StatusOK, "User deleted", nil)
		}
	}
	return fail(c, http.StatusNotFound, "User not found", "NOT_FOUND")
}

func (s *Server) setUserStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid payload", "BAD_PAYLOAD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == c.Param("id") {
			s.users[i].IsActive = req.Status == "active"
			return ok(c, http.StatusOK, "Status updated", map[string]any{"user": s.users[i]})
		}
	}
	return fail(c, http.StatusNotFound, "User not found", "NOT_FOUND")
}

func (s *Server) superAdminDashboard(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = string(domain.PeriodAll)
	}
	if !domain.DashboardPeriod(period).Valid() {
		return fail(c, http.StatusBadRequest, "Invalid period", "VALIDATION")
	}

	return ok(c, http.StatusOK, "Dashboard", domain.SuperAdminDashboard{
		Summary: domain.SuperAdminSummary{
			TotalRevenue:             12500,
			TotalRevenueTransactions: 42,
			PendingTransfers:         3,
			TotalAdmins:              2,
			ActiveAdmins:             2,
		},
		Period: domain.DashboardPeriod(period),
	})
}

func (s *Server) revenue(c echo.Context) error {
	return ok(c, http.StatusOK, "Revenue", map[string]any{
		"revenue": []domain.RevenueEntry{
			{ID: "rev_1", AdminID: "adm_1", AdminName: "Managed Admin", Amount: 500,
				TransferType: "deposit", Status: "completed"},
		},
		"pagination": domain.Pagination{Current: 1, Pages: 1, Total: 1},
		"total":      500.0,
	})
}
