package fakeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/utpfund/admin-console-go/internal/core/domain"
)

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *Server) dashboardStats(c echo.Context) error {
	return ok(c, http.StatusOK, "Stats", domain.DashboardStats{
		TotalUsers:        120,
		ActiveUsers:       98,
		TotalRevenue:      12500,
		MonthlyRevenue:    1800,
		NewUsersThisMonth: 14,
		ConversionRate:    0.12,
	})
}

func (s *Server) dashboardAnalytics(c echo.Context) error {
	return ok(c, http.StatusOK, "Analytics", domain.DashboardAnalytics{
		UserGrowth: []domain.MonthlyPoint{
			{Month: "Jan", Value: 80},
			{Month: "Feb", Value: 95},
			{Month: "Mar", Value: 120},
		},
		RevenueChart: []domain.MonthlyPoint{
			{Month: "Jan", Value: 900},
			{Month: "Feb", Value: 1200},
			{Month: "Mar", Value: 1800},
		},
	})
}

func seedUsers() []domain.UserDetails {
	return []domain.UserDetails{
		{
			User: domain.User{
				ID: "usr_1", FirstName: "Asha", LastName: "Verma",
				Email: "asha@example.com", Phone: "+911234567890",
				Role: domain.RoleUser, IsActive: true, IsVerified: true,
			},
			ReferralCode: "ASHA01",
			Wallets:      &domain.Wallets{MainWallet: 250, BenefitWallet: 40},
		},
		{
			User: domain.User{
				ID: "usr_2", FirstName: "Ravi", LastName: "Iyer",
				Email: "ravi@example.com", Phone: "+911234567891",
				Role: domain.RoleUser, IsActive: false,
			},
			ReferralCode: "RAVI02",
		},
		{
			User: domain.User{
				ID: "adm_1", FirstName: "Managed", LastName: "Admin",
				Email: "admin@example.com", Phone: "+911234567892",
				Role: domain.RoleAdmin, IsActive: true, IsVerified: true,
			},
		},
	}
}

func seedDeposits() []domain.DepositRequest {
	return []domain.DepositRequest{
		{
			ID: "dep_1",
			User: domain.DepositUser{
				ID: "usr_1", Name: "Asha Verma", Email: "asha@example.com",
				Phone: "+911234567890", ReferralCode: "ASHA01",
			},
			Amount:        1000,
			TransactionID: "TXN-1001",
			PaymentMethod: "upi",
			Status:        domain.DepositPending,
			Admin:         domain.DepositAdmin{Name: "Managed Admin", Email: "admin@example.com"},
		},
		{
			ID: "dep_2",
			User: domain.DepositUser{
				ID: "usr_2", Name: "Ravi Iyer", Email: "ravi@example.com",
				Phone: "+911234567891", ReferralCode: "RAVI02",
			},
			Amount:        500,
			TransactionID: "TXN-1002",
			PaymentMethod: "bank_transfer",
			Status:        domain.DepositApproved,
			Admin:         domain.DepositAdmin{Name: "Managed Admin", Email: "admin@example.com"},
		},
	}
}
