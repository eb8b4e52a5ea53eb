// Package fakeapi is an in-process stand-in for the remote admin API. It
// speaks the same envelope and routes as the real service and is used by
// the test suites and for local development against no backend. Behavior
// switches allow failure injection: slow responses, failing logout, and
// blanket token rejection.
package fakeapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/utpfund/admin-console-go/internal/core/domain"
)

const (
	// SuperAdminEmail and SuperAdminPassword are the seeded operator
	// credentials.
	SuperAdminEmail    = "superadmin@example.com"
	SuperAdminPassword = "admin123456"

	tokenTTL = time.Hour
)

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server is the fake admin API.
type Server struct {
	echo      *echo.Echo
	jwtSecret []byte
	passHash  []byte
	operator  domain.User

	mu          sync.Mutex
	users       []domain.UserDetails
	deposits    []domain.DepositRequest
	failLogout  bool
	rejectAuth  bool
	latency     time.Duration
	loginCalls  int
	logoutCalls int
}

// New builds a fake server with the seeded super-admin and sample data.
func New() *Server {
	hash, err := bcrypt.GenerateFromPassword([]byte(SuperAdminPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s := &Server{
		jwtSecret: []byte("fakeapi-secret"),
		passHash:  hash,
		operator: domain.User{
			ID:         "sa_1",
			FirstName:  "Super",
			LastName:   "Admin",
			Email:      SuperAdminEmail,
			Phone:      "+10000000000",
			Role:       domain.RoleSuperAdmin,
			IsActive:   true,
			IsVerified: true,
		},
		users:    seedUsers(),
		deposits: seedDeposits(),
	}

	e := echo.New()
	e.HideBanner = true

	e.POST("/admin/super-admin/login", s.login)
	e.POST("/admin/super-admin/logout", s.logout, s.auth)
	e.POST("/admin/super-admin/refresh", s.refresh, s.auth)
	e.GET("/admin/super-admin/profile", s.profile, s.auth)
	e.GET("/admin/super-admin/dashboard", s.superAdminDashboard, s.auth)
	e.GET("/admin/super-admin/revenue", s.revenue, s.auth)

	e.POST("/admin/create-admin", s.createAdmin, s.auth)
	e.POST("/admin/recharge-admin-wallet", s.rechargeWallet, s.auth)

	e.GET("/admin/deposit-requests", s.listDeposits, s.auth)
	e.PATCH("/admin/deposit-requests/:id/approve", s.approveDeposit, s.auth)
	e.PATCH("/admin/deposit-requests/:id/reject", s.rejectDeposit, s.auth)

	e.GET("/admin/dashboard/stats", s.dashboardStats, s.auth)
	e.GET("/admin/dashboard/analytics", s.dashboardAnalytics, s.auth)

	e.GET("/admin/users", s.listUsers, s.auth)
	e.POST("/admin/users", s.createUser, s.auth)
	e.GET("/admin/users/:id", s.getUser, s.auth)
	e.PUT("/admin/users/:id", s.updateUser, s.auth)
	e.DELETE("/admin/users/:id", s.deleteUser, s.auth)
	e.PUT("/admin/users/:id/status", s.setUserStatus, s.auth)

	s.echo = e
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// SetFailLogout makes the logout endpoint return a 500.
func (s *Server) SetFailLogout(on bool) {
	s.mu.Lock()
	s.failLogout = on
	s.mu.Unlock()
}

// SetRejectAuth makes every authenticated endpoint return 401, simulating
// server-side token invalidation.
func (s *Server) SetRejectAuth(on bool) {
	s.mu.Lock()
	s.rejectAuth = on
	s.mu.Unlock()
}

// SetLatency delays every response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// LoginCalls reports how many login attempts the server saw.
func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// LogoutCalls reports how many logout attempts the server saw.
func (s *Server) LogoutCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutCalls
}

// IssueToken mints a valid token the way login would, for seeding stores
// in tests.
func (s *Server) IssueToken() string {
	return s.issueToken(time.Now().Add(tokenTTL))
}

// IssueExpiredToken mints a structurally valid token whose expiry already
// elapsed.
func (s *Server) IssueExpiredToken() string {
	return s.issueToken(time.Now().Add(-time.Minute))
}

// Operator returns the seeded super-admin identity.
func (s *Server) Operator() domain.User { return s.operator }

func (s *Server) issueToken(exp time.Time) string {
	claims := jwt.MapClaims{
		"sub":  s.operator.ID,
		"role": s.operator.Role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		panic(err)
	}
	return signed
}

// auth validates the bearer token and applies the injected behaviors.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		latency := s.latency
		reject := s.rejectAuth
		s.mu.Unlock()

		if latency > 0 {
			time.Sleep(latency)
		}
		if reject {
			return fail(c, http.StatusUnauthorized, "Token is no longer valid", "TOKEN_REVOKED")
		}

		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fail(c, http.StatusUnauthorized, "Missing authorization header", "NO_TOKEN")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !tkn.Valid {
			return fail(c, http.StatusUnauthorized, "Invalid token", "BAD_TOKEN")
		}
		return next(c)
	}
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message, code string) error {
	return c.JSON(status, envelope{Success: false, Message: message, Error: message, Code: code})
}
