package domain

// DashboardPeriod selects the aggregation window of the super-admin
// dashboard.
type DashboardPeriod string

const (
	PeriodAll   DashboardPeriod = "all"
	PeriodToday DashboardPeriod = "today"
	PeriodWeek  DashboardPeriod = "week"
	PeriodMonth DashboardPeriod = "month"
)

// Valid reports whether p is one of the periods the API accepts.
func (p DashboardPeriod) Valid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// DashboardStats is the admin dashboard headline block.
type DashboardStats struct {
	TotalUsers        int     `json:"totalUsers"`
	ActiveUsers       int     `json:"activeUsers"`
	TotalRevenue      float64 `json:"totalRevenue"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	NewUsersThisMonth int     `json:"newUsersThisMonth"`
	ConversionRate    float64 `json:"conversionRate"`
}

// MonthlyPoint is one month of a time-series chart.
type MonthlyPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// DashboardAnalytics carries the chart series of the admin dashboard.
type DashboardAnalytics struct {
	UserGrowth   []MonthlyPoint `json:"userGrowth"`
	RevenueChart []MonthlyPoint `json:"revenueChart"`
}

// SuperAdminSummary is the headline block of the super-admin dashboard.
type SuperAdminSummary struct {
	TotalRevenue             float64 `json:"totalRevenue"`
	TotalRevenueTransactions int     `json:"totalRevenueTransactions"`
	PendingTransfers         int     `json:"pendingTransfers"`
	TotalAdmins              int     `json:"totalAdmins"`
	ActiveAdmins             int     `json:"activeAdmins"`
}

// AdminBalance is one managed admin's wallet breakdown.
type AdminBalance struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	IsActive bool    `json:"isActive"`
	Wallets  Wallets `json:"wallets"`
	Total    float64 `json:"total"`
}

// SuperAdminDashboard is the full super-admin dashboard payload.
type SuperAdminDashboard struct {
	Summary       SuperAdminSummary `json:"summary"`
	AdminBalances []AdminBalance    `json:"adminBalances"`
	Period        DashboardPeriod   `json:"period"`
}

// RevenueEntry is one row of the revenue listing.
type RevenueEntry struct {
	ID           string  `json:"id"`
	AdminID      string  `json:"adminId"`
	AdminName    string  `json:"adminName"`
	Amount       float64 `json:"amount"`
	TransferType string  `json:"transferType"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}
