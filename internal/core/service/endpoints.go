package service

// Relative paths of the remote admin API, rooted at the configured base URL.
const (
	epLogin   = "/admin/super-admin/login"
	epLogout  = "/admin/super-admin/logout"
	epRefresh = "/admin/super-admin/refresh"
	epProfile = "/admin/super-admin/profile"

	epCreateAdmin     = "/admin/create-admin"
	epDepositRequests = "/admin/deposit-requests"
	epRechargeWallet  = "/admin/recharge-admin-wallet"

	epUsers = "/admin/users"

	epDashboardStats     = "/admin/dashboard/stats"
	epDashboardAnalytics = "/admin/dashboard/analytics"
	epSuperAdminBoard    = "/admin/super-admin/dashboard"
	epRevenue            = "/admin/super-admin/revenue"
)
