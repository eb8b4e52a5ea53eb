package domain

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// User is the server-supplied identity record. The client never mutates it
// directly; profile edits round-trip through the API and come back as a
// fresh User.
type User struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	IsActive   bool   `json:"isActive,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// FullName joins the name fields for display purposes.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Wallets holds the three balances attached to a managed account.
type Wallets struct {
	MainWallet       float64 `json:"mainWallet"`
	BenefitWallet    float64 `json:"benefitWallet"`
	WithdrawalWallet float64 `json:"withdrawalWallet"`
}

// Referrer identifies the account that referred a user.
type Referrer struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

// UserDetails extends User with the management fields returned by the
// user-administration endpoints.
type UserDetails struct {
	User
	ReferralCode     string    `json:"referralCode,omitempty"`
	Wallets          *Wallets  `json:"wallets,omitempty"`
	TotalEarnings    float64   `json:"totalEarnings,omitempty"`
	TotalWithdrawals float64   `json:"totalWithdrawals,omitempty"`
	TotalReferrals   int       `json:"totalReferrals,omitempty"`
	ReferredBy       *Referrer `json:"referredBy,omitempty"`
	AdminID          string    `json:"adminId,omitempty"`
	UpdatedAt        string    `json:"updatedAt,omitempty"`
}

// Pagination describes the server-side page window of a list response.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}
