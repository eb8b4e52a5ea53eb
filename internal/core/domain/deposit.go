package domain

// Deposit request lifecycle states as reported by the API.
const (
	DepositPending  = "pending"
	DepositApproved = "approved"
	DepositRejected = "rejected"
)

// DepositUser is the requesting account embedded in a deposit request.
type DepositUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

// DepositAdmin identifies the admin that owns or resolved a request.
type DepositAdmin struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WalletUpdates describes how an approval splits across wallets.
type WalletUpdates struct {
	MainWalletAmount    float64 `json:"mainWalletAmount"`
	BenefitWalletAmount float64 `json:"benefitWalletAmount"`
	TotalAmount         float64 `json:"totalAmount"`
}

// DepositRequest is one entry of the approval workflow.
type DepositRequest struct {
	ID                string         `json:"id"`
	User              DepositUser    `json:"user"`
	Amount            float64        `json:"amount"`
	FormattedAmount   string         `json:"formattedAmount,omitempty"`
	TransactionID     string         `json:"transactionId"`
	PaymentMethod     string         `json:"paymentMethod"`
	PaymentScreenshot string         `json:"paymentScreenshot,omitempty"`
	Status            string         `json:"status"`
	Admin             DepositAdmin   `json:"admin"`
	ApprovedBy        *DepositAdmin  `json:"approvedBy"`
	ApprovedAt        string         `json:"approvedAt,omitempty"`
	RejectionReason   string         `json:"rejectionReason,omitempty"`
	WalletUpdates     *WalletUpdates `json:"walletUpdates,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	CreatedAt         string         `json:"createdAt"`
}

// DepositSummary aggregates the list view's header figures.
type DepositSummary struct {
	TotalRequests    int     `json:"totalRequests"`
	PendingRequests  int     `json:"pendingRequests"`
	ApprovedRequests int     `json:"approvedRequests"`
	RejectedRequests int     `json:"rejectedRequests"`
	TotalAmount      float64 `json:"totalAmount"`
}
