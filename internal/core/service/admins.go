package service

import (
	"context"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
)

// AdminService is the typed pass-through for the super-admin-only
// operations on managed admins.
type AdminService struct {
	api *client.Client
}

func NewAdminService(api *client.Client) *AdminService {
	return &AdminService{api: api}
}

// CreateAdminInput is the payload for provisioning a new admin account.
type CreateAdminInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,max=15"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

// RechargeWalletInput is the payload for crediting an admin's wallet.
type RechargeWalletInput struct {
	AdminID     string  `json:"adminId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	WalletType  string  `json:"walletType" validate:"required,oneof=mainWallet benefitWallet withdrawalWallet"`
	Description string  `json:"description,omitempty"`
}

// RechargeWalletResult reports the balance movement of a recharge.
type RechargeWalletResult struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	WalletType      string  `json:"walletType"`
	AmountRecharged float64 `json:"amountRecharged"`
	BalanceBefore   float64 `json:"balanceBefore"`
	BalanceAfter    float64 `json:"balanceAfter"`
}

// CreateAdmin provisions a new admin account.
func (s *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out struct {
		Admin *domain.User `json:"admin"`
	}
	if _, err := s.api.Post(ctx, epCreateAdmin, in, &out); err != nil {
		return nil, err
	}
	return out.Admin, nil
}

// RechargeWallet credits one of an admin's wallets.
func (s *AdminService) RechargeWallet(ctx context.Context, in RechargeWalletInput) (*RechargeWalletResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out struct {
		Admin *RechargeWalletResult `json:"admin"`
	}
	if _, err := s.api.Post(ctx, epRechargeWallet, in, &out); err != nil {
		return nil, err
	}
	return out.Admin, nil
}
