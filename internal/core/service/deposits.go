package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
)

// DepositService is the typed pass-through for the deposit-request
// approval workflow.
type DepositService struct {
	api *client.Client
}

func NewDepositService(api *client.Client) *DepositService {
	return &DepositService{api: api}
}

// DepositListParams filters and pages the deposit-request listing.
type DepositListParams struct {
	Page   int
	Limit  int
	Status string `validate:"omitempty,oneof=pending approved rejected"`
	UserID string
}

// DepositList is the data payload of the deposit-request listing.
type DepositList struct {
	DepositRequests []domain.DepositRequest `json:"depositRequests"`
	Pagination      domain.Pagination       `json:"pagination"`
	Summary         domain.DepositSummary   `json:"summary"`
}

// ApprovalResult carries the resolved request plus the credited user.
type ApprovalResult struct {
	DepositRequest domain.DepositRequest `json:"depositRequest"`
	User           struct {
		ID      string         `json:"id"`
		Name    string         `json:"name"`
		Email   string         `json:"email"`
		Wallets domain.Wallets `json:"wallets"`
	} `json:"user"`
}

// List fetches deposit requests for the operator's assigned users.
func (s *DepositService) List(ctx context.Context, p DepositListParams) (*DepositList, error) {
	if err := validateInput(p); err != nil {
		return nil, err
	}

	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.UserID != "" {
		q.Set("userId", p.UserID)
	}

	path := epDepositRequests
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out DepositList
	if _, err := s.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve resolves a pending request, crediting the user's wallets. Notes
// are optional.
func (s *DepositService) Approve(ctx context.Context, requestID, notes string) (*ApprovalResult, error) {
	body := map[string]string{}
	if notes != "" {
		body["notes"] = notes
	}
	var out ApprovalResult
	path := epDepositRequests + "/" + url.PathEscape(requestID) + "/approve"
	if _, err := s.api.Patch(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject declines a pending request. A rejection reason is required.
func (s *DepositService) Reject(ctx context.Context, requestID, reason string) (*domain.DepositRequest, error) {
	in := struct {
		RejectionReason string `json:"rejectionReason" validate:"required"`
	}{RejectionReason: reason}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out struct {
		DepositRequest *domain.DepositRequest `json:"depositRequest"`
	}
	path := epDepositRequests + "/" + url.PathEscape(requestID) + "/reject"
	if _, err := s.api.Patch(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return out.DepositRequest, nil
}
