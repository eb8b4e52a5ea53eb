package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
)

// UserService is the typed pass-through for the user-administration
// endpoints.
type UserService struct {
	api *client.Client
}

func NewUserService(api *client.Client) *UserService {
	return &UserService{api: api}
}

// UserListParams filters and pages the user listing. Zero values are
// omitted from the query.
type UserListParams struct {
	Page   int
	Limit  int
	Role   string
	Search string
}

// UserList is the data payload of the user listing.
type UserList struct {
	Users      []domain.UserDetails `json:"users"`
	Pagination domain.Pagination    `json:"pagination"`
}

// CreateUserInput is the payload for creating a managed user.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,max=15"`
	Role      string `json:"role" validate:"required,oneof=user admin super_admin"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

// UpdateUserInput carries a partial update; empty fields are left untouched
// by the server.
type UpdateUserInput struct {
	FirstName string `json:"firstName,omitempty" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,min=2,max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=15"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=user admin super_admin"`
}

// List fetches users with pagination and filtering.
func (s *UserService) List(ctx context.Context, p UserListParams) (*UserList, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Role != "" {
		q.Set("role", p.Role)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	path := epUsers
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out UserList
	if _, err := s.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID fetches a single user with management details.
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.UserDetails, error) {
	var out struct {
		User *domain.UserDetails `json:"user"`
	}
	if _, err := s.api.Get(ctx, epUsers+"/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Create registers a new managed user.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.UserDetails, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out struct {
		User *domain.UserDetails `json:"user"`
	}
	if _, err := s.api.Post(ctx, epUsers, in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, userID string, in UpdateUserInput) (*domain.UserDetails, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out struct {
		User *domain.UserDetails `json:"user"`
	}
	if _, err := s.api.Put(ctx, epUsers+"/"+url.PathEscape(userID), in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	_, err := s.api.Delete(ctx, epUsers+"/"+url.PathEscape(userID), nil)
	return err
}

// SetStatus activates or deactivates a user.
func (s *UserService) SetStatus(ctx context.Context, userID, status string) (*domain.UserDetails, error) {
	if status != "active" && status != "inactive" {
		return nil, validateStatusErr(status)
	}
	body := map[string]string{"status": status}
	var out struct {
		User *domain.UserDetails `json:"user"`
	}
	if _, err := s.api.Put(ctx, epUsers+"/"+url.PathEscape(userID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}
