package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
)

// DashboardService is the typed pass-through for the dashboard and revenue
// reporting endpoints.
type DashboardService struct {
	api *client.Client
}

func NewDashboardService(api *client.Client) *DashboardService {
	return &DashboardService{api: api}
}

// RevenueParams filters and pages the revenue listing. StartDate/EndDate
// use the API's YYYY-MM-DD convention.
type RevenueParams struct {
	Page         int
	Limit        int
	AdminID      string
	TransferType string
	Status       string
	StartDate    string
	EndDate      string
}

// RevenueList is the data payload of the revenue listing.
type RevenueList struct {
	Revenue    []domain.RevenueEntry `json:"revenue"`
	Pagination domain.Pagination     `json:"pagination"`
	Total      float64               `json:"total"`
}

// Stats fetches the admin dashboard headline figures.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if _, err := s.api.Get(ctx, epDashboardStats, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics fetches the admin dashboard chart series.
func (s *DashboardService) Analytics(ctx context.Context) (*domain.DashboardAnalytics, error) {
	var out domain.DashboardAnalytics
	if _, err := s.api.Get(ctx, epDashboardAnalytics, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuperAdmin fetches the super-admin dashboard for the given period.
func (s *DashboardService) SuperAdmin(ctx context.Context, period domain.DashboardPeriod) (*domain.SuperAdminDashboard, error) {
	if period == "" {
		period = domain.PeriodAll
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: period must be one of: all today week month, got %q",
			domain.ErrInvalidInput, period)
	}
	var out domain.SuperAdminDashboard
	if _, err := s.api.Get(ctx, epSuperAdminBoard+"?period="+string(period), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revenue fetches the revenue listing.
func (s *DashboardService) Revenue(ctx context.Context, p RevenueParams) (*RevenueList, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.AdminID != "" {
		q.Set("adminId", p.AdminID)
	}
	if p.TransferType != "" {
		q.Set("transferType", p.TransferType)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}

	path := epRevenue
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out RevenueList
	if _, err := s.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
