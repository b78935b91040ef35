package service

import (
	"context"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
)

// ReportService aggregates monthly trends for the admin dashboard.
type ReportService struct {
	sales    repository.SaleRepository
	meetings repository.MeetingRepository
}

// NewReportService builds the service.
func NewReportService(sales repository.SaleRepository, meetings repository.MeetingRepository) *ReportService {
	return &ReportService{sales: sales, meetings: meetings}
}

// SalesTrends returns per-month sales totals, newest month first.
func (s *ReportService) SalesTrends(ctx context.Context, orgID string, months int) ([]domain.MonthlySales, error) {
	return s.sales.MonthlySales(ctx, orgID, months)
}

// VisitTrends returns per-month visit counts, newest month first.
func (s *ReportService) VisitTrends(ctx context.Context, orgID string, months int) ([]domain.MonthlyVisits, error) {
	return s.meetings.MonthlyVisits(ctx, orgID, months)
}
