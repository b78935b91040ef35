package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/service"
)

// ReportsHandler exposes the admin dashboard aggregations.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// SalesTrends handles GET /admin/reports/sales.
func (h *ReportsHandler) SalesTrends(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	trends, err := h.reports.SalesTrends(c.Context(), principal.OrganizationID, c.QueryInt("months", 12))
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(trends))
	for _, t := range trends {
		items = append(items, fiber.Map{
			"year":        t.Year,
			"month":       t.Month,
			"total_sales": t.TotalSales,
			"order_count": t.OrderCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// VisitTrends handles GET /admin/reports/visits.
func (h *ReportsHandler) VisitTrends(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	trends, err := h.reports.VisitTrends(c.Context(), principal.OrganizationID, c.QueryInt("months", 12))
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(trends))
	for _, t := range trends {
		items = append(items, fiber.Map{
			"year":              t.Year,
			"month":             t.Month,
			"total_visits":      t.TotalVisits,
			"unique_facilities": t.UniqueFacilities,
			"unique_employees":  t.UniqueEmployees,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
