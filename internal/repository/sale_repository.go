package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// SaleRepository provides read access over completed sales.
type SaleRepository interface {
	ListByEmployee(ctx context.Context, orgID, employeeID string) ([]domain.Sale, error)
	MonthlySales(ctx context.Context, orgID string, months int) ([]domain.MonthlySales, error)
	ProductStats(ctx context.Context, orgID, productID string) (*domain.ProductSalesStats, error)
}

type saleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository instantiates repository.
func NewSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &saleRepository{pool: pool}
}

func (r *saleRepository) ListByEmployee(ctx context.Context, orgID, employeeID string) ([]domain.Sale, error) {
	const query = `
        SELECT id, order_id, organization_id, facility_id, employee_id, admin_id, items, total_amount, created_at
        FROM sales WHERE organization_id=$1 AND employee_id=$2
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, orgID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows)
}

// MonthlySales groups completed sales by calendar month, newest first.
func (r *saleRepository) MonthlySales(ctx context.Context, orgID string, months int) ([]domain.MonthlySales, error) {
	if months <= 0 {
		months = 12
	}
	const query = `
        SELECT EXTRACT(YEAR FROM created_at)::int,
               EXTRACT(MONTH FROM created_at)::int,
               COALESCE(SUM(total_amount), 0),
               COUNT(*)
        FROM sales
        WHERE organization_id=$1
        GROUP BY 1, 2
        ORDER BY 1 DESC, 2 DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, orgID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlySales
	for rows.Next() {
		var m domain.MonthlySales
		if err := rows.Scan(&m.Year, &m.Month, &m.TotalSales, &m.OrderCount); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *saleRepository) ProductStats(ctx context.Context, orgID, productID string) (*domain.ProductSalesStats, error) {
	const query = `
        SELECT COALESCE(SUM((item->>'total')::numeric), 0),
               COALESCE(SUM((item->>'quantity')::int), 0)
        FROM sales, jsonb_array_elements(items) AS item
        WHERE organization_id=$1 AND item->>'product_id'=$2`

	var stats domain.ProductSalesStats
	if err := r.pool.QueryRow(ctx, query, orgID, productID).Scan(
		&stats.TotalSales, &stats.TotalQuantity,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanSales(rows pgx.Rows) ([]domain.Sale, error) {
	var result []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		var items []byte
		if err := rows.Scan(
			&sale.ID,
			&sale.OrderID,
			&sale.OrganizationID,
			&sale.FacilityID,
			&sale.EmployeeID,
			&sale.AdminID,
			&items,
			&sale.TotalAmount,
			&sale.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &sale.Items); err != nil {
				return nil, err
			}
		}
		result = append(result, sale)
	}
	return result, rows.Err()
}
