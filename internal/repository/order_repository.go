package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// ErrInsufficientStock is returned by Complete when any order line exceeds
// the available stock. Nothing is applied in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// OrderFilter captures order list parameters.
type OrderFilter struct {
	OrganizationID string
	EmployeeID     *string
	Status         *domain.OrderStatus
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// OrderRepository encapsulates order persistence. Items are stored as a
// JSONB column and marshalled explicitly.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orgID, id string, status domain.OrderStatus) error
	// Complete transitions the order to completed, inserts the sale record
	// and decrements stock, all in one transaction.
	Complete(ctx context.Context, order *domain.Order, sale *domain.Sale) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, organization_id, facility_id, facility_name, employee_id, admin_id,
        meeting_id, items, notes, total_amount, status, created_by_name, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO orders (id, organization_id, facility_id, facility_name, employee_id, admin_id,
            meeting_id, items, notes, total_amount, status, created_by_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.ID,
		order.OrganizationID,
		order.FacilityID,
		order.FacilityName,
		order.EmployeeID,
		order.AdminID,
		order.MeetingID,
		items,
		order.Notes,
		order.TotalAmount,
		order.Status,
		order.CreatedByName,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	const query = `
        UPDATE orders SET facility_id=$1, facility_name=$2, items=$3, notes=$4, total_amount=$5,
            status=$6, updated_at=NOW()
        WHERE id=$7 AND organization_id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		order.FacilityID,
		order.FacilityName,
		items,
		order.Notes,
		order.TotalAmount,
		order.Status,
		order.ID,
		order.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1 AND organization_id=$2`, id, orgID)
	return scanOrder(row)
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error) {
	clauses := []string{"organization_id=$1"}
	args := []any{filter.OrganizationID}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *order)
	}
	return result, total, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orgID, id string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND organization_id=$3`,
		status, id, orgID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, order *domain.Order, sale *domain.Sale) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, item := range order.Items {
		cmd, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1, updated_at=NOW()
             WHERE id=$2 AND organization_id=$3 AND stock >= $1`,
			item.Quantity, item.ProductID, order.OrganizationID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrInsufficientStock
		}
	}

	items, err := json.Marshal(sale.Items)
	if err != nil {
		return err
	}
	const insertSale = `
        INSERT INTO sales (id, order_id, organization_id, facility_id, employee_id, admin_id, items, total_amount)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`
	if err := tx.QueryRow(ctx, insertSale,
		sale.ID,
		sale.OrderID,
		sale.OrganizationID,
		sale.FacilityID,
		sale.EmployeeID,
		sale.AdminID,
		items,
		sale.TotalAmount,
	).Scan(&sale.CreatedAt); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND organization_id=$3`,
		domain.OrderStatusCompleted, order.ID, order.OrganizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var items []byte
	if err := row.Scan(
		&order.ID,
		&order.OrganizationID,
		&order.FacilityID,
		&order.FacilityName,
		&order.EmployeeID,
		&order.AdminID,
		&order.MeetingID,
		&items,
		&order.Notes,
		&order.TotalAmount,
		&order.Status,
		&order.CreatedByName,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, err
		}
	}
	return &order, nil
}
