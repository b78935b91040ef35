package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// ProductFilter captures catalog list parameters.
type ProductFilter struct {
	OrganizationID string
	Category       *string
	Search         *string
	ActiveOnly     bool
	Limit          int
	Offset         int
}

// ProductRepository encapsulates catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Product, error)
	GetByName(ctx context.Context, orgID, name string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Categories(ctx context.Context, orgID string) ([]string, error)
	SoftDelete(ctx context.Context, orgID, id string) error
	InventoryStats(ctx context.Context, orgID string) ([]domain.CategoryInventory, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, organization_id, name, category, manufacturer, price, stock,
        active, created_by, created_at, updated_at, deleted_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	const query = `
        INSERT INTO products (id, organization_id, name, category, manufacturer, price, stock, active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		p.ID,
		p.OrganizationID,
		p.Name,
		p.Category,
		p.Manufacturer,
		p.Price,
		p.Stock,
		p.Active,
		p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, category=$2, manufacturer=$3, price=$4, stock=$5, updated_at=NOW()
        WHERE id=$6 AND organization_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Category,
		p.Manufacturer,
		p.Price,
		p.Stock,
		p.ID,
		p.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Product, error) {
	return r.fetchSingle(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1 AND organization_id=$2`, id, orgID)
}

func (r *productRepository) GetByName(ctx context.Context, orgID, name string) (*domain.Product, error) {
	return r.fetchSingle(ctx,
		`SELECT `+productColumns+` FROM products WHERE name=$1 AND organization_id=$2`, name, orgID)
}

func (r *productRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.OrganizationID,
		&p.Name,
		&p.Category,
		&p.Manufacturer,
		&p.Price,
		&p.Stock,
		&p.Active,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error) {
	clauses := []string{"organization_id=$1"}
	args := []any{filter.OrganizationID}

	if filter.ActiveOnly {
		clauses = append(clauses, "active=TRUE")
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses,
			fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(manufacturer) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		productColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.OrganizationID,
			&p.Name,
			&p.Category,
			&p.Manufacturer,
			&p.Price,
			&p.Stock,
			&p.Active,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.DeletedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *productRepository) Categories(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE organization_id=$1 ORDER BY category`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *productRepository) SoftDelete(ctx context.Context, orgID, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE products SET active=FALSE, deleted_at=NOW(), updated_at=NOW()
         WHERE id=$1 AND organization_id=$2 AND active=TRUE`, id, orgID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) InventoryStats(ctx context.Context, orgID string) ([]domain.CategoryInventory, error) {
	const query = `
        SELECT category, COUNT(*),
               COALESCE(SUM(price * stock), 0),
               COUNT(*) FILTER (WHERE stock < 10)
        FROM products
        WHERE organization_id=$1 AND active=TRUE
        GROUP BY category`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryInventory
	for rows.Next() {
		var inv domain.CategoryInventory
		if err := rows.Scan(&inv.Category, &inv.TotalProducts, &inv.TotalValue, &inv.LowStock); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}
