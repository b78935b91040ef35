package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// ClientFilter captures list query parameters for clients.
type ClientFilter struct {
	OrganizationID string
	FacilityID     *string
	Capacity       *domain.ClientCapacity
	Search         *string
	SortBy         string
	SortDesc       bool
	Limit          int
	Offset         int
}

// ClientRepository encapsulates client-contact persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Client, error)
	GetByMobile(ctx context.Context, orgID, mobile string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, int, error)
	ListByCreator(ctx context.Context, orgID, createdBy string) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, organization_id, facility_id, facility_name, name, designation,
        department, mobile, email, capacity, created_by, created_by_role, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, organization_id, facility_id, facility_name, name, designation,
            department, mobile, email, capacity, created_by, created_by_role)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		client.ID,
		client.OrganizationID,
		client.FacilityID,
		client.FacilityName,
		client.Name,
		client.Designation,
		client.Department,
		client.Mobile,
		client.Email,
		client.Capacity,
		client.CreatedBy,
		client.CreatedByRole,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, designation=$2, department=$3, mobile=$4, email=$5,
            capacity=$6, updated_at=NOW()
        WHERE id=$7 AND organization_id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		client.Name,
		client.Designation,
		client.Department,
		client.Mobile,
		client.Email,
		client.Capacity,
		client.ID,
		client.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Client, error) {
	return r.fetchSingle(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id=$1 AND organization_id=$2`, id, orgID)
}

func (r *clientRepository) GetByMobile(ctx context.Context, orgID, mobile string) (*domain.Client, error) {
	return r.fetchSingle(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE mobile=$1 AND organization_id=$2`, mobile, orgID)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Client, error) {
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&client.ID,
		&client.OrganizationID,
		&client.FacilityID,
		&client.FacilityName,
		&client.Name,
		&client.Designation,
		&client.Department,
		&client.Mobile,
		&client.Email,
		&client.Capacity,
		&client.CreatedBy,
		&client.CreatedByRole,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, int, error) {
	clauses := []string{"organization_id=$1"}
	args := []any{filter.OrganizationID}

	if filter.FacilityID != nil {
		args = append(args, *filter.FacilityID)
		clauses = append(clauses, fmt.Sprintf("facility_id=$%d", len(args)))
	}
	if filter.Capacity != nil {
		args = append(args, *filter.Capacity)
		clauses = append(clauses, fmt.Sprintf("capacity=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %s OR mobile LIKE %s OR LOWER(email) LIKE %s OR LOWER(facility_name) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "facility_name", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "ASC"
	if filter.SortDesc {
		order = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM clients WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		clientColumns, where, sortBy, order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	clients, err := scanClients(rows)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *clientRepository) ListByCreator(ctx context.Context, orgID, createdBy string) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE organization_id=$1 AND created_by=$2 ORDER BY created_at DESC`,
		orgID, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func scanClients(rows pgx.Rows) ([]domain.Client, error) {
	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.OrganizationID,
			&client.FacilityID,
			&client.FacilityName,
			&client.Name,
			&client.Designation,
			&client.Department,
			&client.Mobile,
			&client.Email,
			&client.Capacity,
			&client.CreatedBy,
			&client.CreatedByRole,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}
