package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// WFHRepository stores work-from-home requests.
type WFHRepository interface {
	Create(ctx context.Context, req *domain.WFHRequest) error
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.WFHRequest, error)
	ListByOrganization(ctx context.Context, orgID string, status *domain.WFHStatus, limit, offset int) ([]domain.WFHRequest, error)
	Decide(ctx context.Context, orgID, id string, status domain.WFHStatus, decidedBy string, decidedAt time.Time) error
}

type wfhRepository struct {
	pool *pgxpool.Pool
}

// NewWFHRepository instantiates repository.
func NewWFHRepository(pool *pgxpool.Pool) WFHRepository {
	return &wfhRepository{pool: pool}
}

const wfhColumns = `id, organization_id, employee_id, date, reason, status, decided_by, decided_at, created_at`

func (r *wfhRepository) Create(ctx context.Context, req *domain.WFHRequest) error {
	const query = `
        INSERT INTO wfh_requests (id, organization_id, employee_id, date, reason, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.OrganizationID,
		req.EmployeeID,
		req.Date,
		req.Reason,
		req.Status,
	).Scan(&req.CreatedAt)
}

func (r *wfhRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.WFHRequest, error) {
	var req domain.WFHRequest
	if err := r.pool.QueryRow(ctx,
		`SELECT `+wfhColumns+` FROM wfh_requests
         WHERE employee_id=$1 AND date=$2
         ORDER BY created_at DESC LIMIT 1`,
		employeeID, date).Scan(
		&req.ID,
		&req.OrganizationID,
		&req.EmployeeID,
		&req.Date,
		&req.Reason,
		&req.Status,
		&req.DecidedBy,
		&req.DecidedAt,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *wfhRepository) ListByOrganization(ctx context.Context, orgID string, status *domain.WFHStatus, limit, offset int) ([]domain.WFHRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + wfhColumns + ` FROM wfh_requests WHERE organization_id=$1`
	args := []any{orgID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status=$2`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WFHRequest
	for rows.Next() {
		var req domain.WFHRequest
		if err := rows.Scan(
			&req.ID,
			&req.OrganizationID,
			&req.EmployeeID,
			&req.Date,
			&req.Reason,
			&req.Status,
			&req.DecidedBy,
			&req.DecidedAt,
			&req.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *wfhRepository) Decide(ctx context.Context, orgID, id string, status domain.WFHStatus, decidedBy string, decidedAt time.Time) error {
	const query = `
        UPDATE wfh_requests SET status=$1, decided_by=$2, decided_at=$3
        WHERE id=$4 AND organization_id=$5 AND status='pending'`

	cmd, err := r.pool.Exec(ctx, query, status, decidedBy, decidedAt, id, orgID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
