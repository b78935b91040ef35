package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// ErrEmployeeLimitReached is returned when an insert would exceed the
// organization's employee quota.
var ErrEmployeeLimitReached = errors.New("employee limit reached")

// EmployeeLocation is the last known position of an employee.
type EmployeeLocation struct {
	EmployeeID string
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
	Source     string
}

// EmployeeRepository defines persistence access for field employees.
type EmployeeRepository interface {
	// CreateWithinQuota inserts the employee only if the organization's
	// current count is below its quota. The count and the insert run in one
	// transaction holding the organization row lock, so two concurrent
	// creations cannot both pass the check.
	CreateWithinQuota(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	ListByOrganization(ctx context.Context, orgID string) ([]domain.Employee, error)
	CountByOrganization(ctx context.Context, orgID string) (int, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	LastKnownLocation(ctx context.Context, orgID, employeeID string) (*EmployeeLocation, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, email, name, phone, organization_id, organization_name, admin_id,
        password_hash, designation, department, active, created_at, updated_at`

func (r *employeeRepository) CreateWithinQuota(ctx context.Context, emp *domain.Employee) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var quota int
	if err := tx.QueryRow(ctx,
		`SELECT employee_quota FROM organizations WHERE id=$1 FOR UPDATE`,
		emp.OrganizationID,
	).Scan(&quota); err != nil {
		return err
	}

	var current int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE organization_id=$1`,
		emp.OrganizationID,
	).Scan(&current); err != nil {
		return err
	}
	if current >= quota {
		return ErrEmployeeLimitReached
	}

	const insert = `
        INSERT INTO employees (id, email, name, phone, organization_id, organization_name, admin_id, designation, department, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		emp.ID,
		emp.Email,
		emp.Name,
		emp.Phone,
		emp.OrganizationID,
		emp.OrganizationName,
		emp.AdminID,
		emp.Designation,
		emp.Department,
		emp.Active,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *employeeRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	return r.fetchSingle(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id=$1 AND organization_id=$2`, id, orgID)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email=$1`, email)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Employee, error) {
	var emp domain.Employee
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&emp.ID,
		&emp.Email,
		&emp.Name,
		&emp.Phone,
		&emp.OrganizationID,
		&emp.OrganizationName,
		&emp.AdminID,
		&emp.PasswordHash,
		&emp.Designation,
		&emp.Department,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE organization_id=$1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.Email,
			&emp.Name,
			&emp.Phone,
			&emp.OrganizationID,
			&emp.OrganizationName,
			&emp.AdminID,
			&emp.PasswordHash,
			&emp.Designation,
			&emp.Department,
			&emp.Active,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE organization_id=$1`, orgID).Scan(&count)
	return count, err
}

func (r *employeeRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE employees SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE employees SET active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LastKnownLocation returns the most recent coordinates the employee
// reported, either at meeting check-in or at clock-in.
func (r *employeeRepository) LastKnownLocation(ctx context.Context, orgID, employeeID string) (*EmployeeLocation, error) {
	const query = `
        SELECT employee_id, latitude, longitude, recorded_at, source FROM (
            SELECT m.employee_id, m.latitude, m.longitude, m.check_in_time AS recorded_at, 'meeting' AS source
            FROM meetings m
            WHERE m.employee_id=$1 AND m.organization_id=$2
            UNION ALL
            SELECT a.employee_id, a.latitude, a.longitude, a.clock_in_time AS recorded_at, 'attendance' AS source
            FROM attendance a
            JOIN employees e ON e.id = a.employee_id
            WHERE a.employee_id=$1 AND e.organization_id=$2
              AND a.latitude IS NOT NULL AND a.longitude IS NOT NULL
        ) locations
        ORDER BY recorded_at DESC
        LIMIT 1`

	var loc EmployeeLocation
	if err := r.pool.QueryRow(ctx, query, employeeID, orgID).Scan(
		&loc.EmployeeID,
		&loc.Latitude,
		&loc.Longitude,
		&loc.RecordedAt,
		&loc.Source,
	); err != nil {
		return nil, err
	}
	return &loc, nil
}
