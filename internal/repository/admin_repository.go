package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// AdminStats summarizes admin verification state for the superadmin dashboard.
type AdminStats struct {
	Total    int
	Verified int
	Pending  int
	Recent   []domain.Admin
}

// AdminRepository defines persistence access for organization admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.Admin, int, error)
	MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	Stats(ctx context.Context) (*AdminStats, error)
	Delete(ctx context.Context, id string) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, email, name, phone, organization_id, organization_name,
        password_hash, verified, verified_at, verified_by, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (id, email, name, phone, organization_id, organization_name, verified)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.ID,
		admin.Email,
		admin.Name,
		admin.Phone,
		admin.OrganizationID,
		admin.OrganizationName,
		admin.Verified,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE email=$1`, email)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.Phone,
		&admin.OrganizationID,
		&admin.OrganizationName,
		&admin.PasswordHash,
		&admin.Verified,
		&admin.VerifiedAt,
		&admin.VerifiedBy,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.Admin, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins WHERE verified=FALSE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + adminColumns + `
        FROM admins WHERE verified=FALSE
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	admins, err := scanAdmins(rows)
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

func (r *adminRepository) MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error {
	const query = `
        UPDATE admins SET verified=TRUE, verified_at=$1, verified_by=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, at, verifiedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE admins SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	const countQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE verified),
               COUNT(*) FILTER (WHERE NOT verified)
        FROM admins`
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&stats.Total, &stats.Verified, &stats.Pending); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.Recent, err = scanAdmins(rows)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAdmins(rows pgx.Rows) ([]domain.Admin, error) {
	var result []domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(
			&admin.ID,
			&admin.Email,
			&admin.Name,
			&admin.Phone,
			&admin.OrganizationID,
			&admin.OrganizationName,
			&admin.PasswordHash,
			&admin.Verified,
			&admin.VerifiedAt,
			&admin.VerifiedBy,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}
