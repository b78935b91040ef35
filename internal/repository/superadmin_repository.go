package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// SuperAdminRepository defines persistence access for the bootstrap principal.
type SuperAdminRepository interface {
	Create(ctx context.Context, sa *domain.SuperAdmin) error
	GetByEmail(ctx context.Context, email string) (*domain.SuperAdmin, error)
	Exists(ctx context.Context) (bool, error)
}

type superAdminRepository struct {
	pool *pgxpool.Pool
}

// NewSuperAdminRepository returns a Postgres-backed implementation.
func NewSuperAdminRepository(pool *pgxpool.Pool) SuperAdminRepository {
	return &superAdminRepository{pool: pool}
}

func (r *superAdminRepository) Create(ctx context.Context, sa *domain.SuperAdmin) error {
	const query = `
        INSERT INTO superadmins (id, email, password_hash)
        VALUES ($1,$2,$3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query, sa.ID, sa.Email, sa.PasswordHash).Scan(&sa.CreatedAt)
}

func (r *superAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.SuperAdmin, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM superadmins WHERE email=$1`

	var sa domain.SuperAdmin
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&sa.ID,
		&sa.Email,
		&sa.PasswordHash,
		&sa.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *superAdminRepository) Exists(ctx context.Context) (bool, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM superadmins`).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
