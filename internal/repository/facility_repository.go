package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// FacilityFilter captures list query parameters. Organization scope is
// mandatory; it always comes from verified claims, never from the request.
type FacilityFilter struct {
	OrganizationID string
	Search         *string
	Type           *domain.FacilityType
	City           *string
	State          *string
	Status         *domain.FacilityStatus
	Limit          int
	Offset         int
}

// FacilityTypeStats is one row of the admin stats overview.
type FacilityTypeStats struct {
	Type   domain.FacilityType
	Count  int
	Cities []string
	States []string
}

// FacilityRepository encapsulates facility persistence.
type FacilityRepository interface {
	Create(ctx context.Context, f *domain.Facility) error
	Update(ctx context.Context, f *domain.Facility) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Facility, error)
	GetByName(ctx context.Context, orgID, name string) (*domain.Facility, error)
	List(ctx context.Context, filter FacilityFilter) ([]domain.Facility, int, error)
	SoftDelete(ctx context.Context, orgID, id string) error
	AddRating(ctx context.Context, orgID, id, employeeID string, rating int) (*domain.Facility, error)
	StatsByType(ctx context.Context, orgID string) ([]FacilityTypeStats, error)
}

type facilityRepository struct {
	pool *pgxpool.Pool
}

// NewFacilityRepository instantiates repository.
func NewFacilityRepository(pool *pgxpool.Pool) FacilityRepository {
	return &facilityRepository{pool: pool}
}

const facilityColumns = `id, organization_id, name, address, city, state, country, pincode,
        phone, email, type, status, latitude, longitude, place_id, specialties,
        rating, total_ratings, added_by, added_by_role, created_at, updated_at, deleted_at`

func (r *facilityRepository) Create(ctx context.Context, f *domain.Facility) error {
	const query = `
        INSERT INTO facilities (id, organization_id, name, address, city, state, country, pincode,
            phone, email, type, status, latitude, longitude, place_id, specialties, added_by, added_by_role)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		f.ID,
		f.OrganizationID,
		f.Name,
		f.Address,
		f.City,
		f.State,
		f.Country,
		f.Pincode,
		f.Phone,
		f.Email,
		f.Type,
		f.Status,
		f.Latitude,
		f.Longitude,
		f.PlaceID,
		f.Specialties,
		f.AddedBy,
		f.AddedByRole,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *facilityRepository) Update(ctx context.Context, f *domain.Facility) error {
	const query = `
        UPDATE facilities SET name=$1, address=$2, city=$3, state=$4, country=$5, pincode=$6,
            phone=$7, email=$8, type=$9, latitude=$10, longitude=$11, place_id=$12,
            specialties=$13, updated_at=NOW()
        WHERE id=$14 AND organization_id=$15`

	cmd, err := r.pool.Exec(ctx, query,
		f.Name,
		f.Address,
		f.City,
		f.State,
		f.Country,
		f.Pincode,
		f.Phone,
		f.Email,
		f.Type,
		f.Latitude,
		f.Longitude,
		f.PlaceID,
		f.Specialties,
		f.ID,
		f.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *facilityRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Facility, error) {
	return r.fetchSingle(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE id=$1 AND organization_id=$2`, id, orgID)
}

func (r *facilityRepository) GetByName(ctx context.Context, orgID, name string) (*domain.Facility, error) {
	return r.fetchSingle(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE name=$1 AND organization_id=$2`, name, orgID)
}

func (r *facilityRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Facility, error) {
	var f domain.Facility
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID,
		&f.OrganizationID,
		&f.Name,
		&f.Address,
		&f.City,
		&f.State,
		&f.Country,
		&f.Pincode,
		&f.Phone,
		&f.Email,
		&f.Type,
		&f.Status,
		&f.Latitude,
		&f.Longitude,
		&f.PlaceID,
		&f.Specialties,
		&f.Rating,
		&f.TotalRatings,
		&f.AddedBy,
		&f.AddedByRole,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facilityRepository) List(ctx context.Context, filter FacilityFilter) ([]domain.Facility, int, error) {
	clauses := []string{"organization_id=$1"}
	args := []any{filter.OrganizationID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses,
			fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(address) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM facilities WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM facilities WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		facilityColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	facilities, err := scanFacilities(rows)
	if err != nil {
		return nil, 0, err
	}
	return facilities, total, nil
}

func (r *facilityRepository) SoftDelete(ctx context.Context, orgID, id string) error {
	const query = `
        UPDATE facilities SET status=$1, deleted_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND organization_id=$3 AND status=$4`

	cmd, err := r.pool.Exec(ctx, query,
		domain.FacilityStatusInactive, id, orgID, domain.FacilityStatusActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddRating appends a rating and updates the running average in one
// transaction, returning the updated facility.
func (r *facilityRepository) AddRating(ctx context.Context, orgID, id, employeeID string, rating int) (*domain.Facility, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current float64
	var count int
	if err := tx.QueryRow(ctx,
		`SELECT rating, total_ratings FROM facilities WHERE id=$1 AND organization_id=$2 FOR UPDATE`,
		id, orgID,
	).Scan(&current, &count); err != nil {
		return nil, err
	}

	newCount := count + 1
	newRating := (current*float64(count) + float64(rating)) / float64(newCount)

	if _, err := tx.Exec(ctx,
		`UPDATE facilities SET rating=$1, total_ratings=$2, updated_at=NOW() WHERE id=$3`,
		newRating, newCount, id,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO facility_ratings (facility_id, employee_id, rating, created_at) VALUES ($1,$2,$3,$4)`,
		id, employeeID, rating, time.Now().UTC(),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orgID, id)
}

func (r *facilityRepository) StatsByType(ctx context.Context, orgID string) ([]FacilityTypeStats, error) {
	const query = `
        SELECT type, COUNT(*),
               ARRAY_AGG(DISTINCT city), ARRAY_AGG(DISTINCT state)
        FROM facilities
        WHERE organization_id=$1
        GROUP BY type`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []FacilityTypeStats
	for rows.Next() {
		var s FacilityTypeStats
		if err := rows.Scan(&s.Type, &s.Count, &s.Cities, &s.States); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanFacilities(rows pgx.Rows) ([]domain.Facility, error) {
	var result []domain.Facility
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(
			&f.ID,
			&f.OrganizationID,
			&f.Name,
			&f.Address,
			&f.City,
			&f.State,
			&f.Country,
			&f.Pincode,
			&f.Phone,
			&f.Email,
			&f.Type,
			&f.Status,
			&f.Latitude,
			&f.Longitude,
			&f.PlaceID,
			&f.Specialties,
			&f.Rating,
			&f.TotalRatings,
			&f.AddedBy,
			&f.AddedByRole,
			&f.CreatedAt,
			&f.UpdatedAt,
			&f.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
