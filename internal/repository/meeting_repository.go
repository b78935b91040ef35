package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// MeetingRepository encapsulates visit persistence.
type MeetingRepository interface {
	Create(ctx context.Context, m *domain.Meeting) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Meeting, error)
	GetActiveByEmployee(ctx context.Context, orgID, employeeID string) (*domain.Meeting, error)
	CheckOut(ctx context.Context, m *domain.Meeting) error
	UpdateOutcome(ctx context.Context, m *domain.Meeting) error
	ListByEmployee(ctx context.Context, orgID, employeeID string, limit, offset int) ([]domain.Meeting, error)
	CountActiveByFacility(ctx context.Context, orgID, facilityID string) (int, error)
	FacilityStats(ctx context.Context, orgID, facilityID string) (*domain.FacilityVisitStats, error)
	MonthlyVisits(ctx context.Context, orgID string, months int) ([]domain.MonthlyVisits, error)
}

type meetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository instantiates repository.
func NewMeetingRepository(pool *pgxpool.Pool) MeetingRepository {
	return &meetingRepository{pool: pool}
}

const meetingColumns = `id, organization_id, employee_id, facility_id, facility_name, client_id,
        check_in_time, check_out_time, time_spent_minutes, meeting_type, outcome, notes,
        follow_up_date, order_id, latitude, longitude, created_at, updated_at`

func (r *meetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	const query = `
        INSERT INTO meetings (id, organization_id, employee_id, facility_id, facility_name, client_id,
            check_in_time, latitude, longitude)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		m.ID,
		m.OrganizationID,
		m.EmployeeID,
		m.FacilityID,
		m.FacilityName,
		m.ClientID,
		m.CheckInTime,
		m.Latitude,
		m.Longitude,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *meetingRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Meeting, error) {
	return r.fetchSingle(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id=$1 AND organization_id=$2`, id, orgID)
}

func (r *meetingRepository) GetActiveByEmployee(ctx context.Context, orgID, employeeID string) (*domain.Meeting, error) {
	return r.fetchSingle(ctx,
		`SELECT `+meetingColumns+` FROM meetings
         WHERE employee_id=$1 AND organization_id=$2 AND check_out_time IS NULL
         ORDER BY check_in_time DESC LIMIT 1`, employeeID, orgID)
}

func (r *meetingRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Meeting, error) {
	var m domain.Meeting
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.OrganizationID,
		&m.EmployeeID,
		&m.FacilityID,
		&m.FacilityName,
		&m.ClientID,
		&m.CheckInTime,
		&m.CheckOutTime,
		&m.TimeSpentMinutes,
		&m.MeetingType,
		&m.Outcome,
		&m.Notes,
		&m.FollowUpDate,
		&m.OrderID,
		&m.Latitude,
		&m.Longitude,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *meetingRepository) CheckOut(ctx context.Context, m *domain.Meeting) error {
	const query = `
        UPDATE meetings SET check_out_time=$1, time_spent_minutes=$2, meeting_type=$3,
            notes=$4, order_id=$5, updated_at=NOW()
        WHERE id=$6 AND organization_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		m.CheckOutTime,
		m.TimeSpentMinutes,
		m.MeetingType,
		m.Notes,
		m.OrderID,
		m.ID,
		m.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meetingRepository) UpdateOutcome(ctx context.Context, m *domain.Meeting) error {
	const query = `
        UPDATE meetings SET outcome=$1, notes=$2, follow_up_date=$3, updated_at=NOW()
        WHERE id=$4 AND organization_id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		m.Outcome,
		m.Notes,
		m.FollowUpDate,
		m.ID,
		m.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meetingRepository) ListByEmployee(ctx context.Context, orgID, employeeID string, limit, offset int) ([]domain.Meeting, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+meetingColumns+` FROM meetings
         WHERE employee_id=$1 AND organization_id=$2
         ORDER BY check_in_time DESC LIMIT $3 OFFSET $4`,
		employeeID, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.EmployeeID,
			&m.FacilityID,
			&m.FacilityName,
			&m.ClientID,
			&m.CheckInTime,
			&m.CheckOutTime,
			&m.TimeSpentMinutes,
			&m.MeetingType,
			&m.Outcome,
			&m.Notes,
			&m.FollowUpDate,
			&m.OrderID,
			&m.Latitude,
			&m.Longitude,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *meetingRepository) CountActiveByFacility(ctx context.Context, orgID, facilityID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meetings
         WHERE facility_id=$1 AND organization_id=$2 AND check_out_time IS NULL`,
		facilityID, orgID).Scan(&count)
	return count, err
}

func (r *meetingRepository) FacilityStats(ctx context.Context, orgID, facilityID string) (*domain.FacilityVisitStats, error) {
	const query = `
        SELECT COUNT(*), MAX(check_in_time)
        FROM meetings WHERE facility_id=$1 AND organization_id=$2`

	var stats domain.FacilityVisitStats
	if err := r.pool.QueryRow(ctx, query, facilityID, orgID).Scan(
		&stats.TotalVisits, &stats.LastVisit,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *meetingRepository) MonthlyVisits(ctx context.Context, orgID string, months int) ([]domain.MonthlyVisits, error) {
	if months <= 0 {
		months = 12
	}
	const query = `
        SELECT EXTRACT(YEAR FROM check_in_time)::int,
               EXTRACT(MONTH FROM check_in_time)::int,
               COUNT(*),
               COUNT(DISTINCT facility_id),
               COUNT(DISTINCT employee_id)
        FROM meetings
        WHERE organization_id=$1
        GROUP BY 1, 2
        ORDER BY 1 DESC, 2 DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, orgID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlyVisits
	for rows.Next() {
		var m domain.MonthlyVisits
		if err := rows.Scan(&m.Year, &m.Month, &m.TotalVisits, &m.UniqueFacilities, &m.UniqueEmployees); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
