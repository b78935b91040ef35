package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// AttendanceRepository stores daily clock-in records, one row per employee per day.
type AttendanceRepository interface {
	Create(ctx context.Context, a *domain.Attendance) error
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.Attendance, error)
	SetClockOut(ctx context.Context, employeeID string, date, clockOut time.Time) error
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.Attendance, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

const attendanceColumns = `id, employee_id, date, clock_in_time, clock_out_time, work_from_home, latitude, longitude`

func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	const query = `
        INSERT INTO attendance (id, employee_id, date, clock_in_time, work_from_home, latitude, longitude)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.EmployeeID,
		a.Date,
		a.ClockInTime,
		a.WorkFromHome,
		a.Latitude,
		a.Longitude,
	)
	return err
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.Attendance, error) {
	var a domain.Attendance
	if err := r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id=$1 AND date=$2`,
		employeeID, date).Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.ClockInTime,
		&a.ClockOutTime,
		&a.WorkFromHome,
		&a.Latitude,
		&a.Longitude,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepository) SetClockOut(ctx context.Context, employeeID string, date, clockOut time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE attendance SET clock_out_time=$1 WHERE employee_id=$2 AND date=$3 AND clock_out_time IS NULL`,
		clockOut, employeeID, date)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
         WHERE employee_id=$1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.Date,
			&a.ClockInTime,
			&a.ClockOutTime,
			&a.WorkFromHome,
			&a.Latitude,
			&a.Longitude,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
