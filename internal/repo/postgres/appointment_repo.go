package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, req *domain.CreateAppointmentRequest, status domain.AppointmentStatus) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListBySpecialist(ctx context.Context, specialistID int64, limit, offset int) ([]domain.Appointment, error)
	ListOverlapping(ctx context.Context, specialistID int64, start, end time.Time) ([]domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.AppointmentStatus) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) (bool, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentCols = `id, specialist_id, customer_id, service_id,
start_time, end_time, status, created_at, updated_at`

func scanAppointment(row pgx.Row, a *domain.Appointment) error {
	return row.Scan(
		&a.ID, &a.SpecialistID, &a.CustomerID, &a.ServiceID,
		&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
}

// Create inserts the appointment. The appointments table carries an
// exclusion constraint on (specialist_id, [start_time, end_time]) for
// non-cancelled rows, so when two concurrent requests race for overlapping
// slots exactly one insert commits; the loser surfaces domain.ErrSlotTaken.
func (r *appointmentRepository) Create(ctx context.Context, req *domain.CreateAppointmentRequest, status domain.AppointmentStatus) (*domain.Appointment, error) {
	const q = `INSERT INTO appointments (specialist_id, customer_id, service_id, start_time, end_time, status)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + appointmentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Appointment
	err := scanAppointment(r.pool.QueryRow(ctx, q,
		req.SpecialistID, req.CustomerID, req.ServiceID,
		req.StartTime, req.EndTime, status,
	), &a)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Appointment
	err := scanAppointment(r.pool.QueryRow(ctx, q, id), &a)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) ListBySpecialist(ctx context.Context, specialistID int64, limit, offset int) ([]domain.Appointment, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT ` + appointmentCols + ` FROM appointments
WHERE specialist_id=$1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, specialistID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListOverlapping fetches live appointments whose interval touches
// [start, end], endpoints included. This is the read side of the conflict
// check; the insert-time constraint is what makes it race-safe.
func (r *appointmentRepository) ListOverlapping(ctx context.Context, specialistID int64, start, end time.Time) ([]domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments
WHERE specialist_id=$1 AND status <> 'cancelled'
  AND start_time <= $3 AND end_time >= $2
ORDER BY start_time ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, specialistID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *appointmentRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.AppointmentStatus) ([]domain.Appointment, error) {
	limit, offset = clampPage(limit, offset)

	q := `SELECT ` + appointmentCols + ` FROM appointments WHERE customer_id=$1`
	args := []any{customerID}
	if status != nil {
		q += ` AND status=$2 ORDER BY start_time DESC LIMIT $3 OFFSET $4`
		args = append(args, *status, limit, offset)
	} else {
		q += ` ORDER BY start_time DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	const q = `UPDATE appointments SET status=$2, updated_at=now() WHERE id=$1
RETURNING ` + appointmentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Appointment
	err := scanAppointment(r.pool.QueryRow(ctx, q, id, status), &a)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE appointments SET status='cancelled', updated_at=now()
WHERE id=$1 AND status <> 'cancelled'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// isExclusionViolation matches SQLSTATE 23P01 (exclusion_violation).
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// isForeignKeyViolation matches SQLSTATE 23503 (foreign_key_violation).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isUniqueViolation matches SQLSTATE 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
