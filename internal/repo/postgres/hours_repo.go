package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type HoursRepository interface {
	ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.BusinessHours, error)
	ReplaceAll(ctx context.Context, specialistID int64, windows []domain.BusinessHours) error
}

type hoursRepository struct {
	pool *pgxpool.Pool
}

func NewHoursRepository(pool *pgxpool.Pool) HoursRepository {
	return &hoursRepository{pool: pool}
}

func (r *hoursRepository) ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.BusinessHours, error) {
	const q = `SELECT id, specialist_id, weekday, open_minute, close_minute
FROM business_hours WHERE specialist_id=$1 ORDER BY weekday, open_minute`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, specialistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []domain.BusinessHours
	for rows.Next() {
		var h domain.BusinessHours
		if err := rows.Scan(&h.ID, &h.SpecialistID, &h.Weekday, &h.OpenMinute, &h.CloseMinute); err != nil {
			return nil, err
		}
		windows = append(windows, h)
	}
	return windows, rows.Err()
}

// ReplaceAll swaps the specialist's full weekly schedule in one transaction.
func (r *hoursRepository) ReplaceAll(ctx context.Context, specialistID int64, windows []domain.BusinessHours) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM business_hours WHERE specialist_id=$1`, specialistID); err != nil {
		return err
	}
	for _, w := range windows {
		_, err := tx.Exec(ctx,
			`INSERT INTO business_hours (specialist_id, weekday, open_minute, close_minute) VALUES ($1,$2,$3,$4)`,
			specialistID, w.Weekday, w.OpenMinute, w.CloseMinute,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
