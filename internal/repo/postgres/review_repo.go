package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, customerID int64, req *domain.CreateReviewRequest) (*domain.Review, error)
	ListBySpecialist(ctx context.Context, specialistID int64, limit, offset int) ([]domain.Review, error)
	ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, customerID int64, req *domain.CreateReviewRequest) (*domain.Review, error) {
	const q = `INSERT INTO reviews (appointment_id, specialist_id, customer_id, rating, comment)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, appointment_id, specialist_id, customer_id, rating, comment, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rev domain.Review
	err := r.pool.QueryRow(ctx, q,
		req.AppointmentID, req.SpecialistID, customerID, req.Rating, req.Comment,
	).Scan(&rev.ID, &rev.AppointmentID, &rev.SpecialistID, &rev.CustomerID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateReview
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *reviewRepository) ListBySpecialist(ctx context.Context, specialistID int64, limit, offset int) ([]domain.Review, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT id, appointment_id, specialist_id, customer_id, rating, comment, created_at
FROM reviews WHERE specialist_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, specialistID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.AppointmentID, &rev.SpecialistID, &rev.CustomerID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reviews WHERE appointment_id=$1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, q, appointmentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
