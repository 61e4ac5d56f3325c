package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type ServiceRepository interface {
	Create(ctx context.Context, specialistID int64, req *domain.CreateServiceRequest) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Service, error)
	Update(ctx context.Context, id int64, req *domain.UpdateServiceRequest) (*domain.Service, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceCols = `id, specialist_id, name, description, duration_min, price_cents, currency, created_at, updated_at`

func scanService(row pgx.Row, s *domain.Service) error {
	return row.Scan(
		&s.ID, &s.SpecialistID, &s.Name, &s.Description,
		&s.DurationMin, &s.PriceCents, &s.Currency, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *serviceRepository) Create(ctx context.Context, specialistID int64, req *domain.CreateServiceRequest) (*domain.Service, error) {
	const q = `INSERT INTO services (specialist_id, name, description, duration_min, price_cents, currency)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + serviceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Service
	err := scanService(r.pool.QueryRow(ctx, q,
		specialistID, req.Name, req.Description, req.DurationMin, req.PriceCents, req.Currency,
	), &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Service
	err := scanService(r.pool.QueryRow(ctx, q, id), &s)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Service, error) {
	const q = `SELECT ` + serviceCols + ` FROM services WHERE specialist_id=$1 ORDER BY name ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, specialistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := scanService(rows, &s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *serviceRepository) Update(ctx context.Context, id int64, req *domain.UpdateServiceRequest) (*domain.Service, error) {
	const q = `UPDATE services SET
	name         = COALESCE($2, name),
	description  = COALESCE($3, description),
	duration_min = COALESCE($4, duration_min),
	price_cents  = COALESCE($5, price_cents),
	currency     = COALESCE($6, currency),
	updated_at   = now()
WHERE id=$1
RETURNING ` + serviceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Service
	err := scanService(r.pool.QueryRow(ctx, q, id, req.Name, req.Description, req.DurationMin, req.PriceCents, req.Currency), &s)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM services WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
