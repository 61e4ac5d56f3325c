package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListSpecialists(ctx context.Context, query, location string, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, email, password_hash, name, phone, role, location, bio, created_at, updated_at`

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone,
		&u.Role, &u.Location, &u.Bio, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *userRepository) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	const q = `INSERT INTO users (email, password_hash, name, phone, role, location, bio)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, q,
		req.Email, passwordHash, req.Name, req.Phone, req.Role, req.Location, req.Bio,
	), &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, q, email), &u)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, q, id), &u)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	const q = `UPDATE users SET
	name     = COALESCE($2, name),
	phone    = COALESCE($3, phone),
	location = COALESCE($4, location),
	bio      = COALESCE($5, bio),
	updated_at = now()
WHERE id=$1
RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, q, id, req.Name, req.Phone, req.Location, req.Bio), &u)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM users WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if isForeignKeyViolation(err) {
		return false, domain.ErrAccountInUse
	}
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *userRepository) ListSpecialists(ctx context.Context, query, location string, limit, offset int) ([]domain.User, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT ` + userCols + ` FROM users
WHERE role='specialist'
  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR bio ILIKE '%' || $1 || '%')
  AND ($2 = '' OR location ILIKE '%' || $2 || '%')
ORDER BY name ASC LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, query, location, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
