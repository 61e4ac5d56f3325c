package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRepository remembers which appointment a booking key produced
// so that client retries return the original row instead of double-booking.
type IdempotencyRepository interface {
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, appointmentID int64) error
}

type idempotencyRepository struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewIdempotencyRepository(pool *pgxpool.Pool) IdempotencyRepository {
	return &idempotencyRepository{pool: pool, ttl: 24 * time.Hour}
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (r *idempotencyRepository) Lookup(ctx context.Context, key string) (int64, bool, error) {
	const q = `SELECT appointment_id FROM booking_idempotency_keys
WHERE key_hash=$1 AND expires_at > now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q, hashKey(key)).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *idempotencyRepository) Remember(ctx context.Context, key string, appointmentID int64) error {
	const q = `INSERT INTO booking_idempotency_keys (key_hash, appointment_id, expires_at)
VALUES ($1,$2,$3)
ON CONFLICT (key_hash) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, hashKey(key), appointmentID, time.Now().UTC().Add(r.ttl))
	return err
}
