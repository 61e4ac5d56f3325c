package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glambook/glambook-api/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, senderID int64, req *domain.SendMessageRequest) (*domain.Message, error)
	ListConversation(ctx context.Context, userA, userB int64, limit, offset int) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, senderID int64, req *domain.SendMessageRequest) (*domain.Message, error) {
	const q = `INSERT INTO messages (sender_id, recipient_id, body)
VALUES ($1,$2,$3)
RETURNING id, sender_id, recipient_id, body, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.Message
	err := r.pool.QueryRow(ctx, q, senderID, req.RecipientID, req.Body).
		Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userA, userB int64, limit, offset int) ([]domain.Message, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT id, sender_id, recipient_id, body, created_at FROM messages
WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
