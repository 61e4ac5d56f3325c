package domain

import (
	"fmt"
	"strings"
	"time"
)

// Message is one direct message between two users. Delivery is plain CRUD;
// there is no real-time transport here.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Body        string `json:"body"`
}

func (r *SendMessageRequest) Validate() error {
	if r.RecipientID <= 0 {
		return fmt.Errorf("recipient_id is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("body is required")
	}
	if len(r.Body) > 4000 {
		return fmt.Errorf("body must be at most 4000 characters")
	}
	return nil
}

func (r *SendMessageRequest) Normalize() {
	r.Body = strings.TrimSpace(r.Body)
}
