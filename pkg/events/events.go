package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/glambook/glambook-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	AppointmentCreated  = "appointment.created"
	AppointmentUpdated  = "appointment.updated"
	AppointmentCanceled = "appointment.canceled"

	ReviewCreated = "review.created"
	MessageSent   = "message.sent"

	PaymentIntentCreated = "payment.intent.created"

	NotifySend = "notify.send"
)

// Event payloads
type AppointmentCreatedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	SpecialistID  int64     `json:"specialist_id"`
	CustomerID    int64     `json:"customer_id"`
	ServiceID     *int64    `json:"service_id,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type AppointmentUpdatedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	SpecialistID  int64     `json:"specialist_id"`
	CustomerID    int64     `json:"customer_id"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentCanceledEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	SpecialistID  int64     `json:"specialist_id"`
	CustomerID    int64     `json:"customer_id"`
	Reason        string    `json:"reason"`
	CanceledAt    time.Time `json:"canceled_at"`
}

type ReviewCreatedEvent struct {
	ReviewID     int64     `json:"review_id"`
	SpecialistID int64     `json:"specialist_id"`
	CustomerID   int64     `json:"customer_id"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageSentEvent struct {
	MessageID   int64     `json:"message_id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	SentAt      time.Time `json:"sent_at"`
}

type PaymentIntentCreatedEvent struct {
	AppointmentID int64  `json:"appointment_id"`
	IntentID      string `json:"intent_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

type NotificationEvent struct {
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Data      map[string]interface{} `json:"data"`
}
