package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/abdulrazikehab/Dawah-sub000/pkg/logger"
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
	ID        string
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
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
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
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects consumed by the notification and reporting collaborators.
const (
	EventCreated     = "event.created"
	EmployeeAssigned = "event.assigned"

	GuestInvited  = "guest.invited"
	RSVPSubmitted = "rsvp.submitted"

	GuestCheckedIn     = "guest.checked_in"
	GuestCheckInUndone = "guest.checkin_undone"

	NotifySend = "notify.send"
)

type EventCreatedEvent struct {
	EventID          int64     `json:"event_id"`
	HostID           int64     `json:"host_id"`
	Title            string    `json:"title"`
	PublicSlug       string    `json:"public_slug"`
	GuestCountTarget int       `json:"guest_count_target"`
	CreatedAt        time.Time `json:"created_at"`
}

type EmployeeAssignedEvent struct {
	EventID    int64     `json:"event_id"`
	EmployeeID int64     `json:"employee_id"`
	AssignedBy int64     `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

type GuestInvitedEvent struct {
	GuestID       int64     `json:"guest_id"`
	EventID       int64     `json:"event_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	MaxCompanions int       `json:"max_companions"`
	InvitedAt     time.Time `json:"invited_at"`
}

type RSVPSubmittedEvent struct {
	GuestID     int64     `json:"guest_id"`
	EventID     int64     `json:"event_id"`
	Status      string    `json:"status"`
	Companions  int       `json:"companions"`
	Self        bool      `json:"self_registered"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type GuestCheckedInEvent struct {
	GuestID     int64     `json:"guest_id"`
	EventID     int64     `json:"event_id"`
	PerformedBy int64     `json:"performed_by"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type GuestCheckInUndoneEvent struct {
	GuestID    int64     `json:"guest_id"`
	EventID    int64     `json:"event_id"`
	UndoneBy   int64     `json:"undone_by"`
	UndoneAt   time.Time `json:"undone_at"`
	PrevTime   time.Time `json:"previous_checked_in_at"`
}

type NotificationEvent struct {
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Template  string                 `json:"template"`
	Data      map[string]interface{} `json:"data"`
}
