package events

import (
	"encoding/json"
	"sync"
	"time"

	"ruangkampus/internal/models"
)

const (
	EventLoanCreated  = "loan_created"
	EventLoanUpdated  = "loan_updated"
	EventLoanApproved = "loan_approved"
	EventLoanRejected = "loan_rejected"
	EventLoanDeleted  = "loan_deleted"
)

// LoanEventPayload describes the minimal loan snapshot for event consumers.
type LoanEventPayload struct {
	LoanID       int64     `json:"loan_id"`
	BorrowerName string    `json:"borrower_name"`
	RoomID       string    `json:"room_id,omitempty"`
	RoomName     string    `json:"room_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Purpose      string    `json:"purpose,omitempty"`
	Status       string    `json:"status"`
	ChangedBy    string    `json:"changed_by,omitempty"`
}

// NewLoanPayload snapshots a loan for publishing.
func NewLoanPayload(loan models.Loan, changedBy string) LoanEventPayload {
	return LoanEventPayload{
		LoanID:       loan.ID,
		BorrowerName: loan.BorrowerName,
		RoomID:       loan.RoomID,
		RoomName:     loan.RoomName,
		StartTime:    loan.StartTime,
		EndTime:      loan.EndTime,
		Purpose:      loan.Purpose,
		Status:       loan.Status,
		ChangedBy:    changedBy,
	}
}

// Loan rebuilds the loan snapshot carried by the payload.
func (p LoanEventPayload) Loan() models.Loan {
	return models.Loan{
		ID:           p.LoanID,
		BorrowerName: p.BorrowerName,
		RoomID:       p.RoomID,
		RoomName:     p.RoomName,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		Purpose:      p.Purpose,
		Status:       p.Status,
	}
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
