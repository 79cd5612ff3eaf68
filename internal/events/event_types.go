package events

import (
	"time"

	"github.com/rcorp/claims-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Kind      domain.TicketKind `json:"kind"`
	Status    domain.Status     `json:"status"`
	AccountID string            `json:"account_id"`
	VehicleID *string           `json:"vehicle_id,omitempty"`
	PolicyID  *string           `json:"policy_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Kind       domain.TicketKind `json:"kind"`
	FromStatus *domain.Status    `json:"from_status,omitempty"`
	ToStatus   domain.Status     `json:"to_status"`
	Note       string            `json:"note,omitempty"`
	EventID    string            `json:"event_id"`
}
