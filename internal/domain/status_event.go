package domain

import "time"

// StoredAttachment references a file persisted by the storage
// collaborator and linked to a status event.
type StoredAttachment struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

// StatusEvent is an immutable audit record of one status transition.
// FromStatus is nil only for the creation event written at intake.
// Events are append-only and ordered by CreatedAt; the newest event's
// ToStatus must match the ticket's current status.
type StatusEvent struct {
	ID          string
	TicketID    string
	FromStatus  *Status
	ToStatus    Status
	Note        string
	Attachments []StoredAttachment
	ActorID     string
	ActorName   string
	CreatedAt   time.Time
}
