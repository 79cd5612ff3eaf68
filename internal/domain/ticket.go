package domain

import "time"

// TicketKind distinguishes the two tracked case categories.
type TicketKind string

const (
	KindClaim      TicketKind = "claim"
	KindAssistance TicketKind = "assistance"
)

// IsValid reports whether the kind is a known value.
func (k TicketKind) IsValid() bool {
	switch k {
	case KindClaim, KindAssistance:
		return true
	default:
		return false
	}
}

// Status is a named point in a ticket's lifecycle. Each kind owns its
// own set of valid codes (see the catalog package).
type Status string

// Stage is the coarse lifecycle grouping used for progress rendering.
type Stage string

const (
	StageOpening      Stage = "opening"
	StageAnalysis     Stage = "analysis"
	StageExecution    Stage = "execution"
	StageFinalization Stage = "finalization"
	StageClosed       Stage = "closed"
)

// Stages lists all stages in lifecycle order.
func Stages() []Stage {
	return []Stage{StageOpening, StageAnalysis, StageExecution, StageFinalization, StageClosed}
}

// Ticket is the aggregate for claim and assistance cases. Status is
// mutated only through the transition service; the event history is the
// audit source of truth.
type Ticket struct {
	ID        string
	Kind      TicketKind
	Status    Status
	AccountID string
	VehicleID *string
	PolicyID  *string
	SLADueAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SLAInfo is a display-only projection of a ticket's SLA deadline. The
// deadline is supplied at intake; nothing here schedules work.
type SLAInfo struct {
	DueAt   *time.Time
	Overdue bool
}

// SLAInfoAt derives SLA display data for a ticket at the given instant.
// Tickets in a closed status are never reported overdue.
func SLAInfoAt(ticket *Ticket, closed bool, now time.Time) SLAInfo {
	info := SLAInfo{DueAt: ticket.SLADueAt}
	if ticket.SLADueAt != nil && !closed && now.After(*ticket.SLADueAt) {
		info.Overdue = true
	}
	return info
}
