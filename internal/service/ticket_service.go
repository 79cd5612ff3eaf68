package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
	"github.com/rcorp/claims-service/internal/events"
	"github.com/rcorp/claims-service/internal/repository"
	"github.com/rcorp/claims-service/internal/stepper"
	"github.com/rcorp/claims-service/internal/storage"
	apperrors "github.com/rcorp/claims-service/pkg/util/errorutil"
)

// Authorizer decides whether an actor may transition a ticket.
type Authorizer interface {
	CanTransition(ctx context.Context, actorID string, ticket *domain.Ticket) (bool, error)
}

// ActorDirectory resolves display names for event denormalization. It
// is a write-time convenience, not an identity source of truth.
type ActorDirectory interface {
	GetDisplayName(ctx context.Context, actorID string) (string, error)
}

// TicketService coordinates ticket intake, queries and status
// transitions. It is the only writer of ticket status.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.StatusEventRepository
	authorizer Authorizer
	actors     ActorDirectory
	files      storage.FileStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	EventRepo  repository.StatusEventRepository
	Authorizer Authorizer
	Actors     ActorDirectory
	Files      storage.FileStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes intake payload.
type TicketCreateInput struct {
	Kind      domain.TicketKind
	AccountID string
	VehicleID *string
	PolicyID  *string
	SLADueAt  *time.Time
}

// TransitionInput describes one transition request.
type TransitionInput struct {
	NextStatus  domain.Status
	Note        string
	Attachments []storage.Upload
}

// TransitionResult carries the recorded event plus the number of
// attachments that failed to store and were skipped. A non-zero skip
// count still means the transition succeeded.
type TransitionResult struct {
	Kind               domain.TicketKind
	Event              domain.StatusEvent
	SkippedAttachments int
}

// TicketDetail aggregates everything the history panel renders.
type TicketDetail struct {
	Ticket   *domain.Ticket
	History  []domain.StatusEvent
	Progress stepper.Progress
	SLA      domain.SLAInfo
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.EventRepo,
		authorizer: deps.Authorizer,
		actors:     deps.Actors,
		files:      deps.Files,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket opens a ticket in its kind's initial status and records
// the creation event. The creation event is the only one written with a
// nil from-status.
func (s *TicketService) CreateTicket(ctx context.Context, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if !input.Kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown ticket kind", map[string]any{"kind": input.Kind})
	}

	ticket := &domain.Ticket{
		Kind:      input.Kind,
		Status:    catalog.InitialStatus(input.Kind),
		AccountID: input.AccountID,
		VehicleID: input.VehicleID,
		PolicyID:  input.PolicyID,
		SLADueAt:  input.SLADueAt,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	event := &domain.StatusEvent{
		TicketID:  ticket.ID,
		ToStatus:  ticket.Status,
		ActorID:   actorID,
		ActorName: s.displayName(ctx, actorID),
	}
	if err := s.history.Append(ctx, event); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketCreatedPayload{
			Kind:      ticket.Kind,
			Status:    ticket.Status,
			AccountID: ticket.AccountID,
			VehicleID: ticket.VehicleID,
			PolicyID:  ticket.PolicyID,
		},
	})
	return ticket, nil
}

// Transition validates and executes one status change, recording it as
// an immutable event. Validation and authorization failures abort with
// no partial effects; attachment store failures are skipped per file;
// the event append precedes the ticket update, which is the final
// commit point. A crash between the two leaves an event whose to-status
// the ticket does not yet reflect, detectable by reconciliation.
func (s *TicketService) Transition(ctx context.Context, actorID, ticketID string, input TransitionInput) (*TransitionResult, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if _, err := catalog.Index(ticket.Kind, input.NextStatus); err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.CanTransition(ctx, actorID, ticket)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewForbidden("actor may not transition this ticket")
	}

	stored, skipped := s.storeAttachments(ctx, ticketID, input.Attachments)

	from := ticket.Status
	event := &domain.StatusEvent{
		TicketID:    ticket.ID,
		FromStatus:  &from,
		ToStatus:    input.NextStatus,
		Note:        input.Note,
		Attachments: stored,
		ActorID:     actorID,
		ActorName:   s.displayName(ctx, actorID),
	}
	if err := s.history.Append(ctx, event); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, input.NextStatus, now); err != nil {
		return nil, err
	}
	ticket.Status = input.NextStatus
	ticket.UpdatedAt = now

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			Kind:       ticket.Kind,
			FromStatus: event.FromStatus,
			ToStatus:   event.ToStatus,
			Note:       event.Note,
			EventID:    event.ID,
		},
	})

	return &TransitionResult{Kind: ticket.Kind, Event: *event, SkippedAttachments: skipped}, nil
}

// GetTicketDetail loads a ticket with its full history and progress.
func (s *TicketService) GetTicketDetail(ctx context.Context, actor *domain.User, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("actor may not view this ticket")
	}

	history, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	progress, err := stepper.ComputeProgress(ticket.Kind, ticket.Status)
	if err != nil {
		return nil, err
	}

	return &TicketDetail{
		Ticket:   ticket,
		History:  history,
		Progress: progress,
		SLA:      domain.SLAInfoAt(ticket, catalog.IsTerminal(ticket.Kind, ticket.Status), time.Now()),
	}, nil
}

// ListTickets returns tickets visible to the actor with the compact
// stage projection attached per row.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter repository.TicketFilter) ([]domain.Ticket, []stepper.Mini, error) {
	applyActorScope(&filter, actor)
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	minis := make([]stepper.Mini, len(tickets))
	for i := range tickets {
		mini, err := stepper.ComputeMini(tickets[i].Kind, tickets[i].Status)
		if err != nil {
			// catalog drift on a stored row; keep the list usable
			s.logger.Warn("ticket status not in catalog",
				zap.String("ticket_id", tickets[i].ID),
				zap.String("status", string(tickets[i].Status)),
				zap.Error(err))
			continue
		}
		minis[i] = mini
	}
	return tickets, minis, nil
}

func (s *TicketService) storeAttachments(ctx context.Context, ticketID string, uploads []storage.Upload) ([]domain.StoredAttachment, int) {
	if len(uploads) == 0 || s.files == nil {
		return nil, 0
	}
	stored := make([]domain.StoredAttachment, 0, len(uploads))
	skipped := 0
	for _, upload := range uploads {
		ref, err := s.files.Store(ctx, ticketID, upload)
		if err != nil {
			skipped++
			s.logger.Warn("attachment store failed; skipping file",
				zap.String("ticket_id", ticketID),
				zap.String("file_name", upload.FileName),
				zap.Error(err))
			continue
		}
		stored = append(stored, ref)
	}
	return stored, skipped
}

func (s *TicketService) displayName(ctx context.Context, actorID string) string {
	if s.actors == nil {
		return ""
	}
	name, err := s.actors.GetDisplayName(ctx, actorID)
	if err != nil {
		s.logger.Warn("actor display name lookup failed", zap.String("actor_id", actorID), zap.Error(err))
		return ""
	}
	return name
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func canViewTicket(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleBroker:
		return true
	case domain.RoleFleetManager:
		return actor.AccountID != "" && actor.AccountID == ticket.AccountID
	default:
		return false
	}
}

func applyActorScope(filter *repository.TicketFilter, actor *domain.User) {
	if actor == nil || actor.Role == domain.RoleAdmin || actor.Role == domain.RoleBroker {
		return
	}
	accountID := actor.AccountID
	filter.AccountID = &accountID
}
