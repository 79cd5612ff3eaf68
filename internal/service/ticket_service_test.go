package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
	"github.com/rcorp/claims-service/internal/events"
	"github.com/rcorp/claims-service/internal/repository"
	"github.com/rcorp/claims-service/internal/storage"
	apperrors "github.com/rcorp/claims-service/pkg/util/errorutil"
)

type fakeTicketRepo struct {
	ticket      *domain.Ticket
	created     []*domain.Ticket
	updateCalls int
	lastStatus  domain.Status
	lastFilter  repository.TicketFilter
	listResult  []domain.Ticket
	callLog     *[]string
	updateErr   error
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = "t-1"
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.created = append(f.created, ticket)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if f.ticket == nil || f.ticket.ID != id {
		return nil, errors.New("not found")
	}
	dup := *f.ticket
	return &dup, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.Status, updatedAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.lastStatus = status
	if f.callLog != nil {
		*f.callLog = append(*f.callLog, "update_status")
	}
	if f.ticket != nil && f.ticket.ID == id {
		f.ticket.Status = status
		f.ticket.UpdatedAt = updatedAt
	}
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.lastFilter = filter
	return f.listResult, nil
}

type fakeEventRepo struct {
	appended []*domain.StatusEvent
	listed   []domain.StatusEvent
	callLog  *[]string
	err      error
}

func (f *fakeEventRepo) Append(_ context.Context, event *domain.StatusEvent) error {
	if f.err != nil {
		return f.err
	}
	event.ID = "e-1"
	event.CreatedAt = time.Now()
	saved := *event
	f.appended = append(f.appended, &saved)
	if f.callLog != nil {
		*f.callLog = append(*f.callLog, "append_event")
	}
	return nil
}

func (f *fakeEventRepo) ListByTicket(_ context.Context, _ string) ([]domain.StatusEvent, error) {
	return f.listed, nil
}

type fakeAuthorizer struct {
	allow bool
	err   error
	calls int
}

func (f *fakeAuthorizer) CanTransition(_ context.Context, _ string, _ *domain.Ticket) (bool, error) {
	f.calls++
	return f.allow, f.err
}

type fakeDirectory struct {
	name string
	err  error
}

func (f *fakeDirectory) GetDisplayName(_ context.Context, _ string) (string, error) {
	return f.name, f.err
}

type fakeFileStore struct {
	failNames map[string]bool
	calls     int
}

func (f *fakeFileStore) Store(_ context.Context, ticketID string, upload storage.Upload) (domain.StoredAttachment, error) {
	f.calls++
	if f.failNames[upload.FileName] {
		return domain.StoredAttachment{}, errors.New("storage unavailable")
	}
	return domain.StoredAttachment{
		Name:      upload.FileName,
		URL:       "https://files.example/" + ticketID + "/" + upload.FileName,
		SizeBytes: int64(len(upload.Content)),
	}, nil
}

type fakeDispatcher struct {
	published []events.Event
}

func (f *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

type fixture struct {
	tickets    *fakeTicketRepo
	history    *fakeEventRepo
	authorizer *fakeAuthorizer
	files      *fakeFileStore
	dispatcher *fakeDispatcher
	service    *TicketService
}

func newFixture(ticket *domain.Ticket) *fixture {
	f := &fixture{
		tickets:    &fakeTicketRepo{ticket: ticket},
		history:    &fakeEventRepo{},
		authorizer: &fakeAuthorizer{allow: true},
		files:      &fakeFileStore{},
		dispatcher: &fakeDispatcher{},
	}
	f.service = NewTicketService(TicketDependencies{
		TicketRepo: f.tickets,
		EventRepo:  f.history,
		Authorizer: f.authorizer,
		Actors:     &fakeDirectory{name: "Ana Souza"},
		Files:      f.files,
		Dispatcher: f.dispatcher,
		Logger:     zap.NewNop(),
	})
	return f
}

func claimTicket(status domain.Status) *domain.Ticket {
	return &domain.Ticket{
		ID:        "t-1",
		Kind:      domain.KindClaim,
		Status:    status,
		AccountID: "acct-1",
	}
}

func TestTransitionSuccess(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))

	result, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.ClaimInsurerAnalysis,
		Note:       "docs received, forwarding to insurer",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Event.FromStatus)
	assert.Equal(t, catalog.ClaimOpened, *result.Event.FromStatus)
	assert.Equal(t, catalog.ClaimInsurerAnalysis, result.Event.ToStatus)
	assert.Equal(t, "docs received, forwarding to insurer", result.Event.Note)
	assert.Equal(t, "u-1", result.Event.ActorID)
	assert.Equal(t, "Ana Souza", result.Event.ActorName)
	assert.Zero(t, result.SkippedAttachments)

	assert.Equal(t, catalog.ClaimInsurerAnalysis, fix.tickets.ticket.Status)
	assert.Equal(t, 1, fix.tickets.updateCalls)
	require.Len(t, fix.history.appended, 1)
	assert.Equal(t, result.Event.ToStatus, fix.history.appended[0].ToStatus)

	require.Len(t, fix.dispatcher.published, 1)
	assert.Equal(t, events.EventTicketStatusChanged, fix.dispatcher.published[0].Type)
}

func TestTransitionAssistanceDispatch(t *testing.T) {
	ticket := &domain.Ticket{ID: "t-1", Kind: domain.KindAssistance, Status: catalog.AssistOpened, AccountID: "acct-1"}
	fix := newFixture(ticket)

	result, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.AssistInProgress,
		Note:       "field tech dispatched",
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.AssistOpened, *result.Event.FromStatus)
	assert.Equal(t, catalog.AssistInProgress, result.Event.ToStatus)
	assert.Equal(t, catalog.AssistInProgress, fix.tickets.ticket.Status)
}

func TestTransitionUnknownStatus(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))

	_, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: "status_that_does_not_exist",
	})
	var unknown *catalog.UnknownStatusError
	require.ErrorAs(t, err, &unknown)

	assert.Empty(t, fix.history.appended)
	assert.Zero(t, fix.tickets.updateCalls)
	assert.Zero(t, fix.files.calls)
	assert.Equal(t, catalog.ClaimOpened, fix.tickets.ticket.Status)
}

func TestTransitionForbiddenBeforeAnyMutation(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))
	fix.authorizer.allow = false

	_, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus:  catalog.ClaimInsurerAnalysis,
		Attachments: []storage.Upload{{FileName: "laudo.pdf", Content: []byte("x")}},
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	assert.Empty(t, fix.history.appended)
	assert.Zero(t, fix.tickets.updateCalls)
	assert.Zero(t, fix.files.calls)
}

func TestTransitionPartialAttachmentFailure(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimAwaitingDocument))
	fix.files.failNames = map[string]bool{"boletim.pdf": true}

	result, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.ClaimAtWorkshop,
		Attachments: []storage.Upload{
			{FileName: "laudo.pdf", Content: []byte("laudo")},
			{FileName: "boletim.pdf", Content: []byte("boletim")},
			{FileName: "orcamento.pdf", Content: []byte("orcamento")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedAttachments)
	require.Len(t, result.Event.Attachments, 2)
	assert.Equal(t, "laudo.pdf", result.Event.Attachments[0].Name)
	assert.Equal(t, "orcamento.pdf", result.Event.Attachments[1].Name)
	assert.Equal(t, catalog.ClaimAtWorkshop, fix.tickets.ticket.Status)
}

func TestTransitionAppendsEventBeforeTicketUpdate(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))
	var callLog []string
	fix.tickets.callLog = &callLog
	fix.history.callLog = &callLog

	_, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.ClaimInsurerAnalysis,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"append_event", "update_status"}, callLog)
}

func TestTransitionTicketUpdateFailureKeepsEvent(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))
	fix.tickets.updateErr = errors.New("connection reset")

	_, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.ClaimInsurerAnalysis,
	})
	require.Error(t, err)
	// the appended event outlives the failed commit for reconciliation
	require.Len(t, fix.history.appended, 1)
	assert.Equal(t, catalog.ClaimInsurerAnalysis, fix.history.appended[0].ToStatus)
	assert.Equal(t, catalog.ClaimOpened, fix.tickets.ticket.Status)
	assert.Empty(t, fix.dispatcher.published)
}

func TestTransitionReopensTerminalTicket(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimCancelled))

	result, err := fix.service.Transition(context.Background(), "u-1", "t-1", TransitionInput{
		NextStatus: catalog.ClaimInsurerAnalysis,
		Note:       "closure issued by mistake",
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.ClaimCancelled, *result.Event.FromStatus)
	assert.Equal(t, catalog.ClaimInsurerAnalysis, fix.tickets.ticket.Status)
}

func TestCreateTicketRecordsCreationEvent(t *testing.T) {
	fix := newFixture(nil)

	ticket, err := fix.service.CreateTicket(context.Background(), "u-1", TicketCreateInput{
		Kind:      domain.KindClaim,
		AccountID: "acct-1",
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.ClaimOpened, ticket.Status)

	require.Len(t, fix.history.appended, 1)
	event := fix.history.appended[0]
	assert.Nil(t, event.FromStatus)
	assert.Equal(t, catalog.ClaimOpened, event.ToStatus)
	assert.Equal(t, "u-1", event.ActorID)

	require.Len(t, fix.dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, fix.dispatcher.published[0].Type)
}

func TestCreateTicketUnknownKind(t *testing.T) {
	fix := newFixture(nil)

	_, err := fix.service.CreateTicket(context.Background(), "u-1", TicketCreateInput{Kind: "bogus"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, fix.tickets.created)
}

func TestListTicketsScopesFleetManager(t *testing.T) {
	fix := newFixture(nil)
	fix.tickets.listResult = []domain.Ticket{
		{ID: "t-1", Kind: domain.KindClaim, Status: catalog.ClaimOpened, AccountID: "acct-9"},
	}
	manager := &domain.User{ID: "u-9", Role: domain.RoleFleetManager, AccountID: "acct-9"}

	tickets, minis, err := fix.service.ListTickets(context.Background(), manager, repository.TicketFilter{})
	require.NoError(t, err)
	require.NotNil(t, fix.tickets.lastFilter.AccountID)
	assert.Equal(t, "acct-9", *fix.tickets.lastFilter.AccountID)
	require.Len(t, tickets, 1)
	require.Len(t, minis, 1)
	assert.Equal(t, domain.StageOpening, minis[0].CurrentStage)
}

func TestListTicketsAdminUnscoped(t *testing.T) {
	fix := newFixture(nil)
	admin := &domain.User{ID: "u-1", Role: domain.RoleAdmin}

	_, _, err := fix.service.ListTickets(context.Background(), admin, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Nil(t, fix.tickets.lastFilter.AccountID)
}

func TestGetTicketDetail(t *testing.T) {
	from := catalog.ClaimOpened
	fix := newFixture(claimTicket(catalog.ClaimInsurerAnalysis))
	fix.history.listed = []domain.StatusEvent{
		{ID: "e-0", TicketID: "t-1", ToStatus: catalog.ClaimOpened},
		{ID: "e-1", TicketID: "t-1", FromStatus: &from, ToStatus: catalog.ClaimInsurerAnalysis},
	}
	broker := &domain.User{ID: "u-1", Role: domain.RoleBroker}

	detail, err := fix.service.GetTicketDetail(context.Background(), broker, "t-1")
	require.NoError(t, err)
	assert.Len(t, detail.History, 2)
	assert.Equal(t, 1, detail.Progress.CurrentIndex)
}

func TestGetTicketDetailForbiddenForOtherAccount(t *testing.T) {
	fix := newFixture(claimTicket(catalog.ClaimOpened))
	stranger := &domain.User{ID: "u-2", Role: domain.RoleFleetManager, AccountID: "acct-other"}

	_, err := fix.service.GetTicketDetail(context.Background(), stranger, "t-1")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
