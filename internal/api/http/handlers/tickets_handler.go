package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rcorp/claims-service/internal/api/dto"
	"github.com/rcorp/claims-service/internal/auth"
	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
	"github.com/rcorp/claims-service/internal/repository"
	"github.com/rcorp/claims-service/internal/service"
	"github.com/rcorp/claims-service/internal/stepper"
	"github.com/rcorp/claims-service/internal/storage"
	apperrors "github.com/rcorp/claims-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Kind.IsValid() {
		return apperrors.NewValidationError("kind must be claim or assistance", nil)
	}

	accountID := req.AccountID
	if principal.User.Role == domain.RoleFleetManager {
		accountID = principal.User.AccountID
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal.User.ID, service.TicketCreateInput{
		Kind:      req.Kind,
		AccountID: accountID,
		VehicleID: req.VehicleID,
		PolicyID:  req.PolicyID,
		SLADueAt:  req.SLADueAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTicketQuery(c)
	tickets, minis, err := h.service.ListTickets(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		summary := ticketSummary(&tickets[i])
		summary.Stepper = miniResponse(minis[i])
		items = append(items, summary)
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.service.GetTicketDetail(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(string(req.NextStatus)) == "" {
		return apperrors.NewValidationError("next_status required", nil)
	}

	uploads := make([]storage.Upload, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.ContentBase64)
		if err != nil {
			return apperrors.NewValidationError("attachment content must be base64", map[string]any{"file_name": att.FileName})
		}
		uploads = append(uploads, storage.Upload{FileName: att.FileName, Content: content})
	}

	result, err := h.service.Transition(c.Context(), principal.User.ID, c.Params("id"), service.TransitionInput{
		NextStatus:  req.NextStatus,
		Note:        req.Note,
		Attachments: uploads,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TransitionResponse{
		Event:              statusEventResponse(result.Kind, result.Event),
		SkippedAttachments: result.SkippedAttachments,
	}})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind := domain.TicketKind(kindStr)
		if kind.IsValid() {
			filter.Kind = &kind
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.Status(strings.TrimSpace(part)))
		}
	}
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		filter.VehicleID = &vehicleID
	}
	if policyID := c.Query("policy_id"); policyID != "" {
		filter.PolicyID = &policyID
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	closed := catalog.IsTerminal(ticket.Kind, ticket.Status)
	sla := domain.SLAInfoAt(ticket, closed, time.Now())
	label, _ := catalog.Label(ticket.Kind, ticket.Status)
	return dto.TicketSummary{
		ID:          ticket.ID,
		Kind:        ticket.Kind,
		Status:      ticket.Status,
		StatusLabel: label,
		AccountID:   ticket.AccountID,
		VehicleID:   ticket.VehicleID,
		PolicyID:    ticket.PolicyID,
		SLA:         dto.SLAResponse{DueAt: sla.DueAt, Overdue: sla.Overdue},
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	history := make([]dto.StatusEventResponse, 0, len(detail.History))
	for _, event := range detail.History {
		history = append(history, statusEventResponse(ticket.Kind, event))
	}
	return dto.TicketDetailResponse{
		ID:        ticket.ID,
		Kind:      ticket.Kind,
		Status:    ticket.Status,
		AccountID: ticket.AccountID,
		VehicleID: ticket.VehicleID,
		PolicyID:  ticket.PolicyID,
		SLA:       dto.SLAResponse{DueAt: detail.SLA.DueAt, Overdue: detail.SLA.Overdue},
		Progress:  progressResponse(detail.Progress),
		History:   history,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

func statusEventResponse(kind domain.TicketKind, event domain.StatusEvent) dto.StatusEventResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(event.Attachments))
	for _, att := range event.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			Name:      att.Name,
			URL:       att.URL,
			SizeBytes: att.SizeBytes,
		})
	}
	label, _ := catalog.Label(kind, event.ToStatus)
	return dto.StatusEventResponse{
		ID:          event.ID,
		FromStatus:  event.FromStatus,
		ToStatus:    event.ToStatus,
		ToLabel:     label,
		Note:        event.Note,
		Attachments: attachments,
		ActorID:     event.ActorID,
		ActorName:   event.ActorName,
		CreatedAt:   event.CreatedAt,
	}
}

func progressResponse(progress stepper.Progress) dto.ProgressResponse {
	steps := make([]dto.StepResponse, 0, len(progress.Steps))
	for _, sp := range progress.Steps {
		steps = append(steps, dto.StepResponse{
			Code:  sp.Step.Code,
			Label: sp.Step.Label,
			Stage: sp.Step.Stage,
			State: sp.State,
		})
	}
	return dto.ProgressResponse{Steps: steps, CurrentStageIndex: progress.CurrentStageIndex}
}

func miniResponse(mini stepper.Mini) dto.MiniResponse {
	stages := make([]dto.StageResponse, 0, len(mini.Stages))
	for _, sp := range mini.Stages {
		stages = append(stages, dto.StageResponse{Stage: sp.Stage, State: sp.State})
	}
	return dto.MiniResponse{Stages: stages, CurrentStage: mini.CurrentStage}
}
