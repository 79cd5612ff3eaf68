package dto

import (
	"time"

	"github.com/rcorp/claims-service/internal/domain"
	"github.com/rcorp/claims-service/internal/stepper"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Kind      domain.TicketKind `json:"kind"`
	AccountID string            `json:"account_id"`
	VehicleID *string           `json:"vehicle_id"`
	PolicyID  *string           `json:"policy_id"`
	SLADueAt  *time.Time        `json:"sla_due_at"`
}

// TransitionRequest payload for POST /tickets/:id/transition.
type TransitionRequest struct {
	NextStatus  domain.Status      `json:"next_status"`
	Note        string             `json:"note"`
	Attachments []AttachmentUpload `json:"attachments"`
}

// AttachmentUpload carries one file as base64 content.
type AttachmentUpload struct {
	FileName      string `json:"file_name"`
	ContentBase64 string `json:"content_base64"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

// StatusEventResponse is one history panel row.
type StatusEventResponse struct {
	ID          string               `json:"id"`
	FromStatus  *domain.Status       `json:"from_status"`
	ToStatus    domain.Status        `json:"to_status"`
	ToLabel     string               `json:"to_label,omitempty"`
	Note        string               `json:"note,omitempty"`
	Attachments []AttachmentResponse `json:"attachments"`
	ActorID     string               `json:"actor_id"`
	ActorName   string               `json:"actor_name"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TransitionResponse reports the recorded event and how many files
// could not be attached. Callers must render a partial-failure notice
// when skipped_attachments is non-zero.
type TransitionResponse struct {
	Event              StatusEventResponse `json:"event"`
	SkippedAttachments int                 `json:"skipped_attachments"`
}

// StepResponse is one stepper entry.
type StepResponse struct {
	Code  domain.Status     `json:"code"`
	Label string            `json:"label"`
	Stage domain.Stage      `json:"stage"`
	State stepper.StepState `json:"state"`
}

// ProgressResponse is the full stepper projection.
type ProgressResponse struct {
	Steps             []StepResponse `json:"steps"`
	CurrentStageIndex int            `json:"current_stage_index"`
}

// StageResponse is one compact stepper entry.
type StageResponse struct {
	Stage domain.Stage      `json:"stage"`
	State stepper.StepState `json:"state"`
}

// MiniResponse is the compact stage projection for list rows.
type MiniResponse struct {
	Stages       []StageResponse `json:"stages"`
	CurrentStage domain.Stage    `json:"current_stage"`
}

// SLAResponse is display-only deadline info.
type SLAResponse struct {
	DueAt   *time.Time `json:"due_at"`
	Overdue bool       `json:"overdue"`
}

// TicketSummary response for list rows.
type TicketSummary struct {
	ID          string            `json:"id"`
	Kind        domain.TicketKind `json:"kind"`
	Status      domain.Status     `json:"status"`
	StatusLabel string            `json:"status_label,omitempty"`
	AccountID   string            `json:"account_id"`
	VehicleID   *string           `json:"vehicle_id"`
	PolicyID    *string           `json:"policy_id"`
	SLA         SLAResponse       `json:"sla"`
	Stepper     MiniResponse      `json:"stepper"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TicketDetailResponse provides the history panel payload.
type TicketDetailResponse struct {
	ID        string                `json:"id"`
	Kind      domain.TicketKind     `json:"kind"`
	Status    domain.Status         `json:"status"`
	AccountID string                `json:"account_id"`
	VehicleID *string               `json:"vehicle_id"`
	PolicyID  *string               `json:"policy_id"`
	SLA       SLAResponse           `json:"sla"`
	Progress  ProgressResponse      `json:"progress"`
	History   []StatusEventResponse `json:"history"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CatalogStepResponse is one catalog entry for status pickers.
type CatalogStepResponse struct {
	Code  domain.Status `json:"code"`
	Label string        `json:"label"`
	Stage domain.Stage  `json:"stage"`
}
