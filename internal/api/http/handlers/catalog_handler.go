package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rcorp/claims-service/internal/api/dto"
	"github.com/rcorp/claims-service/internal/catalog"
	"github.com/rcorp/claims-service/internal/domain"
	apperrors "github.com/rcorp/claims-service/pkg/util/errorutil"
)

// CatalogHandler serves the status catalogs for status pickers.
type CatalogHandler struct{}

// NewCatalogHandler returns a new handler instance.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetSteps GET /catalog/:kind.
func (h *CatalogHandler) GetSteps(c *fiber.Ctx) error {
	kind := domain.TicketKind(c.Params("kind"))
	if !kind.IsValid() {
		return apperrors.NewValidationError("kind must be claim or assistance", map[string]any{"kind": kind})
	}

	steps := catalog.Steps(kind)
	items := make([]dto.CatalogStepResponse, 0, len(steps))
	for _, step := range steps {
		items = append(items, dto.CatalogStepResponse{
			Code:  step.Code,
			Label: step.Label,
			Stage: step.Stage,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
