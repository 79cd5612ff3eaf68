package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rcorp/claims-service/internal/auth"
	"github.com/rcorp/claims-service/internal/service"
	apperrors "github.com/rcorp/claims-service/pkg/util/errorutil"
)

// PresenceHandler exposes the heartbeat tracker.
type PresenceHandler struct {
	presence *service.PresenceService
}

// NewPresenceHandler constructs handler.
func NewPresenceHandler(presence *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// Heartbeat POST /presence/heartbeat.
func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.presence.Heartbeat(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Online GET /presence.
func (h *PresenceHandler) Online(c *fiber.Ctx) error {
	actors, err := h.presence.Online(c.Context())
	if err != nil {
		return err
	}
	if actors == nil {
		actors = []string{}
	}
	return c.JSON(fiber.Map{"data": actors})
}
