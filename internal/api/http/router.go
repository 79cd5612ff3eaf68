package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rcorp/claims-service/internal/api/http/handlers"
	"github.com/rcorp/claims-service/internal/auth"
	"github.com/rcorp/claims-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Catalog        *handlers.CatalogHandler
	Presence       *handlers.PresenceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Post("/auth/register", auth.RequireRole(domain.RoleAdmin), cfg.Users.Register)

	protected.Get("/catalog/:kind", cfg.Catalog.GetSteps)

	tickets := protected.Group("/tickets", auth.RequireRole())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/transition",
		auth.RequireRole(domain.RoleAdmin, domain.RoleBroker, domain.RoleFleetManager),
		cfg.Tickets.Transition)

	protected.Post("/presence/heartbeat", cfg.Presence.Heartbeat)
	protected.Get("/presence", cfg.Presence.Online)
}
