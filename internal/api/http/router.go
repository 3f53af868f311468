package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-entry/internal/api/http/handlers"
	"github.com/spec-kit/gym-entry/internal/auth"
	"github.com/spec-kit/gym-entry/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Entry          *handlers.EntryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	api.Post("/entry/token", auth.RequireRole(domain.RoleClient), cfg.Entry.IssueToken)
	api.Post("/entry/scan", auth.RequireStaff(), cfg.Entry.Scan)
	api.Get("/memberships/me", auth.RequireRole(domain.RoleClient), cfg.Entry.MyMembership)

	admin := api.Group("/admin")
	admin.Post("/entry/manual", auth.RequireRole(domain.RoleOwner, domain.RoleCoach), cfg.Entry.ManualEntry)
	admin.Get("/entry-logs", auth.RequireStaff(), cfg.Entry.EntryLogs)
}
