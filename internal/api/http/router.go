package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/license-service/internal/api/http/handlers"
	"github.com/spec-kit/license-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Licenses *handlers.LicenseHandler
	Statuses *handlers.StatusHandler
	Metrics  http.Handler
	// AuthMiddleware guards write routes when set.
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	v1 := app.Group("/v1")
	v1.Get("/status", cfg.Statuses.List)

	licenses := v1.Group("/license")
	licenses.Get("", cfg.Licenses.Search)
	licenses.Get("/:key", cfg.Licenses.Get)

	licenses.Post("", guarded(cfg.AuthMiddleware, cfg.Licenses.Create)...)
	licenses.Patch("/:uuid/status/:status_id", guarded(cfg.AuthMiddleware, cfg.Licenses.UpdateStatus)...)
	licenses.Patch("/:key", guarded(cfg.AuthMiddleware, cfg.Licenses.Update)...)
	licenses.Delete("/:uuid", guarded(cfg.AuthMiddleware, cfg.Licenses.Delete)...)
}

func guarded(authMiddleware *auth.AuthMiddleware, handler fiber.Handler) []fiber.Handler {
	if authMiddleware == nil {
		return []fiber.Handler{handler}
	}
	return []fiber.Handler{authMiddleware.Handle, auth.RequireScope(auth.ScopeLicenseWrite), handler}
}
