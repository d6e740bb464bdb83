package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Directory *handlers.DirectoryHandler
	View      *handlers.ViewHandler
	Images    *handlers.ImageHandler
	Operator  *auth.OperatorMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Get("/images", cfg.Images.Get)

	directory := api.Group("/directory")
	directory.Get("/status", cfg.Directory.Status)
	directory.Post("/reload", cfg.Operator.Handle, cfg.Directory.Reload)
	directory.Get("/records", cfg.Directory.ListRecords)
	directory.Get("/records/:id", cfg.Directory.GetRecord)
	directory.Get("/departments", cfg.Directory.ListDepartments)

	view := directory.Group("/view")
	view.Get("", cfg.View.Get)
	view.Put("/search", cfg.View.SetSearch)
	view.Post("/sort", cfg.View.SetSort)
	view.Put("/department", cfg.View.SetDepartment)
	view.Post("/reset", cfg.View.Reset)
	view.Put("/selection", cfg.View.Select)
	view.Delete("/selection", cfg.View.ClearSelection)
}
