package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Roster         *handlers.RosterHandler
	Export         *handlers.ExportHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Get("/roster", cfg.Roster.Schedule)
	api.Get("/roster/export.xlsx", cfg.Export.RosterXLSX)

	api.Get("/staff", cfg.Staff.ListStaff)
	api.Get("/staff/export.csv", cfg.Export.StaffCSV)
	api.Get("/staff/:id", cfg.Staff.GetStaff)
	api.Get("/staff/:id/calendar.ics", cfg.Export.StaffICS)

	admin := api.Group("", auth.RequireAdmin())
	admin.Post("/staff", cfg.Staff.CreateStaff)
	admin.Post("/staff/import", cfg.Export.ImportStaff)
	admin.Put("/staff/order", cfg.Staff.ReorderStaff)
	admin.Put("/staff/:id", cfg.Staff.UpdateStaff)
	admin.Delete("/staff/:id", cfg.Staff.DeleteStaff)
	admin.Put("/staff/:id/overrides/:date", cfg.Staff.UpsertOverride)
	admin.Delete("/staff/:id/overrides/:date", cfg.Staff.ClearOverride)
	admin.Post("/staff/:id/overrides/:date/cycle", cfg.Staff.CycleShift)
}
