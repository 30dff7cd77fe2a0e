package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/workforce-tasks/internal/api/http/handlers"
	"github.com/spec-kit/workforce-tasks/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TasksHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tasks := api.Group("/tasks")
	tasks.Get("/", auth.RequireEmployer(), cfg.Tasks.ListOwned)
	tasks.Post("/", auth.RequireEmployer(), cfg.Tasks.Create)
	tasks.Get("/assigned", auth.RequireEmployee(), cfg.Tasks.ListAssigned)
	tasks.Put("/:id", auth.RequireEmployer(), cfg.Tasks.Edit)
	tasks.Delete("/:id", auth.RequireEmployer(), cfg.Tasks.Delete)
	tasks.Patch("/:id/status", auth.RequireEmployee(), cfg.Tasks.UpdateStatus)

	employees := api.Group("/employees", auth.RequireEmployer())
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Patch("/:id", cfg.Employees.Edit)
	employees.Delete("/:id", cfg.Employees.Delete)
}
