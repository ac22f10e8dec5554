package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/edu-platform/internal/api/http/handlers"
	"github.com/spec-kit/edu-platform/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Root           *handlers.RootHandler
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Schools        *handlers.SchoolsHandler
	Roles          *handlers.RolesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Root.Welcome)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/token", cfg.Auth.Token)

	users := app.Group("/users")
	users.Post("/", cfg.Users.Create)

	me := users.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Users.Me)
	me.Put("/", cfg.Users.UpdateMe)
	me.Get("/children", cfg.Users.Children)
	me.Get("/parents", cfg.Users.Parents)
	me.Post("/children/:childID", cfg.Users.LinkChild)
	me.Post("/profiles", cfg.Users.CreateProfile)
	me.Post("/password", cfg.Auth.ChangePassword)

	schools := app.Group("/schools")
	schools.Post("/", cfg.Schools.Create)
	schools.Get("/", cfg.Schools.List)
	schools.Get("/:id", cfg.Schools.Get)
	schools.Post("/:id/branches/", cfg.Schools.CreateBranch)

	roles := app.Group("/roles", cfg.AuthMiddleware.Handle)
	roles.Post("/", cfg.Roles.Create)
	roles.Get("/", cfg.Roles.List)
	roles.Post("/assign", cfg.Roles.Assign)
	roles.Get("/:id", cfg.Roles.Get)

	app.Get("/permissions/", cfg.AuthMiddleware.Handle, cfg.Roles.ListPermissions)
}
