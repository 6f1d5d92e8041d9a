package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/http/handlers"
	"github.com/spec-kit/token-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tokens         *handlers.TokensHandler
	Users          *handlers.UsersHandler
	Protected      *handlers.ProtectedHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/token", cfg.Tokens.Obtain)
	app.Post("/token/refresh", cfg.Tokens.Refresh)

	app.Post("/users/register", cfg.Users.Register)

	app.Get("/protected", cfg.AuthMiddleware.Handle, cfg.Protected.Greet)
}
