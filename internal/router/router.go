package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prepmind-dev/prepmind-api/internal/config"
	"github.com/prepmind-dev/prepmind-api/internal/handler"
	"github.com/prepmind-dev/prepmind-api/internal/middleware"
	"github.com/prepmind-dev/prepmind-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssessmentHandler *handler.AssessmentHandler
	ExecutionHandler  *handler.ExecutionHandler
	ChatHandler       *handler.ChatHandler
	InterviewHandler  *handler.InterviewHandler
	CatalogHandler    *handler.CatalogHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	v1 := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	v1.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api")

	// Stateless AI assessment endpoints
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api)
	}

	// Sandboxed code execution
	if deps.ExecutionHandler != nil {
		deps.ExecutionHandler.Register(api)
	}

	// Preparation assistant, rate limited per user/IP. The limiter lives on
	// its own prefix so the chat budget never counts other /api traffic.
	if deps.ChatHandler != nil {
		chat := app.Group("/api/chat", middleware.RateLimit("chat", cfg.ChatRateLimit, cfg.ChatRateWindow))
		deps.ChatHandler.Register(chat)
	}

	// Catalog for the interview setup screen
	if deps.CatalogHandler != nil {
		catalog := api.Group("/catalog")
		deps.CatalogHandler.Register(catalog)
	}

	// Authenticated session lifecycle
	if deps.InterviewHandler != nil {
		interviews := app.Group("/api/interviews", jwtMiddleware)
		deps.InterviewHandler.Register(interviews)
	}
}
