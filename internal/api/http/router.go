package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/offer-service/internal/api/http/handlers"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Profile        *handlers.ProfileHandler
	Offers         *handlers.OffersHandler
	Leads          *handlers.LeadsHandler
	Webhook        *handlers.WebhookHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	WebhookRate    int
	WebhookBurst   int
}

// RegisterRoutes wires HTTP routes. Authorization is decided by the evaluator in the
// services, and again in handlers that decode a body; routes only require a verified identity.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	app.Post("/webhook", RateLimit(cfg.WebhookRate, cfg.WebhookBurst), cfg.Webhook.Receive)

	me := app.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("", cfg.Profile.GetProfile)
	me.Patch("", cfg.Profile.UpdateProfile)
	me.Get("/offers", cfg.Offers.ListOwn)
	me.Get("/offers/:id", cfg.Offers.GetOwn)
	me.Post("/offers/:id/accept", cfg.Offers.AcceptOwn)
	me.Post("/offers/:id/decline", cfg.Offers.DeclineOwn)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/users", cfg.Profile.ListUsers)
	admin.Put("/users/:id/role", cfg.Profile.SetRole)
	admin.Get("/offers", cfg.Offers.ListAll)
	admin.Post("/offers", cfg.Offers.Create)
	admin.Post("/offers/:id/accept", cfg.Offers.AdminAccept)
	admin.Get("/leads", cfg.Leads.List)
	admin.Post("/leads", cfg.Leads.Create)
	admin.Patch("/leads/:id", cfg.Leads.Update)
	admin.Delete("/leads/:id", cfg.Leads.Delete)
}
