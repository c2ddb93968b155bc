package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/awards-service/internal/api/http/handlers"
	"github.com/spec-kit/awards-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Checkout       *handlers.CheckoutHandler
	PaymentWebhook *handlers.PaymentWebhookHandler
	IssueWebhook   *handlers.IssueWebhookHandler
	Tracker        *handlers.TrackerHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Webhook endpoints authenticate by
// signature, not bearer token; tracker and notification endpoints require
// the admin role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	app.Post("/checkout-session", cfg.Checkout.CreateSession)
	app.Post("/payment-webhook", cfg.PaymentWebhook.Handle)
	app.Post("/issue-webhook", cfg.IssueWebhook.Handle)

	admin := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/issue-repos", cfg.Tracker.ListRepos)
	admin.Post("/issue-create", cfg.Tracker.CreateIssue)
	admin.Get("/issue-activity", cfg.Tracker.IssueActivity)
	admin.Post("/issue-register-webhook", cfg.Tracker.RegisterWebhook)
	admin.Post("/notifications/broadcast", cfg.Notifications.Broadcast)
	admin.Get("/notifications/stats", cfg.Notifications.Stats)
}
