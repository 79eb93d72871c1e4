package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/enrich/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
// authMW guards every route that needs a bearer token.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, contacts *handlers.ContactHandler, authMW fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	api.Post("/login", auth.Login)
	api.Post("/register", auth.Register)
	api.Post("/verify", auth.Verify)
	api.Post("/refresh", auth.Refresh)

	a := api.Group("/auth", authMW)
	a.Get("/validate", auth.Validate)
	a.Post("/password", auth.ChangePassword)

	cg := api.Group("/contacts", authMW)
	cg.Post("/enrich", contacts.EnrichBody)
	cg.Get("/enrich/:email", contacts.Enrich)
	cg.Post("/enrich/bulk", contacts.BulkEnrich)
	cg.Get("/search", contacts.Search)
	cg.Get("/department/:department", contacts.ByDepartment)
	cg.Get("/stats", contacts.Stats)
	cg.Get("/", contacts.List)
	cg.Put("/:email", contacts.Upsert)
	cg.Patch("/:email", contacts.Update)

	app.Use(NotFound)
}

// NotFound answers any request no route matched.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}
