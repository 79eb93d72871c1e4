package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubReadiness struct{ err error }

func (s stubReadiness) Ready(context.Context) error { return s.err }
func (s stubReadiness) Uptime() time.Duration     { return 42 * time.Second }

func newHealthApp(err error) *fiber.App {
	h := NewHealthHandler(stubReadiness{err: err}, "test")
	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
	return app
}

func TestHealth(t *testing.T) {
	status, body := do(t, newHealthApp(nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, float64(42), body["uptime"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestReady(t *testing.T) {
	status, body := do(t, newHealthApp(nil), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = do(t, newHealthApp(errors.New("postgres: timeout")), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, "postgres: timeout", body["details"])
}
