package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/enrich/api/http/handlers"
	"github.com/artem13815/enrich/pkg/auth"
	"github.com/artem13815/enrich/pkg/contact"
	"github.com/artem13815/enrich/pkg/health"
	"github.com/artem13815/enrich/pkg/security/jwt"
)

// rejectAll fails every token, so guarded routes must answer 401.
type rejectAll struct{ auth.AuthUseCase }

func (rejectAll) Authenticate(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, auth.ErrTokenInvalid
}

type noContacts struct{ contact.UseCase }

func (noContacts) Stats(context.Context) (contact.Stats, error) { return contact.Stats{}, nil }

func (noContacts) Enrich(context.Context, string) (contact.Contact, error) {
	return contact.Contact{}, contact.ErrNotFound
}

type acceptAll struct{}

func (acceptAll) Authenticate(context.Context, string) (auth.Identity, error) {
	return auth.Identity{ID: uuid.New(), Email: "foo@bar.com"}, nil
}

func newApp(authn jwt.Authenticator) *fiber.App {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := fiber.New()
	Register(app,
		handlers.NewAuthHandler(rejectAll{}, log),
		handlers.NewHealthHandler(health.NewService(), "test"),
		handlers.NewContactHandler(noContacts{}, log),
		jwt.NewAuthMiddleware(authn, log),
	)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRegister_Routes(t *testing.T) {
	app := newApp(rejectAll{})

	status, body := get(t, app, "/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])

	status, _ = get(t, app, "/api/ready")
	assert.Equal(t, http.StatusOK, status)

	for _, path := range []string{"/api/contacts/stats", "/api/auth/validate", "/api/contacts/enrich/a@b.com"} {
		status, body = get(t, app, path)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "invalid token", body["error"], path)
	}

	status, body = get(t, app, "/api/nowhere")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body["error"])
}

func TestRegister_AuthenticatedRoutes(t *testing.T) {
	app := newApp(acceptAll{})

	status, body := get(t, app, "/api/contacts/stats")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["total_contacts"])

	status, body = get(t, app, "/api/auth/validate")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])

	req := httptest.NewRequest(http.MethodPost, "/api/contacts/enrich", strings.NewReader(`{"email":"ghost@corp.com"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var enriched map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&enriched))
	assert.Contains(t, enriched, "contact")
	assert.Nil(t, enriched["contact"])
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(requestid.New(), RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusBadGateway, "upstream") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, buf.String(), `"path":"/ok"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"request_id":"`)

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
