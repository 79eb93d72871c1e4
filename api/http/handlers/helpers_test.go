package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/enrich/pkg/auth"
	"github.com/artem13815/enrich/pkg/contact"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, email, password string) (auth.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, password string) (auth.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Verify(ctx context.Context, token string) (auth.VerifyResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.VerifyResult), args.Error(1)
}

func (m *mockAuthUseCase) Refresh(ctx context.Context, token string) (auth.AuthResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *mockAuthUseCase) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (auth.User, error) {
	args := m.Called(ctx, userID, current, next)
	return args.Get(0).(auth.User), args.Error(1)
}

type mockContactUseCase struct {
	mock.Mock
}

func (m *mockContactUseCase) Enrich(ctx context.Context, email string) (contact.Contact, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *mockContactUseCase) BulkEnrich(ctx context.Context, emails []string) ([]contact.BulkResult, error) {
	args := m.Called(ctx, emails)
	res, _ := args.Get(0).([]contact.BulkResult)
	return res, args.Error(1)
}

func (m *mockContactUseCase) Search(ctx context.Context, term string, limit int) ([]contact.Contact, error) {
	args := m.Called(ctx, term, limit)
	res, _ := args.Get(0).([]contact.Contact)
	return res, args.Error(1)
}

func (m *mockContactUseCase) ByDepartment(ctx context.Context, department string, limit int) ([]contact.Contact, error) {
	args := m.Called(ctx, department, limit)
	res, _ := args.Get(0).([]contact.Contact)
	return res, args.Error(1)
}

func (m *mockContactUseCase) List(ctx context.Context, limit, offset int) ([]contact.Contact, error) {
	args := m.Called(ctx, limit, offset)
	res, _ := args.Get(0).([]contact.Contact)
	return res, args.Error(1)
}

func (m *mockContactUseCase) Stats(ctx context.Context) (contact.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(contact.Stats), args.Error(1)
}

func (m *mockContactUseCase) Upsert(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *mockContactUseCase) Update(ctx context.Context, email string, p contact.Patch) (contact.Contact, error) {
	args := m.Called(ctx, email, p)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func testUser() auth.User {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return auth.User{
		ID:           uuid.MustParse("8f14e45f-ceea-4e7a-9d2b-1c8f6b0e6a11"),
		Email:        "foo@bar.com",
		PasswordHash: "$2a$10$secret",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

// do sends a request to app and decodes the JSON response body.
func do(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
