package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/enrich/api/http/presenter"
	"github.com/artem13815/enrich/pkg/auth"
	"github.com/artem13815/enrich/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
	log     *slog.Logger
}

func NewAuthHandler(useCase auth.AuthUseCase, log *slog.Logger) *AuthHandler {
	return &AuthHandler{useCase: useCase, log: log.With("component", "auth_handler")}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse is returned by login, register and refresh.
type AuthResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	User      auth.PublicUser `json:"user"`
	ExpiresIn int64           `json:"expires_in"` // milliseconds
}

type VerifyResponse struct {
	Valid     bool            `json:"valid"`
	User      auth.PublicUser `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func authResponse(message string, res auth.AuthResult) AuthResponse {
	return AuthResponse{
		Message:   message,
		Token:     res.Token.Value,
		User:      res.User.Public(),
		ExpiresIn: res.Token.TTL.Milliseconds(),
	}
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "login payload"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, authResponse("Login successful", result))
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "registration payload"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	result, err := h.useCase.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusCreated, authResponse("User created successfully", result))
}

// Verify checks a token without requiring the Authorization header.
// @Summary Verify token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body tokenRequest true "token"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} map[string]any
// @Router  /verify [post]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token, ok := parseToken(c)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "Token is required", "")
	}
	res, err := h.useCase.Verify(c.UserContext(), token)
	if err != nil {
		var ue *auth.UnauthorizedError
		if errors.As(err, &ue) {
			return presenter.JSON(c, http.StatusUnauthorized, fiber.Map{
				"valid": false,
				"error": string(ue.Reason),
			})
		}
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, VerifyResponse{
		Valid:     true,
		User:      res.User.Public(),
		ExpiresAt: res.ExpiresAt.UTC(),
	})
}

// Refresh exchanges a valid or recently expired token for a new one.
// @Summary Refresh token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body tokenRequest true "token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, ok := parseToken(c)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "Token is required", "")
	}
	result, err := h.useCase.Refresh(c.UserContext(), token)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, authResponse("Token refreshed successfully", result))
}

// Validate reports that the bearer token passed the auth middleware.
// @Summary  Validate bearer token
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]bool
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	if _, ok := jwt.IdentityFrom(c); !ok {
		return presenter.Error(c, http.StatusUnauthorized, string(auth.ReasonTokenRequired), auth.ReasonTokenRequired.Message())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"valid": true})
}

// ChangePassword replaces the caller's password after checking the current one.
// @Summary  Change password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body passwordRequest true "passwords"
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /auth/password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, ok := jwt.IdentityFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, string(auth.ReasonTokenRequired), auth.ReasonTokenRequired.Message())
	}
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	user, err := h.useCase.ChangePassword(c.UserContext(), id.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "Password updated successfully",
		"user":    user.Public(),
	})
}

// parseToken reads {"token": "..."} and reports whether a non-blank token was sent.
func parseToken(c *fiber.Ctx) (string, bool) {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return "", false
	}
	token := strings.TrimSpace(req.Token)
	return token, token != ""
}
