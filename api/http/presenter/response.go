package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/enrich/pkg/auth"
	"github.com/artem13815/enrich/pkg/contact"
	"github.com/artem13815/enrich/pkg/validation"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, err, message string) error {
	return JSON(c, status, ErrorResponse{Error: err, Message: message})
}

// FromError translates a use case error into its HTTP response. Errors without
// a client-facing kind are logged and answered with a generic 500.
func FromError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var (
		verr  *validation.Error
		inval *contact.InvalidEmailsError
		uerr  *auth.UnauthorizedError
	)
	switch {
	case errors.As(err, &verr):
		return JSON(c, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Message: verr.Error(),
			Details: verr.Fields,
		})
	case errors.As(err, &inval):
		return JSON(c, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid email addresses",
			Message: "The following emails are invalid",
			Details: inval.Emails,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
	case errors.As(err, &uerr):
		return Error(c, http.StatusUnauthorized, string(uerr.Reason), uerr.Reason.Message())
	case errors.Is(err, auth.ErrAlreadyExists):
		return Error(c, http.StatusConflict, "User already exists", "An account with this email already exists")
	case errors.Is(err, contact.ErrNotFound):
		return Error(c, http.StatusNotFound, "Contact not found", "No contact information found for this email")
	}

	log.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"retryable", errors.Is(err, auth.ErrStoreUnavailable),
		"err", err,
	)
	return Error(c, http.StatusInternalServerError, "Internal server error", "Please try again later")
}
