package jwt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/enrich/pkg/auth"
)

const localsIdentity = "identity"

// Authenticator resolves a bearer token to a still-existing user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// NewAuthMiddleware returns a Fiber middleware that requires a valid bearer token.
// On success the auth.Identity is stored in c.Locals and readable via IdentityFrom.
func NewAuthMiddleware(authn Authenticator, log *slog.Logger) fiber.Handler {
	log = log.With("component", "auth_middleware")
	return func(c *fiber.Ctx) error {
		id, err := authn.Authenticate(c.UserContext(), BearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			var ue *auth.UnauthorizedError
			if errors.As(err, &ue) {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
					"error":   string(ue.Reason),
					"message": ue.Reason.Message(),
				})
			}
			log.ErrorContext(c.UserContext(), "authentication error", "path", c.Path(), "err", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error":   "authentication error",
				"message": "Unable to verify token",
			})
		}
		c.Locals(localsIdentity, id)
		return c.Next()
	}
}

// NewOptionalAuthMiddleware attaches an identity when the request carries a usable
// token and otherwise proceeds anonymously. It never fails the request.
func NewOptionalAuthMiddleware(authn Authenticator, log *slog.Logger) fiber.Handler {
	log = log.With("component", "auth_middleware")
	return func(c *fiber.Ctx) error {
		token := BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Next()
		}
		id, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			log.DebugContext(c.UserContext(), "optional auth failed", "path", c.Path(), "err", err)
			return c.Next()
		}
		c.Locals(localsIdentity, id)
		return c.Next()
	}
}

// IdentityFrom returns the identity attached by one of the auth middlewares.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(localsIdentity).(auth.Identity)
	return id, ok
}

// BearerToken extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare "<token>" are accepted.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || strings.EqualFold(header, "Bearer") {
		return ""
	}
	if scheme, rest, ok := strings.Cut(header, " "); ok {
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		// Fallback: treat entire header as token (for non-standard clients)
		return header
	}
	return header
}
