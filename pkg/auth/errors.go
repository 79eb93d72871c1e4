package auth

import "errors"

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
	ErrConfiguration      = errors.New("configuration error")
	// ErrCorruptHash means the stored hash is missing or unreadable. It is a data
	// integrity problem, not a wrong password.
	ErrCorruptHash = errors.New("stored password hash is malformed")
)

// ErrUnauthorized matches every *UnauthorizedError via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// Reason is the user-facing sub-reason of an authorization failure.
type Reason string

const (
	ReasonTokenRequired        Reason = "access token required"
	ReasonTokenExpired         Reason = "token expired"
	ReasonTokenInvalid         Reason = "invalid token"
	ReasonUnknownSubject       Reason = "user not found"
	ReasonRefreshWindowElapsed Reason = "refresh window elapsed"
)

var reasonMessages = map[Reason]string{
	ReasonTokenRequired:        "Please provide a valid authentication token",
	ReasonTokenExpired:         "Please log in again to continue",
	ReasonTokenInvalid:         "The provided token is malformed or invalid",
	ReasonUnknownSubject:       "User not found",
	ReasonRefreshWindowElapsed: "Token is too old to refresh, please log in again",
}

// Message is the client-facing hint shown next to the reason.
func (r Reason) Message() string { return reasonMessages[r] }

type UnauthorizedError struct {
	Reason Reason
}

func (e *UnauthorizedError) Error() string { return "unauthorized: " + string(e.Reason) }

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

var (
	ErrTokenRequired        = &UnauthorizedError{Reason: ReasonTokenRequired}
	ErrTokenExpired         = &UnauthorizedError{Reason: ReasonTokenExpired}
	ErrTokenInvalid         = &UnauthorizedError{Reason: ReasonTokenInvalid}
	ErrUnknownSubject       = &UnauthorizedError{Reason: ReasonUnknownSubject}
	ErrRefreshWindowElapsed = &UnauthorizedError{Reason: ReasonRefreshWindowElapsed}
)
