package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStatus is the outcome of verifying a bearer token.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenInvalidSignature
	TokenMalformed
	// TokenUnconfigured means the service has no signing secret and cannot
	// judge any token.
	TokenUnconfigured
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenInvalidSignature:
		return "invalid_signature"
	case TokenUnconfigured:
		return "unconfigured"
	default:
		return "malformed"
	}
}

// Claims are the identity assertions carried by a session token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verification is the result of TokenService.Verify. Claims are populated for
// TokenValid and TokenExpired only; the other statuses are never trusted.
type Verification struct {
	Status TokenStatus
	Claims Claims
}

// Token is a freshly issued signed session token.
type Token struct {
	Value     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// TokenService abstracts token creation and verification (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenService interface {
	Issue(ctx context.Context, user User) (Token, error)
	Verify(ctx context.Context, token string) Verification
}
