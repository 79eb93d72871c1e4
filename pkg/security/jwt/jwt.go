package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artem13815/enrich/pkg/auth"
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 24 * time.Hour

// Generator issues and verifies HS256 session tokens. The secret is fixed at
// construction and never mutated.
type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Generator)

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator fails with auth.ErrConfiguration when the secret is empty.
func NewGenerator(secret, issuer string, ttl time.Duration, opts ...Option) (*Generator, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: jwt secret is not set", auth.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	g := &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Claims carries the subject id and email next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (g *Generator) Issue(ctx context.Context, user auth.User) (auth.Token, error) {
	if len(g.secret) == 0 {
		return auth.Token{}, fmt.Errorf("%w: jwt secret is not set", auth.ErrConfiguration)
	}
	now := g.now().UTC()
	exp := now.Add(g.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    g.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: user.ID.String(),
		Email:  user.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return auth.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return auth.Token{Value: signed, ExpiresAt: exp, TTL: g.ttl}, nil
}

// Verify checks the signature, then the claim shape, then expiry. Claims of an
// expired token are returned only after its signature has been verified.
// A Generator without a secret reports TokenUnconfigured for every token.
func (g *Generator) Verify(ctx context.Context, token string) auth.Verification {
	if len(g.secret) == 0 {
		return auth.Verification{Status: auth.TokenUnconfigured}
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)

	status := auth.TokenValid
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return auth.Verification{Status: auth.TokenInvalidSignature}
	case errors.Is(err, jwt.ErrTokenExpired):
		status = auth.TokenExpired
	default:
		return auth.Verification{Status: auth.TokenMalformed}
	}

	decoded, ok := g.decode(claims)
	if !ok {
		return auth.Verification{Status: auth.TokenMalformed}
	}
	return auth.Verification{Status: status, Claims: decoded}
}

func (g *Generator) decode(c *Claims) (auth.Claims, bool) {
	if g.issuer != "" && c.Issuer != g.issuer {
		return auth.Claims{}, false
	}
	if c.ExpiresAt == nil || c.Email == "" {
		return auth.Claims{}, false
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return auth.Claims{}, false
	}
	out := auth.Claims{UserID: id, Email: c.Email, ExpiresAt: c.ExpiresAt.Time}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, true
}
