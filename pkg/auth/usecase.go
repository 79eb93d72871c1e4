package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRefreshGrace is how long after expiry a token may still be exchanged.
const DefaultRefreshGrace = 7 * 24 * time.Hour

var errUnconfigured = fmt.Errorf("%w: token service has no signing secret", ErrConfiguration)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Verify(ctx context.Context, token string) (VerifyResult, error)
	Refresh(ctx context.Context, token string) (AuthResult, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (User, error)
}

// Validator checks request inputs against their struct tags.
type Validator interface {
	Validate(v any) error
}

type AuthResult struct {
	User  User
	Token Token
}

type VerifyResult struct {
	User      User
	ExpiresAt time.Time
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type passwordInput struct {
	Current string `json:"current_password" validate:"required"`
	Next    string `json:"new_password" validate:"required,password"`
}

type authService struct {
	store    *CredentialStore
	tokens   TokenService
	validate Validator
	log      *slog.Logger
	now      func() time.Time
	grace    time.Duration
}

type Option func(*authService)

// WithClock overrides the time source used for the refresh grace window.
func WithClock(now func() time.Time) Option {
	return func(s *authService) { s.now = now }
}

func WithRefreshGrace(d time.Duration) Option {
	return func(s *authService) { s.grace = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *authService) { s.log = log }
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(store *CredentialStore, tokens TokenService, validate Validator, opts ...Option) AuthUseCase {
	s := &authService{
		store:    store,
		tokens:   tokens,
		validate: validate,
		log:      slog.Default(),
		now:      time.Now,
		grace:    DefaultRefreshGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "auth")
	return s
}

func (s *authService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Validate(registerInput{Email: email, Password: password}); err != nil {
		return AuthResult{}, err
	}

	// Best-effort check; the unique index settles races.
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	user, err := s.store.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return AuthResult{}, ErrAlreadyExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.issue(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Validate(loginInput{Email: email, Password: password}); err != nil {
		return AuthResult{}, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.WarnContext(ctx, "login rejected", "reason", "user not found", "email", email)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.store.CheckPassword(user, password)
	if err != nil {
		s.log.ErrorContext(ctx, "login failed", "reason", "unusable password hash", "user_id", user.ID, "err", err)
		return AuthResult{}, err
	}
	if !ok {
		s.log.WarnContext(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

func (s *authService) Verify(ctx context.Context, token string) (VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return VerifyResult{}, ErrTokenRequired
	}

	v := s.tokens.Verify(ctx, token)
	switch v.Status {
	case TokenValid:
	case TokenExpired:
		return VerifyResult{}, ErrTokenExpired
	case TokenUnconfigured:
		return VerifyResult{}, errUnconfigured
	default:
		s.log.DebugContext(ctx, "token rejected", "status", v.Status.String())
		return VerifyResult{}, ErrTokenInvalid
	}

	user, err := s.resolve(ctx, v.Claims.UserID)
	if err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{User: user, ExpiresAt: v.Claims.ExpiresAt}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (Identity, error) {
	res, err := s.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: res.User.ID, Email: res.User.Email}, nil
}

// Refresh exchanges a token for a fresh one. Expired tokens are accepted while
// now is before expiry plus the grace window; tokens that fail authenticity or
// shape checks are never accepted.
func (s *authService) Refresh(ctx context.Context, token string) (AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthResult{}, ErrTokenRequired
	}

	v := s.tokens.Verify(ctx, token)
	switch v.Status {
	case TokenValid:
	case TokenExpired:
		deadline := v.Claims.ExpiresAt.Add(s.grace)
		if !s.now().Before(deadline) {
			s.log.InfoContext(ctx, "refresh rejected", "reason", "grace window elapsed", "user_id", v.Claims.UserID, "expired_at", v.Claims.ExpiresAt)
			return AuthResult{}, ErrRefreshWindowElapsed
		}
	case TokenUnconfigured:
		return AuthResult{}, errUnconfigured
	default:
		s.log.DebugContext(ctx, "refresh rejected", "status", v.Status.String())
		return AuthResult{}, ErrTokenInvalid
	}

	user, err := s.resolve(ctx, v.Claims.UserID)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (User, error) {
	if err := s.validate.Validate(passwordInput{Current: current, Next: next}); err != nil {
		return User{}, err
	}
	user, err := s.resolve(ctx, userID)
	if err != nil {
		return User{}, err
	}
	ok, err := s.store.CheckPassword(user, current)
	if err != nil {
		s.log.ErrorContext(ctx, "password change failed", "reason", "unusable password hash", "user_id", user.ID, "err", err)
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	updated, err := s.store.UpdatePassword(ctx, user, next)
	if err != nil {
		return User{}, fmt.Errorf("update password: %w", err)
	}
	return updated, nil
}

// resolve re-confirms that a token subject still exists.
func (s *authService) resolve(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnknownSubject
		}
		return User{}, fmt.Errorf("lookup subject: %w", err)
	}
	return user, nil
}

func (s *authService) issue(ctx context.Context, user User) (AuthResult, error) {
	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}
