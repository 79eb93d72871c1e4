package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PasswordHasher is a salted one-way hash. Verify reports a mismatch as (false, nil)
// and a missing or unreadable hash as an error wrapping ErrCorruptHash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// CredentialStore owns user records: lookups are by normalized email or id, and
// plaintext passwords are hashed before they reach the repository.
type CredentialStore struct {
	repo   UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

func NewCredentialStore(repo UserRepository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher, now: time.Now}
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create hashes the password and persists the user in a single insert.
// A taken normalized email yields ErrAlreadyExists.
func (s *CredentialStore) Create(ctx context.Context, email, password string) (User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *CredentialStore) UpdatePassword(ctx context.Context, user User, password string) (User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, user.ID, hash)
}

func (s *CredentialStore) CheckPassword(user User, password string) (bool, error) {
	return s.hasher.Verify(password, user.PasswordHash)
}
