package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository abstracts persistence concerns from the domain layer.
// Implementations receive already normalized emails and already hashed passwords.
type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) (User, error)
}
