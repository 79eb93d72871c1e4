package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a system user.
// PasswordHash never leaves this package boundary in responses; use Public.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the outward projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity is what downstream handlers get once a request is authenticated.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// NormalizeEmail returns the lookup and uniqueness key for an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
