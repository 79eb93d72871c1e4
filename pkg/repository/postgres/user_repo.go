package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/artem13815/enrich/pkg/auth"
)

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	db      DB
	timeout time.Duration
}

func NewUserRepository(db DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

const userColumns = `id, email, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.ID, auth.NormalizeEmail(user.Email), user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.User{}, auth.ErrAlreadyExists
		}
		return auth.User{}, storeError("insert user", err)
	}
	return created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, auth.NormalizeEmail(email))
	return r.get(row, "select user by email")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.get(row, "select user by id")
}

// UpdatePasswordHash replaces the hash in a single statement.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) (auth.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns, hash, id)
	return r.get(row, "update password")
}

func (r *UserRepository) get(row pgx.Row, op string) (auth.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, storeError(op, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return auth.User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
