package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/enrich/pkg/auth"
)

var userCols = []string{"id", "email", "password_hash", "created_at", "updated_at"}

func createTestUserRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return NewUserRepository(mockDB, time.Second), mockDB
}

func testUser() auth.User {
	now := time.Now().UTC().Truncate(time.Second)
	return auth.User{
		ID:           uuid.New(),
		Email:        "foo@bar.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRow(u auth.User) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, auth.User)
		wantErr error
	}{
		{
			name: "successful insert",
			setupDB: func(mockDB pgxmock.PgxPoolIface, u auth.User) {
				mockDB.ExpectQuery("INSERT INTO users").
					WithArgs(u.ID, "foo@bar.com", u.PasswordHash, u.CreatedAt, u.UpdatedAt).
					WillReturnRows(userRow(u))
			},
		},
		{
			name: "duplicate email",
			setupDB: func(mockDB pgxmock.PgxPoolIface, u auth.User) {
				mockDB.ExpectQuery("INSERT INTO users").
					WithArgs(u.ID, "foo@bar.com", u.PasswordHash, u.CreatedAt, u.UpdatedAt).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: auth.ErrAlreadyExists,
		},
		{
			name: "acquire timeout",
			setupDB: func(mockDB pgxmock.PgxPoolIface, u auth.User) {
				mockDB.ExpectQuery("INSERT INTO users").
					WithArgs(u.ID, "foo@bar.com", u.PasswordHash, u.CreatedAt, u.UpdatedAt).
					WillReturnError(context.DeadlineExceeded)
			},
			wantErr: auth.ErrStoreUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestUserRepository(t)
			u := testUser()
			tt.setupDB(mockDB, u)

			in := u
			in.Email = "  Foo@Bar.com "
			created, err := repo.Create(context.Background(), in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, u, created)
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)
	u := testUser()

	mockDB.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("foo@bar.com").
		WillReturnRows(userRow(u))
	mockDB.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@bar.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "FOO@bar.com ")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = repo.GetByEmail(context.Background(), "ghost@bar.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)
	u := testUser()

	mockDB.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))
	mockDB.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnError(errors.New("conn reset"))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = repo.GetByID(context.Background(), u.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrNotFound)
	assert.NotErrorIs(t, err, auth.ErrStoreUnavailable)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)
	u := testUser()
	updated := u
	updated.PasswordHash = "$2a$10$newhash"
	updated.UpdatedAt = u.UpdatedAt.Add(time.Minute)

	mockDB.ExpectQuery("UPDATE users SET password_hash").
		WithArgs(updated.PasswordHash, u.ID).
		WillReturnRows(userRow(updated))
	mockDB.ExpectQuery("UPDATE users SET password_hash").
		WithArgs("x", u.ID).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.UpdatePasswordHash(context.Background(), u.ID, updated.PasswordHash)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = repo.UpdatePasswordHash(context.Background(), u.ID, "x")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}
