package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/enrich/pkg/auth"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "PORT", "APP_ENV", "JWT_TTL_HOURS", "JWT_REFRESH_GRACE_HOURS", "DB_ACQUIRE_TIMEOUT", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/enrich")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshGrace)
	assert.Equal(t, 3*time.Second, cfg.DBAcquireTimeout)
	assert.Equal(t, []string{"http://localhost:8080", "http://frontend:3001"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_TTL_HOURS", "1")
	t.Setenv("JWT_REFRESH_GRACE_HOURS", "48")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "500ms")
	t.Setenv("DB_MAX_CONNS", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshGrace)
	assert.Equal(t, 500*time.Millisecond, cfg.DBAcquireTimeout)
	assert.Equal(t, int32(5), cfg.DBMaxConns)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
database_url: postgres://file/enrich
jwt_secret: from-file
bcrypt_cost: 12
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://file/enrich", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BCRYPT_COST", "ten")

	_, err := Load()
	assert.ErrorIs(t, err, auth.ErrConfiguration)
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := defaults()

	err := cfg.Validate()
	require.ErrorIs(t, err, auth.ErrConfiguration)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.DatabaseURL = "postgres://localhost/enrich"
	err = cfg.Validate()
	require.ErrorIs(t, err, auth.ErrConfiguration)
	assert.NotContains(t, err.Error(), "DATABASE_URL")
}
