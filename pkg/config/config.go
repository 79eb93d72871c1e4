package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"

	"github.com/artem13815/enrich/pkg/auth"
)

type Config struct {
	Port             string        `yaml:"port"`
	Env              string        `yaml:"env"`
	LogLevel         string        `yaml:"log_level"`
	DatabaseURL      string        `yaml:"database_url"`
	DBMaxConns       int32         `yaml:"db_max_conns"`
	DBAcquireTimeout time.Duration `yaml:"db_acquire_timeout"`
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	JWTTTL           time.Duration `yaml:"jwt_ttl"`
	RefreshGrace     time.Duration `yaml:"refresh_grace"`
	BcryptCost       int           `yaml:"bcrypt_cost"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
}

func defaults() Config {
	return Config{
		Port:             "8080",
		Env:              "development",
		LogLevel:         "info",
		DBMaxConns:       20,
		DBAcquireTimeout: 3 * time.Second,
		JWTIssuer:        "enrich",
		JWTTTL:           24 * time.Hour,
		RefreshGrace:     7 * 24 * time.Hour,
		BcryptCost:       10,
		CORSOrigins:      []string{"http://localhost:8080", "http://frontend:3001"},
		ShutdownTimeout:  10 * time.Second,
	}
}

// Load reads configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables (optionally from a .env file), in that
// order of precedence.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	var err error
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	if cfg.DBMaxConns, err = getEnvInt32("DB_MAX_CONNS", cfg.DBMaxConns); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.DBAcquireTimeout, err = getEnvDuration("DB_ACQUIRE_TIMEOUT", cfg.DBAcquireTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	hours, err := getEnvInt("JWT_TTL_HOURS", int(cfg.JWTTTL/time.Hour))
	if err != nil {
		return Config{}, err
	}
	cfg.JWTTTL = time.Duration(hours) * time.Hour
	hours, err = getEnvInt("JWT_REFRESH_GRACE_HOURS", int(cfg.RefreshGrace/time.Hour))
	if err != nil {
		return Config{}, err
	}
	cfg.RefreshGrace = time.Duration(hours) * time.Hour
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	return cfg, nil
}

// Validate reports missing required settings as auth.ErrConfiguration.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", auth.ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.JWTTTL <= 0 || c.RefreshGrace < 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", auth.ErrConfiguration)
	}
	return nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", auth.ErrConfiguration, key, err)
	}
	return n, nil
}

func getEnvInt32(key string, def int32) (int32, error) {
	n, err := getEnvInt(key, int(def))
	return int32(n), err
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", auth.ErrConfiguration, key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
