// @title         enrich API
// @version       1.0
// @description   Authentication and contact enrichment service for an email client add-in.
// @BasePath      /api
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Authorization header. Both "Bearer <JWT>" and "<JWT>" are accepted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/enrich/docs"

	// internal imports
	"github.com/artem13815/enrich/api/http"
	"github.com/artem13815/enrich/api/http/handlers"
	"github.com/artem13815/enrich/pkg/auth"
	"github.com/artem13815/enrich/pkg/config"
	"github.com/artem13815/enrich/pkg/contact"
	"github.com/artem13815/enrich/pkg/health"
	healthpg "github.com/artem13815/enrich/pkg/health/checkers"
	"github.com/artem13815/enrich/pkg/logger"
	pgrepo "github.com/artem13815/enrich/pkg/repository/postgres"
	"github.com/artem13815/enrich/pkg/security/jwt"
	"github.com/artem13815/enrich/pkg/security/password"
	"github.com/artem13815/enrich/pkg/storage/postgres"
	"github.com/artem13815/enrich/pkg/validation"
)

func main() {
	// Load configuration from defaults, CONFIG_FILE and env/.env
	cfg, err := config.Load()
	if err != nil {
		fatal(slog.Default(), "load config", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fatal(slog.Default(), "init logger", err)
	}
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		fatal(log, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and bring the schema up to date
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		fatal(log, "postgres connect", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		fatal(log, "postgres migrate", err)
	}

	// Wire dependencies (Clean Architecture)
	userRepo := pgrepo.NewUserRepository(pool, cfg.DBAcquireTimeout)
	contactRepo := pgrepo.NewContactRepository(pool, cfg.DBAcquireTimeout)

	tokens, err := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		fatal(log, "init token service", err)
	}
	validate := validation.New()
	store := auth.NewCredentialStore(userRepo, password.NewHasher(cfg.BcryptCost))
	authUC := auth.NewAuthService(store, tokens, validate,
		auth.WithRefreshGrace(cfg.RefreshGrace),
		auth.WithLogger(log),
	)
	contactUC := contact.NewService(contactRepo, validate)

	// Health service: compose checkers
	readiness := health.NewService(healthpg.NewPostgresChecker(pool))

	app := fiber.New(fiber.Config{
		AppName:               "enrich",
		UnescapePath:          true,
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(http.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Register routes
	http.Register(app,
		handlers.NewAuthHandler(authUC, log),
		handlers.NewHealthHandler(readiness, cfg.Env),
		handlers.NewContactHandler(contactUC, log),
		jwt.NewAuthMiddleware(authUC, log),
	)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.Port, "env", cfg.Env)
		serveErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server stopped", "err", err)
		}
	case <-ctx.Done():
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Error("graceful shutdown failed", "err", err)
		}
	}
	log.Info("server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
