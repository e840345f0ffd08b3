package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/wichananm65/bike-catalog/internal/bike"
	"github.com/wichananm65/bike-catalog/internal/config"
	"github.com/wichananm65/bike-catalog/internal/health"
	"github.com/wichananm65/bike-catalog/internal/infrastructure/database/postgres"
	"github.com/wichananm65/bike-catalog/internal/logger"
	"github.com/wichananm65/bike-catalog/internal/metrics"
	"github.com/wichananm65/bike-catalog/internal/recommend"
	"github.com/wichananm65/bike-catalog/internal/web"
	"github.com/wichananm65/bike-catalog/pkg/llm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := mustOpenDB(ctx, cfg)
	defer db.Close()

	bikeRepo := bike.NewPostgresRepository(db)
	initStore(ctx, bikeRepo)

	m := metrics.New()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupMiddleware(app, log, m)

	bikeService := bike.NewService(bikeRepo)
	recommendService := recommend.NewService(bikeService, newCompletionClient(cfg), recommend.WithRecorder(m))

	web.NewHandler().RegisterPublicRoutes(app)
	bike.NewHandler(bikeService).RegisterPublicRoutes(app)
	recommend.NewHandler(recommendService).RegisterPublicRoutes(app)
	health.NewHandler(db).RegisterPublicRoutes(app)
	app.Get("/metrics", m.Handler())

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr, "completion_configured", cfg.CompletionConfigured())
	if err := app.Listen(cfg.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupMiddleware(app *fiber.App, log *slog.Logger, m *metrics.Metrics) {
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.RequestLogger(log))
	app.Use(m.Middleware())
	// inside the access log and metrics so a recovered panic is recorded as a 500
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func mustOpenDB(ctx context.Context, cfg config.Config) *sql.DB {
	db, err := postgres.Open(ctx, postgres.Options{
		Driver:          cfg.DatabaseDriver,
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	return db
}

// initStore creates and seeds the bikes table. Failures are logged and the
// server still starts; /api/items then reports the store error per request.
func initStore(ctx context.Context, repo *bike.PostgresRepository) {
	if err := repo.EnsureSchema(ctx); err != nil {
		slog.Error("database initialization failed", "error", err)
		return
	}
	n, err := repo.SeedIfEmpty(ctx, bike.SeedBikes)
	if err != nil {
		slog.Error("database initialization failed", "error", err)
		return
	}
	slog.Info("database initialized", "seeded", n)
}

// newCompletionClient returns nil when the completion options are incomplete;
// the recommend endpoint then answers with an error.
func newCompletionClient(cfg config.Config) llm.Client {
	if !cfg.CompletionConfigured() {
		slog.Warn("completion service is not configured; /api/recommend will fail")
		return nil
	}
	c := cfg.Completion
	if c.Provider == config.ProviderOpenAI {
		return llm.NewOpenAIClient(c.Endpoint, c.APIKey, c.Deployment, llm.WithTimeout(c.Timeout))
	}
	return llm.NewAzureOpenAIClient(c.Endpoint, c.APIKey, c.Deployment, c.APIVersion, llm.WithTimeout(c.Timeout))
}
