package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nestegg-app/nestegg_backend/internal/clients/yahoofinance"
	"github.com/nestegg-app/nestegg_backend/internal/core/services"
	"github.com/nestegg-app/nestegg_backend/internal/handlers"
	"github.com/nestegg-app/nestegg_backend/internal/middleware"
	"github.com/nestegg-app/nestegg_backend/internal/platform/config"
	"github.com/nestegg-app/nestegg_backend/internal/repositories/database/pgsql"
	"github.com/nestegg-app/nestegg_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider := yahoofinance.NewClient(cfg.MarketDataBaseURL, cfg.MarketDataTimeout)
	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, provider)

	handlers.RegisterRoutes(r, cfg, container)

	startBackgroundRateEngines(logger, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations through a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// startBackgroundRateEngines launches the startup refresh and backfill passes
// plus the periodic refresh loop. All three are fire-and-forget: the HTTP
// server never waits on them.
func startBackgroundRateEngines(logger *slog.Logger, cfg *config.Config, container *portssvc.ServiceContainer) {
	ctx := middleware.ContextWithLogger(context.Background(), logger)

	go container.Refresh.RefreshAtStartupIfStale(ctx)
	go container.Backfill.BackfillAllAtStartup(ctx)

	go func() {
		ticker := time.NewTicker(cfg.RateRefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := container.Refresh.RefreshAll(ctx); err != nil {
				logger.Error("Periodic rate refresh failed", slog.String("error", err.Error()))
			}
		}
	}()
}
