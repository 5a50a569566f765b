package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/student_savings_app/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	"github.com/SscSPs/student_savings_app/internal/core/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/events"
	"github.com/SscSPs/student_savings_app/internal/events/kafka"
	"github.com/SscSPs/student_savings_app/internal/handlers"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
	"github.com/SscSPs/student_savings_app/internal/repositories/database/memory"
	"github.com/SscSPs/student_savings_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/student_savings_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Student Savings API
// @version 1.0
// @description Deposits, withdrawals and reports for school student savings accounts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStore, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	publisher := newPublisher(cfg, logger)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	dto.RegisterValidators()
	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if cfg.BootstrapAdminUsername != "" {
		admin, created, err := serviceContainer.Directory.EnsureAdmin(context.Background(), cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
		if err != nil {
			logger.Error("Failed to bootstrap administrator", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if created {
			logger.Info("Bootstrap administrator created", slog.String("user_id", admin.UserID))
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AddAllowHeaders("Authorization", "X-Request-ID")
		corsCfg.AddExposeHeaders("X-Request-ID")
		r.Use(cors.New(corsCfg))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openRepositories builds the configured storage backend. The returned func
// releases it.
func openRepositories(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool, cfg.DBQueryTimeout), dbPool.Close, nil
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func newPublisher(cfg *config.Config, logger *slog.Logger) publishers.LedgerEventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set; ledger events are not published")
		return events.NoopPublisher{}
	}
	logger.Info("Publishing ledger events to Kafka", slog.String("topic", cfg.KafkaTopic))
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
