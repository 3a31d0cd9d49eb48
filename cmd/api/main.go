package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redmonkez12/user-management-api/internal/auth"
	"github.com/redmonkez12/user-management-api/internal/config"
	"github.com/redmonkez12/user-management-api/internal/database"
	httpServer "github.com/redmonkez12/user-management-api/internal/http"
	"github.com/redmonkez12/user-management-api/internal/logging"
	"github.com/redmonkez12/user-management-api/internal/metrics"
	"github.com/redmonkez12/user-management-api/internal/user"
)

// @title           User Management API
// @version         1.0
// @description     REST API for logging in and managing user accounts.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Address(),
		"token_strategy", cfg.Auth.TokenStrategy,
		"password_algorithm", cfg.Auth.PasswordAlgorithm,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("applying database migrations")
		if err := database.Migrate(ctx, db.DB); err != nil {
			return err
		}
	}

	passwordHasher, err := auth.NewPasswordHasherFromConfig(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize repositories and services
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, passwordHasher, logger)
	authService := auth.NewService(userRepo, passwordHasher, tokenService, logger)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	authMiddleware := auth.NewMiddleware(tokenService, userRepo)

	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m = metrics.New()
	}

	router := httpServer.NewRouter(cfg, authHandler, userHandler, authMiddleware, m, logger)

	server := httpServer.NewServer(router, httpServer.ServerOptions{
		Addr:            cfg.Server.Address(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
