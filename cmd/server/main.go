package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-admin/brackets"
	"github.com/Dosada05/tournament-admin/config"
	"github.com/Dosada05/tournament-admin/db"
	"github.com/Dosada05/tournament-admin/events"
	"github.com/Dosada05/tournament-admin/handlers"
	"github.com/Dosada05/tournament-admin/middleware"
	"github.com/Dosada05/tournament-admin/realtime"
	"github.com/Dosada05/tournament-admin/repositories"
	"github.com/Dosada05/tournament-admin/routes"
	"github.com/Dosada05/tournament-admin/services"
	"github.com/Dosada05/tournament-admin/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		PingTimeout:     cfg.DBPingTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	gateway := db.NewGateway(dbConn, cfg.StatementTimeout)
	logger.Info("database connection established")

	// Загрузчик логотипов (Cloudflare R2) опционален
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, logo uploads are disabled")
	}

	// WebSocket Hub
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	publishers := []events.Publisher{hub}
	if cfg.NATSURL != "" {
		nc, js, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.Error("failed to drain NATS connection", slog.Any("error", err))
			}
		}()
		if err := events.ConfigureStream(js, cfg.NATSStream); err != nil {
			return fmt.Errorf("configure NATS stream: %w", err)
		}
		publishers = append(publishers, events.NewNATSPublisher(js))
		logger.Info("NATS publisher initialized", slog.String("stream", cfg.NATSStream))
	}
	publisher := events.NewFanout(logger, publishers...)

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresTournamentRepository(gateway)
	registrationRepo := repositories.NewPostgresRegistrationRepository(gateway)
	groupRepo := repositories.NewPostgresGroupRepository(gateway)
	matchRepo := repositories.NewPostgresMatchRepository(gateway)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(gateway)

	// Инициализация сервисов
	authService := services.NewAuthService(services.AuthConfig{
		Username:     cfg.StaffUsername,
		PasswordHash: cfg.StaffPasswordHash,
		JWTSecret:    []byte(cfg.JWTSecretKey),
		SessionTTL:   cfg.SessionTTL,
	})
	tournamentService := services.NewTournamentService(tournamentRepo, uploader, logger)
	registrationService := services.NewRegistrationService(gateway, tournamentRepo, registrationRepo)
	groupService := services.NewGroupService(
		gateway,
		tournamentRepo,
		registrationRepo,
		groupRepo,
		matchRepo,
		brackets.NewRoundRobinGenerator(),
		publisher,
		logger,
	)
	matchService := services.NewMatchService(gateway, matchRepo, publisher, logger)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo)
	logger.Info("Services initialized")

	guard := middleware.NewGuard([]byte(cfg.JWTSecretKey))
	router := routes.New(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.SecureCookie),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Group:        handlers.NewGroupHandler(groupService),
		Match:        handlers.NewMatchHandler(matchService),
		Leaderboard:  handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:    handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, logger),
		Health:       handlers.NewHealthHandler(dbConn),
	}, guard, cfg.CORSAllowedOrigins)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}
