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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/livescore/config"
	"github.com/Dosada05/livescore/db"
	"github.com/Dosada05/livescore/handlers"
	"github.com/Dosada05/livescore/live"
	"github.com/Dosada05/livescore/middleware"
	"github.com/Dosada05/livescore/repositories"
	api "github.com/Dosada05/livescore/routes"
	"github.com/Dosada05/livescore/services"
	"github.com/Dosada05/livescore/storage"
	"github.com/Dosada05/livescore/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTELExporterEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFlush()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Cloudflare R2 нужен только для архива и логотипов
	var objects storage.ObjectStore
	if cfg.R2Enabled() {
		objects, err = storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 store: %w", err)
		}
		logger.Info("Cloudflare R2 store initialized")
	}

	workers, workersCtx := errgroup.WithContext(ctx)

	// WebSocket hub и доставка обновлений
	hub := live.NewHub(logger)
	workers.Go(func() error {
		hub.Run(workersCtx)
		return nil
	})

	var sinks []live.Sink
	if cfg.RedisURL != "" {
		redisClient, err := live.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		sinks = append(sinks, live.NewRedisSink(redisClient))
		relay := live.NewRedisRelay(redisClient, hub, logger)
		workers.Go(func() error {
			return relay.Run(workersCtx)
		})
		logger.Info("redis relay enabled")
	} else {
		sinks = append(sinks, hub)
	}

	publisher := live.NewAsyncPublisher(cfg.BroadcastBuffer, logger, sinks...)
	workers.Go(func() error {
		publisher.Run(workersCtx)
		return nil
	})

	limiter := middleware.NewRateLimiter(cfg.MutationRatePerSec, cfg.MutationBurst)
	workers.Go(func() error {
		limiter.Run(workersCtx)
		return nil
	})
	logger.Info("background workers started")

	// Инициализация репозиториев
	repos := services.Repositories{
		Tx:      repositories.NewTxRunner(dbConn, logger),
		Games:   repositories.NewPostgresGameRepository(dbConn),
		Teams:   repositories.NewPostgresTeamRepository(dbConn),
		Players: repositories.NewPostgresPlayerRepository(dbConn),
		Stats:   repositories.NewPostgresStatRepository(dbConn),
		Events:  repositories.NewPostgresEventRepository(dbConn),
		Rosters: repositories.NewPostgresRosterRepository(dbConn),
	}
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	store := services.NewGameStore(repos, publisher, logger)
	matchService := services.NewMatchService(repos, objects)
	standingsService := services.NewStandingsService(repos, objects)

	var archiver *services.BoxScoreArchiver
	if objects != nil {
		archiver = services.NewBoxScoreArchiver(objects, matchService, logger)
		defer archiver.Wait()
	}

	lifecycleService := services.NewLifecycleService(store, archiver, logger)
	recorderService := services.NewRecorderService(store)
	rosterService := services.NewRosterService(store)
	undoService := services.NewUndoService(store)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Games:     handlers.NewGameHandler(lifecycleService, recorderService, rosterService, undoService),
		Matches:   handlers.NewMatchHandler(matchService, standingsService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
		Health:    handlers.NewHealthHandler(dbConn),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        limiter,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-workersCtx.Done():
		runErr = fmt.Errorf("background worker stopped: %w", context.Cause(workersCtx))
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
	} else {
		logger.Info("server shutdown complete")
	}

	cancel()
	if err := workers.Wait(); err != nil && !errors.Is(err, context.Canceled) && runErr == nil {
		runErr = err
	}
	logger.Info("background workers stopped", slog.Int64("dropped_updates", publisher.Dropped()))
	return runErr
}
