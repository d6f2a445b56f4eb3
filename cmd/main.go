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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/config"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/handler"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/health"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/deliveryrecorder"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/repository"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/seed"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/logging"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/metrics"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/middleware"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/scheduler"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/selection"
)

// Version is set via ldflags at build time
var Version = "dev"

type store interface {
	domain.ContentRepository
	domain.PreferencesRepository
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	deliveryMetrics, err := metrics.NewDeliveryMetrics()
	if err != nil {
		slog.Error("failed to initialize delivery metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	recorder, err := deliveryrecorder.NewRecorder(ctx, deliveryrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize delivery event recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := recorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush delivery event recorder", slog.String("error", err.Error()))
		}
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close delivery event recorder", slog.String("error", err.Error()))
		}
	}()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store",
			slog.String("event", "store.open.fail"),
			slog.String("backend", string(cfg.Store.Backend)),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("failed to close store", slog.String("error", err.Error()))
		}
	}()

	if cfg.SeedFile != "" {
		if _, err := seed.LoadFile(ctx, repo, cfg.SeedFile); err != nil {
			slog.Error("failed to load seed content",
				slog.String("path", cfg.SeedFile),
				slog.String("error", err.Error()),
			)
			return 1
		}
	}

	clock := domain.SystemClock{Location: cfg.Schedule.Location}
	coordinator := delivery.NewCoordinator(repo, selection.NewSelector(repo), clock, deliveryMetrics)

	trigger, stopTrigger, err := initTrigger(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize delivery trigger", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := stopTrigger(); err != nil {
			slog.Error("delivery trigger cleanup error", slog.String("error", err.Error()))
		}
	}()

	driver, err := scheduler.NewDriver(scheduler.DriverConfig{
		Coordinator:     coordinator,
		Preferences:     repo,
		Trigger:         trigger,
		Clock:           clock,
		Recorder:        recorder,
		DeliveryMetrics: deliveryMetrics,
		ReplanInterval:  cfg.Schedule.ReplanInterval,
	})
	if err != nil {
		slog.Error("failed to initialize scheduler", slog.String("error", err.Error()))
		return 1
	}
	if timer, ok := trigger.(*scheduler.TimerTrigger); ok {
		timer.Handle(driver.Fire)
	}

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		if err := driver.Run(ctx); err != nil {
			slog.Error("scheduler stopped", slog.String("error", err.Error()))
		}
	}()

	preferencesHandler := handler.NewPreferencesHandler(repo, driver, clock, cfg.Schedule.MinInterval)
	deliveryHandler := handler.NewDeliveryHandler(driver, coordinator, repo, cfg.Delivery.ManualDeliveryRatePerMinute)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("motivation-delivery"),
		TracerName:  "github.com/KasumiMercury/primind-motivation-delivery/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(Version).Register("store", repo)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/preferences", preferencesHandler.HandleGetPreferences)
		v1.PUT("/preferences", preferencesHandler.HandlePutPreferences)

		v1.POST("/deliveries", deliveryHandler.HandleDeliverNow)
		v1.GET("/deliveries", deliveryHandler.HandleListDeliveries)
		v1.DELETE("/deliveries", deliveryHandler.HandleResetHistory)
		v1.PATCH("/deliveries/:content_id/status", deliveryHandler.HandleUpdateStatus)
		v1.POST("/deliveries/fire",
			handler.NewFireAuth(cfg.TaskQueue.GCloudTargetURL, cfg.TaskQueue.GCloudServiceAccount),
			deliveryHandler.HandleFire,
		)

		v1.GET("/status", deliveryHandler.HandleStatus)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("store", string(cfg.Store.Backend)),
			slog.String("trigger", string(cfg.Delivery.Trigger)),
			slog.String("timezone", cfg.Schedule.Location.String()),
			slog.Duration("replan_interval", cfg.Schedule.ReplanInterval),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
		<-driverDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		cancel()
		<-driverDone
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		db, err := repository.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}

		slog.Info("sqlite store opened", slog.String("path", cfg.Store.SQLitePath))
		return repository.NewSQLiteRepository(db), sqlDB.Close, nil

	case config.StoreBackendRedis:
		redisClient := redis.NewClient(cfg.Redis.Options())

		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("instrument redis tracing: %w", err)
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("instrument redis metrics: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}

		slog.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
		return repository.NewRedisRepository(redisClient), redisClient.Close, nil

	default:
		return nil, nil, config.ErrUnknownStoreBackend
	}
}

// initTrigger returns the in-process timer or a task queue backed trigger.
func initTrigger(ctx context.Context, cfg *config.Config) (scheduler.Trigger, func() error, error) {
	if cfg.Delivery.Trigger == config.TriggerBackendTimer {
		timer := scheduler.NewTimerTrigger(scheduler.TimerTriggerConfig{})
		slog.Info("delivery trigger initialized", slog.String("type", "timer"))
		return timer, func() error {
			timer.Stop()
			return nil
		}, nil
	}

	queue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return taskqueue.NewTrigger(queue), cleanup, nil
}
