package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/logging"
	"github.com/KasumiMercury/primind-motivation-delivery/loadtest/internal/stub"
)

// Stub Primind Tasks server that calls fire callbacks at their schedule time.
func main() {
	slog.SetDefault(logging.NewLogger(os.Stdout, logging.Config{
		ServiceInfo:   logging.ServiceInfo{Name: "tasks-stub"},
		Environment:   logging.EnvDev,
		Level:         logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		DefaultModule: logging.Module("tasks-stub"),
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	storage := stub.NewTaskStorage(
		stub.NewHTTPDispatcher(&http.Client{Timeout: 10 * time.Second}),
		3,
		time.Second,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	stub.NewHandler(storage).Register(r)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting tasks stub", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stub server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	storage.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown stub server", slog.String("error", err.Error()))
	}
}
