//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/config"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := taskqueue.NewPrimindTasksClient(taskqueue.PrimindTasksConfig{
		BaseURL:    cfg.TaskQueue.PrimindTasksURL,
		QueueName:  cfg.TaskQueue.QueueName,
		TargetURL:  cfg.TaskQueue.TargetURL,
		MaxRetries: cfg.TaskQueue.MaxRetries,
	})

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, tq.Close, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "motivation-delivery"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("motivation-delivery"),
		LogLevel:      logging.ParseLevel(os.Getenv("LOG_LEVEL")),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
