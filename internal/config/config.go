package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/logging"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	SeedFile  string
	TaskQueue TaskQueueConfig
	Store     *StoreConfig
	Redis     *RedisConfig
	Schedule  *ScheduleConfig
	Delivery  *DeliveryConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string
	// TargetURL receives fire callbacks from the queue.
	TargetURL string

	GCloudProjectID      string
	GCloudLocationID     string
	GCloudQueueID        string
	GCloudTargetURL      string
	GCloudServiceAccount string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	storeConfig, err := LoadStoreConfig()
	if err != nil {
		return nil, err
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	deliveryConfig, err := LoadDeliveryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		SeedFile: os.Getenv("SEED_FILE"),
		TaskQueue: TaskQueueConfig{
			PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
			QueueName:       queueName,
			TargetURL:       os.Getenv("TASK_QUEUE_TARGET_URL"),

			GCloudProjectID:      os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID:     os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:        os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:      os.Getenv("GCLOUD_TARGET_URL"),
			GCloudServiceAccount: os.Getenv("GCLOUD_SERVICE_ACCOUNT_EMAIL"),

			MaxRetries: maxRetries,
		},
		Store:    storeConfig,
		Redis:    redisConfig,
		Schedule: scheduleConfig,
		Delivery: deliveryConfig,
	}, nil
}
