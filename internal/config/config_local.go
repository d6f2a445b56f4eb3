//go:build !gcloud

package config

import (
	"errors"
	"fmt"
)

func (c *TaskQueueConfig) Validate() error {
	var errs []error

	if c.PrimindTasksURL == "" {
		errs = append(errs, errors.New("PRIMIND_TASKS_URL is required"))
	}
	if c.TargetURL == "" {
		errs = append(errs, errors.New("TASK_QUEUE_TARGET_URL is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
