package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue schedules one-shot HTTP callbacks to the fire endpoint.
type TaskQueue interface {
	RegisterDelivery(ctx context.Context, task *DeliveryTask) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}
