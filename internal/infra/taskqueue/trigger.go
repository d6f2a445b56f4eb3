package taskqueue

import (
	"context"
	"fmt"
	"time"
)

// Trigger arms deliveries as queue tasks that post back to the fire
// endpoint. The task ID is the plan token.
type Trigger struct {
	queue TaskQueue
}

func NewTrigger(queue TaskQueue) *Trigger {
	return &Trigger{queue: queue}
}

func (t *Trigger) Arm(ctx context.Context, at time.Time, token string) error {
	_, err := t.queue.RegisterDelivery(ctx, &DeliveryTask{
		ScheduleAt: at,
		Token:      token,
		TaskType:   TaskTypeScheduledDelivery,
	})
	if err != nil {
		return fmt.Errorf("register delivery task: %w", err)
	}
	return nil
}

func (t *Trigger) Disarm(ctx context.Context, token string) error {
	if err := t.queue.DeleteTask(ctx, token); err != nil {
		return fmt.Errorf("delete delivery task: %w", err)
	}
	return nil
}
