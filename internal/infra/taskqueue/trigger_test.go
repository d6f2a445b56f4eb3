package taskqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func TestTrigger_Arm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := NewMockTaskQueue(ctrl)
	at := time.Date(2024, time.January, 15, 11, 0, 0, 0, time.UTC)

	mockQueue.EXPECT().
		RegisterDelivery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *DeliveryTask) (*TaskResponse, error) {
			if task.Token != "token-1" {
				t.Errorf("Token: got %s, want token-1", task.Token)
			}
			if !task.ScheduleAt.Equal(at) {
				t.Errorf("ScheduleAt: got %v, want %v", task.ScheduleAt, at)
			}
			if task.TaskType != TaskTypeScheduledDelivery {
				t.Errorf("TaskType: got %s", task.TaskType)
			}
			return &TaskResponse{Name: "tasks/token-1"}, nil
		})

	trigger := NewTrigger(mockQueue)
	if err := trigger.Arm(context.Background(), at, "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTrigger_ArmError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := NewMockTaskQueue(ctrl)
	queueErr := errors.New("queue paused")
	mockQueue.EXPECT().RegisterDelivery(gomock.Any(), gomock.Any()).Return(nil, queueErr)

	trigger := NewTrigger(mockQueue)
	err := trigger.Arm(context.Background(), time.Now(), "token-1")
	if !errors.Is(err, queueErr) {
		t.Errorf("expected wrapped queue error, got %v", err)
	}
}

func TestTrigger_Disarm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueue := NewMockTaskQueue(ctrl)
	mockQueue.EXPECT().DeleteTask(gomock.Any(), "token-1").Return(nil)

	trigger := NewTrigger(mockQueue)
	if err := trigger.Disarm(context.Background(), "token-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
