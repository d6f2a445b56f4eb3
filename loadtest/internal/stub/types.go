package stub

import (
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/taskqueue"
)

// Task is a pending or dispatched task held by the stub queue.
type Task struct {
	Name         string
	Queue        string
	URL          string
	Body         []byte
	Headers      map[string]string
	ScheduleTime time.Time
	CreateTime   time.Time
	Attempts     int
}

type TaskSummary struct {
	Name         string    `json:"name"`
	Queue        string    `json:"queue"`
	URL          string    `json:"url"`
	ScheduleTime time.Time `json:"schedule_time"`
	Attempts     int       `json:"attempts"`
}

type TasksResponse struct {
	Pending    []TaskSummary `json:"pending"`
	Dispatched int           `json:"dispatched"`
	Failed     int           `json:"failed"`
}

func newTaskResponse(t *Task) taskqueue.PrimindTaskResponse {
	return taskqueue.PrimindTaskResponse{
		Name:         t.Name,
		ScheduleTime: t.ScheduleTime.Format(time.RFC3339),
		CreateTime:   t.CreateTime.Format(time.RFC3339),
	}
}
