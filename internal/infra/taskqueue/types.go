package taskqueue

import "time"

// DeliveryTask is the body posted back to the fire endpoint. Token doubles
// as the task ID so that a plan can be cancelled by token.
type DeliveryTask struct {
	ScheduleAt time.Time `json:"-"`

	Token    string `json:"token"`
	TaskType string `json:"task_type"`
}

const TaskTypeScheduledDelivery = "scheduled_delivery"

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
