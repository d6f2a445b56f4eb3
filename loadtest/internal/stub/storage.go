package stub

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// DispatchFunc delivers a due task. A non-nil error schedules a retry.
type DispatchFunc func(ctx context.Context, task *Task) error

// TaskStorage keeps pending tasks and fires each one at its schedule time.
type TaskStorage struct {
	mu         sync.Mutex
	tasks      map[string]*Task
	timers     map[string]*time.Timer
	dispatched int
	failed     int

	dispatch    DispatchFunc
	maxAttempts int
	retryDelay  time.Duration
}

func NewTaskStorage(dispatch DispatchFunc, maxAttempts int, retryDelay time.Duration) *TaskStorage {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &TaskStorage{
		tasks:       make(map[string]*Task),
		timers:      make(map[string]*time.Timer),
		dispatch:    dispatch,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Add schedules task. A task whose name is already pending is not replaced,
// and created reports false.
func (s *TaskStorage) Add(task *Task) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tasks[task.Name]; ok {
		return existing, false
	}

	s.tasks[task.Name] = task
	s.schedule(task, time.Until(task.ScheduleTime))
	return task, true
}

// Delete cancels a pending task and reports whether it existed.
func (s *TaskStorage) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[name]; !ok {
		return false
	}
	if timer, ok := s.timers[name]; ok {
		timer.Stop()
		delete(s.timers, name)
	}
	delete(s.tasks, name)
	return true
}

func (s *TaskStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, timer := range s.timers {
		timer.Stop()
	}
	s.tasks = make(map[string]*Task)
	s.timers = make(map[string]*time.Timer)
	s.dispatched = 0
	s.failed = 0
}

func (s *TaskStorage) Snapshot() TasksResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := slices.Sorted(maps.Keys(s.tasks))
	pending := make([]TaskSummary, 0, len(names))
	for _, name := range names {
		t := s.tasks[name]
		pending = append(pending, TaskSummary{
			Name:         t.Name,
			Queue:        t.Queue,
			URL:          t.URL,
			ScheduleTime: t.ScheduleTime,
			Attempts:     t.Attempts,
		})
	}

	return TasksResponse{
		Pending:    pending,
		Dispatched: s.dispatched,
		Failed:     s.failed,
	}
}

// schedule must be called with mu held.
func (s *TaskStorage) schedule(task *Task, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	s.timers[task.Name] = time.AfterFunc(delay, func() { s.run(task) })
}

func (s *TaskStorage) run(task *Task) {
	s.mu.Lock()
	if s.tasks[task.Name] != task {
		s.mu.Unlock()
		return
	}
	task.Attempts++
	delete(s.timers, task.Name)
	s.mu.Unlock()

	err := s.dispatch(context.Background(), task)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tasks[task.Name] != task {
		return
	}

	switch {
	case err == nil:
		s.dispatched++
		delete(s.tasks, task.Name)
	case task.Attempts >= s.maxAttempts:
		s.failed++
		delete(s.tasks, task.Name)
	default:
		s.schedule(task, s.retryDelay)
	}
}
