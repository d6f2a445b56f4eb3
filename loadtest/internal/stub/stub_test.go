package stub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/taskqueue"
)

func newStubServer(t *testing.T, dispatch DispatchFunc) (*httptest.Server, *TaskStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := NewTaskStorage(dispatch, 3, 10*time.Millisecond)
	t.Cleanup(storage.Reset)

	r := gin.New()
	NewHandler(storage).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, storage
}

func TestStub_DispatchesToTarget(t *testing.T) {
	received := make(chan taskqueue.DeliveryTask, 1)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var task taskqueue.DeliveryTask
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &task); err != nil {
			t.Errorf("decode dispatched body: %v", err)
		}
		received <- task
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	srv, storage := newStubServer(t, NewHTTPDispatcher(target.Client()))

	client := taskqueue.NewPrimindTasksClient(taskqueue.PrimindTasksConfig{
		BaseURL:   srv.URL,
		TargetURL: target.URL,
	})

	_, err := client.RegisterDelivery(context.Background(), &taskqueue.DeliveryTask{
		ScheduleAt: time.Now(),
		Token:      "token-1",
		TaskType:   taskqueue.TaskTypeScheduledDelivery,
	})
	if err != nil {
		t.Fatalf("RegisterDelivery: %v", err)
	}

	select {
	case task := <-received:
		if task.Token != "token-1" {
			t.Errorf("token: got %q", task.Token)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task was not dispatched")
	}

	deadline := time.Now().Add(time.Second)
	for storage.Snapshot().Dispatched != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("snapshot: %+v", storage.Snapshot())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStub_DeleteCancelsPendingTask(t *testing.T) {
	dispatched := make(chan struct{}, 1)
	srv, storage := newStubServer(t, func(_ context.Context, _ *Task) error {
		dispatched <- struct{}{}
		return nil
	})

	client := taskqueue.NewPrimindTasksClient(taskqueue.PrimindTasksConfig{
		BaseURL:   srv.URL,
		QueueName: "deliveries",
		TargetURL: "http://example.invalid/fire",
	})

	ctx := context.Background()
	_, err := client.RegisterDelivery(ctx, &taskqueue.DeliveryTask{
		ScheduleAt: time.Now().Add(time.Hour),
		Token:      "token-2",
	})
	if err != nil {
		t.Fatalf("RegisterDelivery: %v", err)
	}
	if got := len(storage.Snapshot().Pending); got != 1 {
		t.Fatalf("pending: got %d, want 1", got)
	}

	if err := client.DeleteTask(ctx, "token-2"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if got := len(storage.Snapshot().Pending); got != 0 {
		t.Errorf("pending after delete: got %d, want 0", got)
	}

	// Deleting again hits the 404 path, which the client tolerates.
	if err := client.DeleteTask(ctx, "token-2"); err != nil {
		t.Errorf("second DeleteTask: %v", err)
	}

	select {
	case <-dispatched:
		t.Error("deleted task was dispatched")
	default:
	}
}

func TestTaskStorage_RetriesThenGivesUp(t *testing.T) {
	attempts := make(chan int, 5)
	storage := NewTaskStorage(func(_ context.Context, task *Task) error {
		attempts <- task.Attempts
		return io.ErrUnexpectedEOF
	}, 3, time.Millisecond)
	defer storage.Reset()

	storage.Add(&Task{Name: "flaky", ScheduleTime: time.Now()})

	for want := 1; want <= 3; want++ {
		select {
		case got := <-attempts:
			if got != want {
				t.Errorf("attempt: got %d, want %d", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("attempt %d did not run", want)
		}
	}

	deadline := time.Now().Add(time.Second)
	for storage.Snapshot().Failed != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("snapshot: %+v", storage.Snapshot())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTaskStorage_DuplicateNameKeepsFirst(t *testing.T) {
	storage := NewTaskStorage(func(context.Context, *Task) error { return nil }, 1, 0)
	defer storage.Reset()

	first, created := storage.Add(&Task{Name: "dup", URL: "a", ScheduleTime: time.Now().Add(time.Hour)})
	if !created {
		t.Fatal("expected first add to create")
	}
	got, created := storage.Add(&Task{Name: "dup", URL: "b", ScheduleTime: time.Now().Add(time.Hour)})
	if created || got != first {
		t.Errorf("expected the first task to be kept, got %+v", got)
	}
}
