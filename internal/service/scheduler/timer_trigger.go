package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	defaultTimerMaxRetries  = 5
	defaultTimerBaseBackoff = time.Second
)

// TimerTrigger arms in-process timers. Pending callbacks do not survive a
// restart; the startup replan re-arms them.
type TimerTrigger struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	handler FireFunc
	stopped bool

	// ctx is cancelled by Stop and ends any retry loop in progress.
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	maxRetries  int
	baseBackoff time.Duration
}

type TimerTriggerConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

func NewTimerTrigger(cfg TimerTriggerConfig) *TimerTrigger {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultTimerMaxRetries
	}
	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultTimerBaseBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TimerTrigger{
		timers:      make(map[string]*time.Timer),
		ctx:         ctx,
		cancel:      cancel,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// Handle sets the callback invoked when a timer fires. It must be called
// before the first Arm.
func (t *TimerTrigger) Handle(fn FireFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = fn
}

func (t *TimerTrigger) Arm(_ context.Context, at time.Time, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return ErrTriggerStopped
	}

	if existing, ok := t.timers[token]; ok {
		existing.Stop()
	}

	t.timers[token] = time.AfterFunc(time.Until(at), func() {
		t.fire(token)
	})

	slog.Debug("timer armed",
		slog.String("token", token),
		slog.Time("at", at),
	)
	return nil
}

func (t *TimerTrigger) Disarm(_ context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[token]; ok {
		timer.Stop()
		delete(t.timers, token)
	}
	return nil
}

// Stop cancels every pending timer and any retry backoff, then waits for
// running handler calls to return. Later Arm calls fail with ErrTriggerStopped.
func (t *TimerTrigger) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.cancel()
	for token, timer := range t.timers {
		timer.Stop()
		delete(t.timers, token)
	}
	t.mu.Unlock()

	t.inflight.Wait()
}

// Pending returns the number of armed timers.
func (t *TimerTrigger) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

func (t *TimerTrigger) fire(token string) {
	t.mu.Lock()
	if _, ok := t.timers[token]; !ok || t.stopped {
		t.mu.Unlock()
		return
	}
	delete(t.timers, token)
	handler := t.handler
	t.inflight.Add(1)
	t.mu.Unlock()
	defer t.inflight.Done()

	if handler == nil {
		slog.Warn("timer fired without a handler",
			slog.String("token", token),
		)
		return
	}

	ctx := t.ctx

	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * t.baseBackoff
			slog.Debug("retrying scheduled delivery",
				slog.String("token", token),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			wait := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				wait.Stop()
				slog.Info("scheduled delivery retry cancelled by shutdown",
					slog.String("token", token),
					slog.Int("attempt", attempt+1),
				)
				return
			case <-wait.C:
			}
		}

		err := handler(ctx, token)
		if err == nil || errors.Is(err, ErrStaleToken) {
			return
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for scheduled delivery",
		slog.String("token", token),
		slog.Int("max_retries", t.maxRetries),
		slog.String("error", lastErr.Error()),
	)
}
