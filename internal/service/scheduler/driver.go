package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/metrics"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/tracing"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/schedule"
	"github.com/google/uuid"
)

const DefaultReplanInterval = 24 * time.Hour

// Driver keeps at most one future delivery armed. mu guards the plan state
// only and is never held across a coordinator or trigger call; planMu
// serializes whole planning passes.
type Driver struct {
	planMu sync.Mutex
	mu     sync.Mutex

	state       State
	next        time.Time
	token       string
	lastReason  string
	lastOutcome string
	plannedAt   time.Time
	// generation advances on every disarm so a failed Fire can tell whether
	// a replan ran while its delivery was in flight.
	generation uint64

	coordinator     *delivery.Coordinator
	prefsRepo       domain.PreferencesRepository
	trigger         Trigger
	clock           domain.Clock
	recorder        domain.DeliveryEventRecorder
	deliveryMetrics *metrics.DeliveryMetrics

	replanInterval time.Duration
	newToken       func() string
}

type DriverConfig struct {
	Coordinator     *delivery.Coordinator
	Preferences     domain.PreferencesRepository
	Trigger         Trigger
	Clock           domain.Clock
	Recorder        domain.DeliveryEventRecorder
	DeliveryMetrics *metrics.DeliveryMetrics
	ReplanInterval  time.Duration
}

func NewDriver(cfg DriverConfig) (*Driver, error) {
	if cfg.Trigger == nil {
		return nil, ErrNoTrigger
	}

	clock := cfg.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	interval := cfg.ReplanInterval
	if interval <= 0 {
		interval = DefaultReplanInterval
	}

	return &Driver{
		state:           StateIdle,
		coordinator:     cfg.Coordinator,
		prefsRepo:       cfg.Preferences,
		trigger:         cfg.Trigger,
		clock:           clock,
		recorder:        cfg.Recorder,
		deliveryMetrics: cfg.DeliveryMetrics,
		replanInterval:  interval,
		newToken:        uuid.NewString,
	}, nil
}

// Run replans once at startup and then every replan interval until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	if _, err := d.Replan(ctx, ReasonStartup); err != nil {
		slog.WarnContext(ctx, "startup replan failed",
			slog.String("error", err.Error()),
		)
	}

	ticker := time.NewTicker(d.replanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := d.Replan(ctx, ReasonDaily); err != nil {
				slog.WarnContext(ctx, "daily replan failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Replan cancels any armed delivery and arms the next one computed from the
// current preferences and the clock. The driver ends Idle when delivery is
// disabled, content is exhausted, no active day exists within the search
// horizon, or any step fails.
func (d *Driver) Replan(ctx context.Context, reason string) (Status, error) {
	d.planMu.Lock()
	defer d.planMu.Unlock()

	from := d.clock.Now()
	ctx, span := tracing.StartPlanningSpan(ctx, reason, from)
	defer span.End()

	d.disarm(ctx)

	outcome, next, err := d.plan(ctx, from)

	d.mu.Lock()
	d.lastReason = reason
	d.lastOutcome = outcome
	d.plannedAt = from
	d.mu.Unlock()

	if d.deliveryMetrics != nil {
		d.deliveryMetrics.RecordPlan(ctx, reason, outcome)
	}
	tracing.RecordPlanResult(span, outcome, next, err)

	if err != nil {
		slog.ErrorContext(ctx, "replan failed",
			slog.String("reason", reason),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
		return d.Status(), err
	}

	slog.InfoContext(ctx, "replanned",
		slog.String("reason", reason),
		slog.String("outcome", outcome),
		slog.Time("next_delivery", next),
	)
	return d.Status(), nil
}

func (d *Driver) plan(ctx context.Context, from time.Time) (string, time.Time, error) {
	prefs, err := d.prefsRepo.GetPreferences(ctx)
	if err != nil {
		return OutcomeStoreFailed, time.Time{}, fmt.Errorf("get preferences: %w", err)
	}

	if !prefs.Enabled {
		return OutcomeDisabled, time.Time{}, nil
	}

	exhausted, err := d.coordinator.IsExhausted(ctx)
	if err != nil {
		return OutcomeStoreFailed, time.Time{}, err
	}
	if exhausted {
		return OutcomeExhausted, time.Time{}, nil
	}

	next, ok, err := schedule.ComputeNextDeliveryInstant(prefs, from)
	if err != nil {
		return OutcomeNoNextTime, time.Time{}, fmt.Errorf("compute next delivery: %w", err)
	}
	if !ok {
		return OutcomeNoNextTime, time.Time{}, nil
	}

	// State is published before arming so that an immediate callback is
	// not rejected as stale.
	token := d.newToken()
	d.mu.Lock()
	d.state = StatePlanned
	d.next = next
	d.token = token
	d.mu.Unlock()

	if err := d.trigger.Arm(ctx, next, token); err != nil {
		d.mu.Lock()
		if d.token == token {
			d.state = StateIdle
			d.next = time.Time{}
			d.token = ""
		}
		d.mu.Unlock()
		return OutcomeArmFailed, time.Time{}, fmt.Errorf("arm trigger: %w", err)
	}

	return OutcomePlanned, next, nil
}

func (d *Driver) disarm(ctx context.Context) {
	d.mu.Lock()
	token := d.token
	d.state = StateIdle
	d.next = time.Time{}
	d.token = ""
	d.generation++
	d.mu.Unlock()

	if token == "" {
		return
	}

	if err := d.trigger.Disarm(ctx, token); err != nil {
		// A late callback for this token is rejected as stale by Fire.
		slog.WarnContext(ctx, "failed to disarm trigger",
			slog.String("token", token),
			slog.String("error", err.Error()),
		)
	}
}

// Fire runs the armed delivery identified by token and plans the following
// one. Tokens that are not currently armed return ErrStaleToken. When the
// store fails, the token stays armed and the error is returned so the
// trigger can retry, unless a replan ran in the meantime; the token is then
// dropped and ErrStaleToken is returned.
func (d *Driver) Fire(ctx context.Context, token string) error {
	d.mu.Lock()
	if d.state != StatePlanned || d.token != token {
		d.mu.Unlock()
		slog.InfoContext(ctx, "ignoring stale trigger",
			slog.String("token", token),
		)
		return ErrStaleToken
	}
	armedAt := d.next
	generation := d.generation
	d.state = StateIdle
	d.next = time.Time{}
	d.token = ""
	d.mu.Unlock()

	result, err := d.deliver(ctx, delivery.TagScheduled)
	if err != nil {
		if !d.restore(armedAt, token, generation) {
			slog.InfoContext(ctx, "replanned during failed delivery, token not restored",
				slog.String("token", token),
			)
			return ErrStaleToken
		}
		return err
	}

	if result.Exhausted {
		slog.InfoContext(ctx, "scheduled delivery found no unseen content")
	}
	if _, err := d.Replan(ctx, ReasonDelivered); err != nil {
		slog.WarnContext(ctx, "replan after scheduled delivery failed",
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// restore re-arms token unless a replan has run since Fire took it,
// including one that left the driver Idle.
func (d *Driver) restore(at time.Time, token string, generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.generation != generation || d.token != "" {
		return false
	}
	d.state = StatePlanned
	d.next = at
	d.token = token
	return true
}

// DeliverNow delivers immediately outside the schedule and then replans.
func (d *Driver) DeliverNow(ctx context.Context) (*delivery.Result, error) {
	result, err := d.deliver(ctx, delivery.TagManual)
	if err != nil {
		return nil, err
	}

	if _, err := d.Replan(ctx, ReasonManual); err != nil {
		slog.WarnContext(ctx, "replan after manual delivery failed",
			slog.String("error", err.Error()),
		)
	}

	return result, nil
}

// ResetHistory clears the delivery history and replans, which re-arms a
// driver left Idle by exhaustion.
func (d *Driver) ResetHistory(ctx context.Context) (Status, error) {
	if err := d.coordinator.ResetHistory(ctx); err != nil {
		return d.Status(), err
	}
	return d.Replan(ctx, ReasonHistoryReset)
}

func (d *Driver) deliver(ctx context.Context, tag string) (*delivery.Result, error) {
	prefs, err := d.prefsRepo.GetPreferences(ctx)
	if err != nil {
		return nil, &delivery.StorageError{Op: "get_preferences", Err: err}
	}

	result, err := d.coordinator.SelectAndDeliver(ctx, prefs.PreferredThemes, tag)
	if err != nil {
		var storageErr *delivery.StorageError
		if errors.As(err, &storageErr) {
			slog.WarnContext(ctx, "delivery failed on storage",
				slog.String("tag", tag),
				slog.String("op", storageErr.Op),
			)
		}
		return nil, err
	}

	d.recordEvent(ctx, tag, result)
	return result, nil
}

func (d *Driver) recordEvent(ctx context.Context, tag string, result *delivery.Result) {
	if d.recorder == nil {
		return
	}

	event := domain.DeliveryEvent{
		Tag:         tag,
		Outcome:     delivery.OutcomeDelivered,
		DeliveredAt: d.clock.Now(),
	}
	if result.Exhausted {
		event.Outcome = delivery.OutcomeExhausted
	} else {
		event.ContentID = result.Item.ID
		event.Themes = result.Item.Themes
		event.DeliveredAt = result.Record.DeliveredAt
	}

	if unseen, err := d.coordinator.UnseenCount(ctx); err == nil {
		event.UnseenLeft = unseen
	}

	if err := d.recorder.RecordDelivery(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to record delivery event",
			slog.String("tag", tag),
			slog.String("error", err.Error()),
		)
	}
}

// Status returns a snapshot of the current plan.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		State:        d.state,
		NextDelivery: d.next,
		LastReason:   d.lastReason,
		LastOutcome:  d.lastOutcome,
		PlannedAt:    d.plannedAt,
	}
}
