package scheduler

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/selection"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/testutil"
	"go.uber.org/mock/gomock"
)

type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type armCall struct {
	at    time.Time
	token string
}

type fakeTrigger struct {
	mu        sync.Mutex
	armed     []armCall
	disarmed  []string
	armErr    error
	disarmErr error
}

func (f *fakeTrigger) Arm(_ context.Context, at time.Time, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.armErr != nil {
		return f.armErr
	}
	f.armed = append(f.armed, armCall{at: at, token: token})
	return nil
}

func (f *fakeTrigger) Disarm(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disarmed = append(f.disarmed, token)
	return f.disarmErr
}

func (f *fakeTrigger) lastArmed(t *testing.T) armCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.armed) == 0 {
		t.Fatal("expected the trigger to be armed")
	}
	return f.armed[len(f.armed)-1]
}

func (f *fakeTrigger) armCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.armed)
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []domain.DeliveryEvent
}

func (r *fakeRecorder) RecordDelivery(_ context.Context, event domain.DeliveryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeRecorder) Flush(context.Context) error { return nil }
func (r *fakeRecorder) Close() error                { return nil }

// Monday 2024-01-15 10:00 UTC. Default preferences (3 per day, 09:00-21:00)
// produce 11:00, 15:00 and 19:00.
var mondayMorning = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

type driverFixture struct {
	driver   *Driver
	store    *testutil.MemoryStore
	trigger  *fakeTrigger
	clock    *mutableClock
	recorder *fakeRecorder
}

func newDriverFixture(t *testing.T, poolSize int) *driverFixture {
	t.Helper()

	store := testutil.NewMemoryStore(testutil.NewContentItems(poolSize)...)
	clock := &mutableClock{now: mondayMorning}
	trigger := &fakeTrigger{}
	recorder := &fakeRecorder{}
	coordinator := delivery.NewCoordinator(store, selection.NewSelector(store), clock, nil)

	driver, err := NewDriver(DriverConfig{
		Coordinator: coordinator,
		Preferences: store,
		Trigger:     trigger,
		Clock:       clock,
		Recorder:    recorder,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	return &driverFixture{
		driver:   driver,
		store:    store,
		trigger:  trigger,
		clock:    clock,
		recorder: recorder,
	}
}

func TestNewDriver_RequiresTrigger(t *testing.T) {
	_, err := NewDriver(DriverConfig{})
	if !errors.Is(err, ErrNoTrigger) {
		t.Errorf("expected ErrNoTrigger, got %v", err)
	}
}

func TestReplan_ArmsNextInstant(t *testing.T) {
	f := newDriverFixture(t, 3)

	status, err := f.driver.Replan(context.Background(), ReasonStartup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, time.January, 15, 11, 0, 0, 0, time.UTC)
	if status.State != StatePlanned {
		t.Errorf("State: got %s, want %s", status.State, StatePlanned)
	}
	if !status.NextDelivery.Equal(want) {
		t.Errorf("NextDelivery: got %v, want %v", status.NextDelivery, want)
	}
	if status.LastOutcome != OutcomePlanned {
		t.Errorf("LastOutcome: got %s, want %s", status.LastOutcome, OutcomePlanned)
	}

	armed := f.trigger.lastArmed(t)
	if !armed.at.Equal(want) {
		t.Errorf("armed at: got %v, want %v", armed.at, want)
	}
	if armed.token == "" {
		t.Error("expected a non-empty token")
	}
}

func TestReplan_IdleOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		poolSize    int
		prefs       func(p *domain.SchedulePreferences)
		wantOutcome string
	}{
		{
			name:        "disabled",
			poolSize:    3,
			prefs:       func(p *domain.SchedulePreferences) { p.Enabled = false },
			wantOutcome: OutcomeDisabled,
		},
		{
			name:        "exhausted",
			poolSize:    0,
			prefs:       func(p *domain.SchedulePreferences) {},
			wantOutcome: OutcomeExhausted,
		},
		{
			name:     "custom mode without days",
			poolSize: 3,
			prefs: func(p *domain.SchedulePreferences) {
				p.Mode = domain.ScheduleModeCustomDays
				p.CustomDays = nil
			},
			wantOutcome: OutcomeNoNextTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newDriverFixture(t, tt.poolSize)

			prefs := domain.DefaultSchedulePreferences()
			tt.prefs(prefs)
			if err := f.store.SavePreferences(ctx, prefs); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}

			status, err := f.driver.Replan(ctx, ReasonPreferencesChanged)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status.State != StateIdle {
				t.Errorf("State: got %s, want %s", status.State, StateIdle)
			}
			if status.LastOutcome != tt.wantOutcome {
				t.Errorf("LastOutcome: got %s, want %s", status.LastOutcome, tt.wantOutcome)
			}
			if f.trigger.armCount() != 0 {
				t.Errorf("expected no arm calls, got %d", f.trigger.armCount())
			}
		})
	}
}

func TestReplan_CancelsPreviousPlan(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 3)

	if _, err := f.driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := f.trigger.lastArmed(t)

	if _, err := f.driver.Replan(ctx, ReasonPreferencesChanged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := f.trigger.lastArmed(t)

	if first.token == second.token {
		t.Error("expected a fresh token on replan")
	}
	if !slices.Contains(f.trigger.disarmed, first.token) {
		t.Errorf("expected %s to be disarmed, got %v", first.token, f.trigger.disarmed)
	}

	if err := f.driver.Fire(ctx, first.token); !errors.Is(err, ErrStaleToken) {
		t.Errorf("expected ErrStaleToken for the replaced token, got %v", err)
	}
	if f.store.DeliveryCount() != 0 {
		t.Errorf("stale fire delivered content")
	}
}

func TestReplan_DisablingDisarms(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 3)

	if _, err := f.driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	armed := f.trigger.lastArmed(t)

	prefs := domain.DefaultSchedulePreferences()
	prefs.Enabled = false
	if err := f.store.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	status, err := f.driver.Replan(ctx, ReasonPreferencesChanged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != StateIdle {
		t.Errorf("State: got %s, want idle", status.State)
	}
	if !slices.Contains(f.trigger.disarmed, armed.token) {
		t.Error("expected the armed token to be disarmed")
	}
}

func TestReplan_ArmFailure(t *testing.T) {
	f := newDriverFixture(t, 3)
	f.trigger.armErr = errors.New("queue unavailable")

	status, err := f.driver.Replan(context.Background(), ReasonStartup)
	if !errors.Is(err, f.trigger.armErr) {
		t.Fatalf("expected wrapped arm error, got %v", err)
	}
	if status.State != StateIdle {
		t.Errorf("State: got %s, want idle", status.State)
	}
	if status.LastOutcome != OutcomeArmFailed {
		t.Errorf("LastOutcome: got %s, want %s", status.LastOutcome, OutcomeArmFailed)
	}
}

func TestFire_DeliversAndReplans(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 3)

	if _, err := f.driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	armed := f.trigger.lastArmed(t)

	f.clock.Set(armed.at)
	if err := f.driver.Fire(ctx, armed.token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.store.DeliveryCount() != 1 {
		t.Errorf("deliveries: got %d, want 1", f.store.DeliveryCount())
	}

	records, err := f.store.ListDeliveries(ctx, 0)
	if err != nil {
		t.Fatalf("ListDeliveries: %v", err)
	}
	if records[0].Tag != delivery.TagScheduled {
		t.Errorf("Tag: got %s, want %s", records[0].Tag, delivery.TagScheduled)
	}

	status := f.driver.Status()
	if status.State != StatePlanned {
		t.Fatalf("State: got %s, want planned", status.State)
	}
	want := time.Date(2024, time.January, 15, 15, 0, 0, 0, time.UTC)
	if !status.NextDelivery.Equal(want) {
		t.Errorf("NextDelivery: got %v, want %v", status.NextDelivery, want)
	}

	if len(f.recorder.events) != 1 {
		t.Fatalf("recorded events: got %d, want 1", len(f.recorder.events))
	}
	event := f.recorder.events[0]
	if event.Outcome != delivery.OutcomeDelivered || event.UnseenLeft != 2 {
		t.Errorf("unexpected event: %+v", event)
	}

	if err := f.driver.Fire(ctx, armed.token); !errors.Is(err, ErrStaleToken) {
		t.Errorf("expected a second fire of the same token to be stale, got %v", err)
	}
}

func TestFire_LastItemLeavesIdle(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 1)

	if _, err := f.driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	armed := f.trigger.lastArmed(t)

	if err := f.driver.Fire(ctx, armed.token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := f.driver.Status()
	if status.State != StateIdle {
		t.Errorf("State: got %s, want idle", status.State)
	}
	if status.LastOutcome != OutcomeExhausted {
		t.Errorf("LastOutcome: got %s, want %s", status.LastOutcome, OutcomeExhausted)
	}
	if f.trigger.armCount() != 1 {
		t.Errorf("arm calls: got %d, want 1", f.trigger.armCount())
	}
}

func TestFire_StorageErrorKeepsToken(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 2)

	if _, err := f.driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	armed := f.trigger.lastArmed(t)

	f.store.InsertErr = errors.New("write timeout")

	err := f.driver.Fire(ctx, armed.token)
	var storageErr *delivery.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *delivery.StorageError, got %v", err)
	}

	status := f.driver.Status()
	if status.State != StatePlanned || !status.NextDelivery.Equal(armed.at) {
		t.Errorf("expected the plan to be kept, got %+v", status)
	}

	f.store.InsertErr = nil

	if err := f.driver.Fire(ctx, armed.token); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if f.store.DeliveryCount() != 1 {
		t.Errorf("deliveries: got %d, want 1", f.store.DeliveryCount())
	}
}

// disablingStore saves disabled preferences and replans from inside
// InsertDelivery, then fails the insert.
type disablingStore struct {
	*testutil.MemoryStore
	driver *Driver
}

func (s *disablingStore) InsertDelivery(ctx context.Context, _ *domain.DeliveryRecord) error {
	prefs := domain.DefaultSchedulePreferences()
	prefs.Enabled = false
	if err := s.SavePreferences(ctx, prefs); err != nil {
		return err
	}
	if _, err := s.driver.Replan(ctx, ReasonPreferencesChanged); err != nil {
		return err
	}
	return errors.New("write timeout")
}

func TestFire_StorageErrorAfterDisableStaysIdle(t *testing.T) {
	ctx := context.Background()

	store := &disablingStore{MemoryStore: testutil.NewMemoryStore(testutil.NewContentItems(3)...)}
	clock := &mutableClock{now: mondayMorning}
	trigger := &fakeTrigger{}
	coordinator := delivery.NewCoordinator(store, selection.NewSelector(store), clock, nil)

	driver, err := NewDriver(DriverConfig{
		Coordinator: coordinator,
		Preferences: store,
		Trigger:     trigger,
		Clock:       clock,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	store.driver = driver

	if _, err := driver.Replan(ctx, ReasonStartup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	armed := trigger.lastArmed(t)

	if err := driver.Fire(ctx, armed.token); !errors.Is(err, ErrStaleToken) {
		t.Fatalf("expected ErrStaleToken, got %v", err)
	}

	status := driver.Status()
	if status.State != StateIdle {
		t.Errorf("State: got %s, want idle", status.State)
	}
	if status.LastOutcome != OutcomeDisabled {
		t.Errorf("LastOutcome: got %s, want %s", status.LastOutcome, OutcomeDisabled)
	}

	if err := driver.Fire(ctx, armed.token); !errors.Is(err, ErrStaleToken) {
		t.Errorf("expected retry of the old token to be stale, got %v", err)
	}
	if store.DeliveryCount() != 0 {
		t.Errorf("deliveries: got %d, want 0", store.DeliveryCount())
	}
	if trigger.armCount() != 1 {
		t.Errorf("arm calls: got %d, want 1", trigger.armCount())
	}
}

func TestFire_WhileIdle(t *testing.T) {
	f := newDriverFixture(t, 3)

	if err := f.driver.Fire(context.Background(), "unknown"); !errors.Is(err, ErrStaleToken) {
		t.Errorf("expected ErrStaleToken, got %v", err)
	}
}

func TestDeliverNow(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 2)

	result, err := f.driver.DeliverNow(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Exhausted {
		t.Fatal("expected a delivery")
	}
	if result.Record.Tag != delivery.TagManual {
		t.Errorf("Tag: got %s, want %s", result.Record.Tag, delivery.TagManual)
	}

	status := f.driver.Status()
	if status.State != StatePlanned || status.LastReason != ReasonManual {
		t.Errorf("expected a manual replan, got %+v", status)
	}

	if _, err := f.driver.DeliverNow(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err = f.driver.DeliverNow(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Exhausted {
		t.Error("expected exhausted on the third manual delivery")
	}
	if f.driver.Status().State != StateIdle {
		t.Error("expected idle once exhausted")
	}
}

func TestResetHistory_RearmsAfterExhaustion(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture(t, 1)

	if _, err := f.driver.DeliverNow(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.driver.Status().State != StateIdle {
		t.Fatal("expected idle once exhausted")
	}

	status, err := f.driver.ResetHistory(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != StatePlanned {
		t.Errorf("State: got %s, want planned", status.State)
	}
	if status.LastReason != ReasonHistoryReset {
		t.Errorf("LastReason: got %s, want %s", status.LastReason, ReasonHistoryReset)
	}
	if f.store.DeliveryCount() != 0 {
		t.Errorf("deliveries after reset: got %d, want 0", f.store.DeliveryCount())
	}
}

func TestReplan_PreferencesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := testutil.NewMemoryStore(testutil.NewContentItems(1)...)
	prefsRepo := domain.NewMockPreferencesRepository(ctrl)
	trigger := NewMockTrigger(ctrl)
	clock := &mutableClock{now: mondayMorning}

	prefsErr := errors.New("redis: connection refused")
	prefsRepo.EXPECT().GetPreferences(gomock.Any()).Return(nil, prefsErr)

	driver, err := NewDriver(DriverConfig{
		Coordinator: delivery.NewCoordinator(store, selection.NewSelector(store), clock, nil),
		Preferences: prefsRepo,
		Trigger:     trigger,
		Clock:       clock,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	status, err := driver.Replan(context.Background(), ReasonDaily)
	if !errors.Is(err, prefsErr) {
		t.Fatalf("expected wrapped preferences error, got %v", err)
	}
	if status.State != StateIdle || status.LastOutcome != OutcomeStoreFailed {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestRun_StartupReplanAndStop(t *testing.T) {
	f := newDriverFixture(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.driver.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for f.trigger.armCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("startup replan did not arm the trigger")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if f.driver.Status().LastReason != ReasonStartup {
		t.Errorf("LastReason: got %s, want %s", f.driver.Status().LastReason, ReasonStartup)
	}
}
