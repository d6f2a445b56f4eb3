package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/metrics"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/observability/tracing"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/selection"
)

// Coordinator serializes selection and recording so that a content item is
// delivered at most once. One Coordinator must exist per process; its lock
// also guards history resets.
type Coordinator struct {
	mu sync.Mutex

	repo            domain.ContentRepository
	selector        *selection.Selector
	clock           domain.Clock
	deliveryMetrics *metrics.DeliveryMetrics
}

func NewCoordinator(
	repo domain.ContentRepository,
	selector *selection.Selector,
	clock domain.Clock,
	deliveryMetrics *metrics.DeliveryMetrics,
) *Coordinator {
	return &Coordinator{
		repo:            repo,
		selector:        selector,
		clock:           clock,
		deliveryMetrics: deliveryMetrics,
	}
}

// SelectAndDeliver picks an unseen item and persists its delivery record
// while holding the coordinator lock. Callers block until the lock is free.
// Once the lock is held the operation runs to completion even if ctx is
// cancelled. Store failures are returned as *StorageError.
func (c *Coordinator) SelectAndDeliver(ctx context.Context, preferredThemes []string, tag string) (*Result, error) {
	ctx, span := tracing.StartSelectAndDeliverSpan(ctx, tag, len(preferredThemes))
	defer span.End()

	waitStart := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	lockedAt := time.Now()
	if c.deliveryMetrics != nil {
		c.deliveryMetrics.RecordLockWait(ctx, lockedAt.Sub(waitStart))
		defer func() {
			c.deliveryMetrics.RecordSelectAndDeliverDuration(ctx, tag, time.Since(lockedAt))
		}()
	}

	runCtx := context.WithoutCancel(ctx)

	item, ok, err := c.selector.SelectNext(runCtx, preferredThemes)
	if err != nil {
		storageErr := &StorageError{Op: "select", Err: err}
		c.recordOutcome(ctx, tag, OutcomeStorageError)
		tracing.RecordSelectAndDeliverResult(span, "", false, storageErr)
		slog.ErrorContext(ctx, "failed to compute unseen pool",
			slog.String("tag", tag),
			slog.String("error", err.Error()),
		)
		return nil, storageErr
	}

	if !ok {
		c.recordOutcome(ctx, tag, OutcomeExhausted)
		tracing.RecordSelectAndDeliverResult(span, "", true, nil)
		slog.InfoContext(ctx, "content pool exhausted",
			slog.String("tag", tag),
		)
		return &Result{Exhausted: true}, nil
	}

	record := domain.NewDeliveryRecord(item.ID, c.clock.Now(), tag)
	if err := c.repo.InsertDelivery(runCtx, record); err != nil {
		storageErr := &StorageError{Op: "record", Err: err}
		c.recordOutcome(ctx, tag, OutcomeStorageError)
		tracing.RecordSelectAndDeliverResult(span, item.ID, false, storageErr)
		slog.ErrorContext(ctx, "failed to record delivery",
			slog.String("content_id", item.ID),
			slog.String("tag", tag),
			slog.String("error", err.Error()),
		)
		return nil, storageErr
	}

	c.recordOutcome(ctx, tag, OutcomeDelivered)
	tracing.RecordSelectAndDeliverResult(span, item.ID, false, nil)
	slog.InfoContext(ctx, "content delivered",
		slog.String("content_id", item.ID),
		slog.String("delivery_id", record.ID),
		slog.String("date_bucket", record.DateBucket),
		slog.String("tag", tag),
	)

	return &Result{Item: item, Record: record}, nil
}

// IsExhausted reports whether no unseen content remains. It takes the
// coordinator lock so that it never observes a half-finished delivery.
func (c *Coordinator) IsExhausted(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exhausted, err := c.selector.IsExhausted(ctx)
	if err != nil {
		return false, &StorageError{Op: "is_exhausted", Err: err}
	}
	return exhausted, nil
}

// UnseenCount returns the size of the unseen pool.
func (c *Coordinator) UnseenCount(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pool, err := c.selector.UnseenPool(ctx)
	if err != nil {
		return 0, &StorageError{Op: "unseen_count", Err: err}
	}
	if c.deliveryMetrics != nil {
		c.deliveryMetrics.RecordUnseenPoolSize(ctx, len(pool))
	}
	return len(pool), nil
}

// ResetHistory deletes every delivery record, restoring the full pool.
func (c *Coordinator) ResetHistory(ctx context.Context) error {
	ctx, span := tracing.StartResetHistorySpan(ctx)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.DeleteAllDeliveries(context.WithoutCancel(ctx)); err != nil {
		storageErr := &StorageError{Op: "reset", Err: err}
		tracing.RecordError(span, storageErr)
		slog.ErrorContext(ctx, "failed to reset delivery history",
			slog.String("error", err.Error()),
		)
		return storageErr
	}

	if c.deliveryMetrics != nil {
		c.deliveryMetrics.RecordHistoryReset(ctx)
	}
	tracing.RecordError(span, nil)
	slog.InfoContext(ctx, "delivery history reset")

	return nil
}

func (c *Coordinator) recordOutcome(ctx context.Context, tag, outcome string) {
	if c.deliveryMetrics != nil {
		c.deliveryMetrics.RecordDelivery(ctx, tag, outcome)
	}
}
