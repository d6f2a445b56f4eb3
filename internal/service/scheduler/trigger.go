package scheduler

import (
	"context"
	"time"
)

//go:generate mockgen -source=trigger.go -destination=trigger_mock.go -package=scheduler

// Trigger arranges a single future callback identified by token.
// Implementations call Driver.Fire (directly or through the HTTP fire
// endpoint) with the same token once at is reached.
type Trigger interface {
	Arm(ctx context.Context, at time.Time, token string) error
	// Disarm cancels a pending callback. Unknown or already-fired tokens
	// are not an error.
	Disarm(ctx context.Context, token string) error
}

// FireFunc is the callback a Trigger invokes when an armed instant is reached.
type FireFunc func(ctx context.Context, token string) error
