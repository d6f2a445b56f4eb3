package scheduler

import "time"

type State string

const (
	StateIdle    State = "idle"
	StatePlanned State = "planned"
)

func (s State) String() string {
	return string(s)
}

// Plan outcomes, also used as metric attributes.
const (
	OutcomePlanned     = "planned"
	OutcomeDisabled    = "disabled"
	OutcomeExhausted   = "exhausted"
	OutcomeNoNextTime  = "no_next_time"
	OutcomeArmFailed   = "arm_failed"
	OutcomeStoreFailed = "store_failed"
)

// Replan reasons.
const (
	ReasonStartup            = "startup"
	ReasonDaily              = "daily"
	ReasonPreferencesChanged = "preferences_changed"
	ReasonDelivered          = "delivered"
	ReasonManual             = "manual"
	ReasonHistoryReset       = "history_reset"
)

// Status is a point-in-time snapshot of the driver.
type Status struct {
	State        State     `json:"state"`
	NextDelivery time.Time `json:"next_delivery,omitzero"`
	LastReason   string    `json:"last_reason,omitempty"`
	LastOutcome  string    `json:"last_outcome,omitempty"`
	PlannedAt    time.Time `json:"planned_at,omitzero"`
}
