package config

import "os"

const (
	triggerBackendEnv               = "TRIGGER_BACKEND"
	manualDeliveryRatePerMinuteEnv  = "MANUAL_DELIVERY_RATE_PER_MINUTE"
	defaultManualDeliveryRatePerMin = 6
)

type TriggerBackend string

const (
	TriggerBackendTimer     TriggerBackend = "timer"
	TriggerBackendTaskQueue TriggerBackend = "taskqueue"
)

type DeliveryConfig struct {
	Trigger                     TriggerBackend
	ManualDeliveryRatePerMinute int
}

func LoadDeliveryConfig() (*DeliveryConfig, error) {
	trigger := TriggerBackend(os.Getenv(triggerBackendEnv))
	switch trigger {
	case "":
		trigger = TriggerBackendTimer
	case TriggerBackendTimer, TriggerBackendTaskQueue:
	default:
		return nil, ErrUnknownTriggerBackend
	}

	rate, err := positiveIntEnv(manualDeliveryRatePerMinuteEnv, defaultManualDeliveryRatePerMin)
	if err != nil {
		return nil, err
	}

	return &DeliveryConfig{
		Trigger:                     trigger,
		ManualDeliveryRatePerMinute: rate,
	}, nil
}
