package domain

import "errors"

var (
	ErrContentNotFound            = errors.New("content not found")
	ErrDeliveryNotFound           = errors.New("delivery record not found")
	ErrAlreadyDelivered           = errors.New("content already delivered")
	ErrInvalidNotificationsPerDay = errors.New("notifications per day out of range")
	ErrUnknownScheduleMode        = errors.New("unknown schedule mode")
	ErrInvalidWeekday             = errors.New("invalid weekday")
	ErrInvalidTimeOfDay           = errors.New("invalid time of day")
	ErrInvalidDeliveryStatus      = errors.New("invalid delivery status")
)
