package timewindow

import "errors"

var (
	ErrInvalidRange = errors.New("time window start must be before end")
	ErrInvalidCount = errors.New("notification count must be positive")
)
