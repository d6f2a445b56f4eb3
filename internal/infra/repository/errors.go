package repository

import "errors"

var (
	ErrInvalidContentData     = errors.New("invalid content data")
	ErrInvalidDeliveryData    = errors.New("invalid delivery data")
	ErrInvalidPreferencesData = errors.New("invalid preferences data")
)
