package config

import "errors"

var (
	ErrRedisAddrMissing      = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB        = errors.New("REDIS_DB must be a valid integer")
	ErrUnknownStoreBackend   = errors.New("STORE_BACKEND must be redis or sqlite")
	ErrSQLitePathMissing     = errors.New("SQLITE_PATH is required for the sqlite backend")
	ErrInvalidTimezone       = errors.New("SCHEDULE_TIMEZONE must be an IANA time zone name")
	ErrUnknownTriggerBackend = errors.New("TRIGGER_BACKEND must be timer or taskqueue")
	ErrInvalidPositiveInt    = errors.New("value must be a positive integer")
)
