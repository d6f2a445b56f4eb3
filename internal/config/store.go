package config

import "os"

const (
	storeBackendEnv = "STORE_BACKEND"
	sqlitePathEnv   = "SQLITE_PATH"

	defaultSQLitePath = "motivation.db"
)

type StoreBackend string

const (
	StoreBackendRedis  StoreBackend = "redis"
	StoreBackendSQLite StoreBackend = "sqlite"
)

type StoreConfig struct {
	Backend    StoreBackend
	SQLitePath string
}

func LoadStoreConfig() (*StoreConfig, error) {
	backend := StoreBackend(os.Getenv(storeBackendEnv))
	switch backend {
	case "":
		backend = StoreBackendRedis
	case StoreBackendRedis, StoreBackendSQLite:
	default:
		return nil, ErrUnknownStoreBackend
	}

	path := os.Getenv(sqlitePathEnv)
	if path == "" {
		path = defaultSQLitePath
	}

	return &StoreConfig{
		Backend:    backend,
		SQLitePath: path,
	}, nil
}

func (c *StoreConfig) Validate() error {
	if c.Backend == StoreBackendSQLite && c.SQLitePath == "" {
		return ErrSQLitePathMissing
	}
	return nil
}
