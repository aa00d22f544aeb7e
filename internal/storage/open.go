package storage

import (
	"fmt"
	"log/slog"
)

const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Open builds the KV backend named by driver.
func Open(driver, path string, logger *slog.Logger) (KV, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverBadger:
		return OpenBadger(BadgerConfig{Path: path, SyncWrites: true, Logger: logger})
	case DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
