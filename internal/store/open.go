package store

import (
	"context"
	"fmt"
)

// Backend is a KV that owns a connection.
type Backend interface {
	KV
	Close() error
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenBackend opens the configured driver. An empty driver means sqlite.
func OpenBackend(ctx context.Context, driver, sqlitePath, postgresDSN string) (Backend, error) {
	switch driver {
	case "", DriverSQLite:
		db, err := Open(sqlitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverPostgres:
		db, err := OpenPostgres(ctx, postgresDSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
