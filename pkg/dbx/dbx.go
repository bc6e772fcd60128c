// Package dbx opens database connections for the agent.
//
// Drivers are registered by the importing binary (duckdb, pgx or clickhouse);
// this package only deals in database/sql handles.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultPingMaxElapsed = 30 * time.Second
	defaultMaxOpenConns   = 8
)

// Open opens a *sql.DB for the given driver and DSN and waits for it to
// become reachable, retrying the ping with exponential backoff. An empty DSN
// with the duckdb driver opens an in-memory database.
func Open(ctx context.Context, log *slog.Logger, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = defaultPingMaxElapsed

	attempt := 0
	ping := func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			if log != nil {
				log.Warn("dbx: database not reachable yet", "driver", driver, "attempt", attempt, "error", err)
			}
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if log != nil {
		log.Info("dbx: database connected", "driver", driver)
	}
	return db, nil
}
