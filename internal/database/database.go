// Package database opens the sandbox's Postgres connection pool.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingInterval = time.Second

// New opens a pool and waits until Postgres answers or ctx is done, so the
// sandbox can start alongside its database container.
func New(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}

		slog.Warn("database not ready", "error", err)

		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		case <-time.After(pingInterval):
		}
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
