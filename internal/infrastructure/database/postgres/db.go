package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Options configures the connection pool shared by every request.
type Options struct {
	// Driver is a registered database/sql driver: "pgx" or "postgres" (lib/pq).
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open creates the pool and pings it once so a bad DSN fails at startup.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database url is not set")
	}

	db, err := sql.Open(opts.Driver, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
