// Package store opens the database pool backing the contacts table.
// Driver registration comes with the datastores package, which links both
// the SQLite and PostgreSQL drivers.
package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
)

type Options struct {
	Driver string `doc:"database driver, sqlite or postgres" default:"sqlite"`
	DSN    string `doc:"database connection string"          default:"contacts.db"`
}

// Open connects the pool and verifies the database is reachable.
func Open(ctx context.Context, options *Options) (*sqlx.DB, error) {
	db, err := sqlx.Open(options.Driver, options.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", options.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", options.Driver, err)
	}
	return db, nil
}

// Readiness reports 503 while the database cannot be reached.
func Readiness(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		}
	}
}
