package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"classtrack/internal/config"
)

// DB is the Postgres handle shared by the roster and attendance
// repositories. pgx runs under database/sql so the repositories stay
// on plain *sql.DB.
type DB struct {
	Client *sql.DB
}

// NewDB opens a Postgres pool sized from configuration and verifies
// connectivity with a bounded ping.
func NewDB(cfg config.App) (*DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	tunePool(db, cfg)

	timeout := cfg.DBPingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{Client: db}, nil
}

func tunePool(db *sql.DB, cfg config.App) {
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
}

// Close closes the pool.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
