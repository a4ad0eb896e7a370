package store

import (
	"database/sql"
	"testing"
	"time"

	"classtrack/internal/config"
)

func TestTunePoolUsesConfig(t *testing.T) {
	// sql.Open does not dial, so pool tuning is observable without a
	// running database.
	db, err := sql.Open("pgx", "postgres://localhost:5432/unused")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := config.App{
		DBMaxOpenConns:    3,
		DBMaxIdleConns:    2,
		DBConnMaxLifetime: time.Minute,
	}
	tunePool(db, cfg)

	if got := db.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("max open conns = %d, want 3", got)
	}
}

func TestLoadDefaultsPool(t *testing.T) {
	cfg := config.Load()
	if cfg.DBMaxOpenConns <= 0 || cfg.DBMaxIdleConns <= 0 {
		t.Fatalf("pool defaults not set: %+v", cfg)
	}
	if cfg.DBPingTimeout <= 0 {
		t.Fatalf("ping timeout default not set: %v", cfg.DBPingTimeout)
	}
}
