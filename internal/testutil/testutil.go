// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/churchnav/internal/store"
)

// TestLogger creates a logger that only prints warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// DiscardLogger creates a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a migrated database in a temp file. It is closed when the
// test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()
	return TestDBWithDriver(t, store.DriverModernc)
}

// TestDBWithDriver is TestDB for a specific driver.
func TestDBWithDriver(t *testing.T, driver string) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "churchnav-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	cfg := store.DefaultDBConfig()
	cfg.Driver = driver
	db, err := store.NewDBWithConfig(dbPath, cfg)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestStore returns a Store over a fresh TestDB.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewStore(TestDB(t))
}
