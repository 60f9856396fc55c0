// Package db persists analysis runs, grain-size records and mask scores in
// SQLite. The schema is managed by embedded golang-migrate migrations.
package db

import (
	"database/sql"
	"fmt"

	"github.com/banshee-data/mlography/internal/monitoring"
	"github.com/banshee-data/mlography/internal/timeutil"
	_ "modernc.org/sqlite"
)

var logf = monitoring.Prefixed("db")

// DB wraps a SQLite handle with the run and record stores.
type DB struct {
	*sql.DB
	clock timeutil.Clock
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the database at path and migrates it to the
// latest schema version.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// foreign_keys is per connection.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{DB: sqlDB, clock: timeutil.RealClock{}}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	v, _, err := db.MigrateVersion()
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	logf("opened %s at schema version %d", path, v)
	return db, nil
}

// SetClock replaces the clock used to stamp runs.
func (db *DB) SetClock(c timeutil.Clock) {
	db.clock = c
}
