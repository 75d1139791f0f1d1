package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with the run history queries
type DB struct {
	*sql.DB
	now func() time.Time
}

// New opens (creating if needed) the history database at path and
// ensures the schema exists.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}
	// One writer at a time keeps sqlite from returning SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("database setup failed: %w", err)
		}
	}

	db := &DB{DB: sqlDB, now: time.Now}
	if err := db.InitSchema(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS report_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        started_at INTEGER NOT NULL, -- unix milliseconds
        finished_at INTEGER,
        server TEXT NOT NULL,
        group_name TEXT NOT NULL,
        period_days INTEGER NOT NULL,
        host_count INTEGER NOT NULL DEFAULT 0,
        output_path TEXT,
        status TEXT NOT NULL,
        error_message TEXT
    );

    CREATE INDEX IF NOT EXISTS idx_runs_started ON report_runs(started_at);

    CREATE TABLE IF NOT EXISTS run_hosts (
        run_id INTEGER NOT NULL,
        position INTEGER NOT NULL,
        host TEXT NOT NULL,
        ip TEXT,
        availability REAL NOT NULL,
        downtime_seconds INTEGER NOT NULL,
        PRIMARY KEY (run_id, position)
    );
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}

func toMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromMillis(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64)
}
