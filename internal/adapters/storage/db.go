package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width UTC so lexical order in SQL equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reads a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	formats := []string{timeLayout, time.RFC3339Nano, time.RFC3339}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// NullString maps an empty string to SQL NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Open opens the SQLite database with WAL, busy timeout and foreign keys enabled.
// PRE: path is a writable file path
// POST: Returns a pinged connection pool
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables and indexes exist
func InitDB(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'player')),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sport (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_sport_created_by ON sport(created_by, name);

	CREATE TABLE IF NOT EXISTS play_session (
		id TEXT PRIMARY KEY,
		sport_id TEXT NOT NULL,
		created_by TEXT NOT NULL,
		team_a TEXT NOT NULL DEFAULT '',
		team_b TEXT NOT NULL DEFAULT '',
		looking_for INTEGER NOT NULL DEFAULT 0 CHECK (looking_for >= 0),
		start_time TEXT NOT NULL,
		venue TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled', 'cancelled', 'completed')),
		cancel_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (sport_id) REFERENCES sport(id),
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_play_session_start ON play_session(status, start_time);
	CREATE INDEX IF NOT EXISTS idx_play_session_created_by ON play_session(created_by, start_time);
	CREATE INDEX IF NOT EXISTS idx_play_session_created_at ON play_session(created_at);

	CREATE TABLE IF NOT EXISTS play_session_participant (
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (session_id, user_id),
		FOREIGN KEY (session_id) REFERENCES play_session(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_participant_user ON play_session_participant(user_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
