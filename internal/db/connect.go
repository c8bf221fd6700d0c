package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:psytest.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/psytest?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS test_sessions (
  id TEXT PRIMARY KEY,
  test_slug TEXT NOT NULL,
  session_token TEXT NOT NULL UNIQUE,
  partner_token TEXT NOT NULL DEFAULT '',
  user_email TEXT NOT NULL DEFAULT '',
  user_name TEXT NOT NULL DEFAULT '',
  demographics_json TEXT NOT NULL DEFAULT '{}',
  answers_json TEXT NOT NULL DEFAULT '{}',
  results_json TEXT NOT NULL DEFAULT '',
  narrative TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,              -- partial | completed | deleted
  created_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL,
  completed_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sessions_partner ON test_sessions (test_slug, partner_token, status);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON test_sessions (created_at);

CREATE TABLE IF NOT EXISTS pair_comparisons (
  id TEXT PRIMARY KEY,
  test_slug TEXT NOT NULL,
  session_1_id TEXT NOT NULL REFERENCES test_sessions(id),
  session_2_id TEXT NOT NULL REFERENCES test_sessions(id),
  comparison_json TEXT NOT NULL DEFAULT '',
  generated_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  session_id TEXT NOT NULL,
  action TEXT NOT NULL,                      -- e.g., session_started, test_completed
  details_json TEXT NOT NULL DEFAULT '{}',
  created_at INTEGER NOT NULL
);

`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS test_sessions (
  id TEXT PRIMARY KEY,
  test_slug TEXT NOT NULL,
  session_token TEXT NOT NULL UNIQUE,
  partner_token TEXT NOT NULL DEFAULT '',
  user_email TEXT NOT NULL DEFAULT '',
  user_name TEXT NOT NULL DEFAULT '',
  demographics_json TEXT NOT NULL DEFAULT '{}',
  answers_json TEXT NOT NULL DEFAULT '{}',
  results_json TEXT NOT NULL DEFAULT '',
  narrative TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  expires_at BIGINT NOT NULL,
  completed_at BIGINT
);
CREATE INDEX IF NOT EXISTS idx_sessions_partner ON test_sessions (test_slug, partner_token, status);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON test_sessions (created_at);

CREATE TABLE IF NOT EXISTS pair_comparisons (
  id TEXT PRIMARY KEY,
  test_slug TEXT NOT NULL,
  session_1_id TEXT NOT NULL REFERENCES test_sessions(id),
  session_2_id TEXT NOT NULL REFERENCES test_sessions(id),
  comparison_json TEXT NOT NULL DEFAULT '',
  generated_at BIGINT NOT NULL,
  expires_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
  seq BIGSERIAL PRIMARY KEY,
  session_id TEXT NOT NULL,
  action TEXT NOT NULL,
  details_json TEXT NOT NULL DEFAULT '{}',
  created_at BIGINT NOT NULL
);

`
