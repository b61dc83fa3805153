package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Portable DDL: TEXT ids and RFC3339 timestamps so the same statements run
// on both SQLite and Postgres.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS extract_job (
		id         TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		status     TEXT NOT NULL,
		method     TEXT NOT NULL DEFAULT '',
		pages      INTEGER NOT NULL DEFAULT 0,
		error_msg  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS statement (
		id         TEXT PRIMARY KEY,
		job_id     TEXT NOT NULL,
		filename   TEXT NOT NULL,
		source     TEXT NOT NULL,
		raw_output TEXT NOT NULL DEFAULT '',
		pages      INTEGER NOT NULL DEFAULT 0,
		ocr_pages  INTEGER NOT NULL DEFAULT 0,
		method     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS statement_summary (
		statement_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		value        TEXT NOT NULL,
		PRIMARY KEY (statement_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS statement_tx (
		statement_id TEXT NOT NULL,
		position     INTEGER NOT NULL,
		tx_date      TEXT NOT NULL,
		description  TEXT NOT NULL,
		amount       TEXT NOT NULL,
		tx_type      TEXT NOT NULL,
		PRIMARY KEY (statement_id, position)
	)`,
}

// EnsureSchema creates the tables on first run.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
