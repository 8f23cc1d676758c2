package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent, so Migrate runs
// on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS charts (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS rows (
		id          TEXT PRIMARY KEY,
		chart_id    TEXT NOT NULL REFERENCES charts(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES rows(id) ON DELETE CASCADE,
		title       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_rows_chart ON rows(chart_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rows_parent ON rows(parent_id)`,

	`CREATE TABLE IF NOT EXISTS timelines (
		id              TEXT PRIMARY KEY,
		row_id          TEXT NOT NULL REFERENCES rows(id) ON DELETE CASCADE,
		start_at        TEXT NOT NULL,
		end_at          TEXT NOT NULL,
		label           TEXT NOT NULL DEFAULT '',
		icon            TEXT NOT NULL DEFAULT '',
		color           TEXT NOT NULL DEFAULT '',
		disable_move    INTEGER NOT NULL DEFAULT 0,
		disable_stretch INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_timelines_row ON timelines(row_id)`,

	`CREATE TABLE IF NOT EXISTS time_points (
		id          TEXT PRIMARY KEY,
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		at          TEXT NOT NULL,
		icon        TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_points_timeline ON time_points(timeline_id)`,

	// Padding rows are normally synthesized by the engine; persisted ones are
	// kept for charts that reserve blank lines.
	`ALTER TABLE rows ADD COLUMN is_empty INTEGER NOT NULL DEFAULT 0`,
}
