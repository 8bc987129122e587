package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order. Every collection table
// keeps a position column so a loaded snapshot preserves insertion order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Singleton row describing the saved workspace
			CREATE TABLE IF NOT EXISTS workspace (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				current_user_json TEXT NOT NULL,
				password_hash TEXT NOT NULL DEFAULT '',
				saved_at DATETIME NOT NULL
			);

			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				role TEXT,
				phone TEXT,
				university TEXT,
				avatar TEXT,
				online INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS projects (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				progress INTEGER NOT NULL DEFAULT 0,
				deadline TEXT,
				team_json TEXT NOT NULL DEFAULT '[]',
				status TEXT NOT NULL,
				created_at TEXT
			);

			CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				project_id TEXT,
				assignee_id TEXT,
				priority TEXT NOT NULL,
				status TEXT NOT NULL,
				due_date TEXT,
				subtasks_json TEXT NOT NULL DEFAULT '[]',
				comments_json TEXT NOT NULL DEFAULT '[]',
				attachments_json TEXT NOT NULL DEFAULT '[]'
			);

			CREATE TABLE IF NOT EXISTS files (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				name TEXT NOT NULL,
				type TEXT NOT NULL,
				size TEXT,
				uploader_id TEXT,
				upload_date TEXT,
				project_id TEXT,
				version INTEGER NOT NULL DEFAULT 1,
				url TEXT
			);

			CREATE TABLE IF NOT EXISTS milestones (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				title TEXT NOT NULL,
				week INTEGER NOT NULL,
				status TEXT NOT NULL,
				project_id TEXT
			);

			CREATE TABLE IF NOT EXISTS messages (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				user_id TEXT NOT NULL,
				text TEXT NOT NULL,
				timestamp TEXT,
				attachments_json TEXT NOT NULL DEFAULT '[]',
				reactions_json TEXT NOT NULL DEFAULT '[]',
				thread_id TEXT,
				pinned INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				type TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				timestamp TEXT,
				read INTEGER NOT NULL DEFAULT 0,
				link TEXT
			);
		`,
	},
	{
		Version: 2,
		Name:    "lookup_indexes",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
			CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);
			CREATE INDEX IF NOT EXISTS idx_files_project ON files(project_id);
			CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", m.Version, err)
		}

		_, err = tx.Exec(m.Up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now().UTC(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
