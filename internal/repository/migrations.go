package repository

import "fmt"

var schemas = map[string]string{
	DriverPostgres: `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		access_token TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS goals (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		target_amount NUMERIC(14, 2) NOT NULL,
		target_date TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,

	DriverSQLite: `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		access_token TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS goals (
		user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		target_amount TEXT NOT NULL,
		target_date TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`,
}

// Migrate creates the schema if it does not exist
func (r *Repository) Migrate() error {
	schema, ok := schemas[r.driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", r.driver)
	}
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
