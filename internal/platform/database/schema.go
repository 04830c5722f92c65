package database

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the five tables on startup if they do not exist yet.
//
// There is deliberately no ON DELETE CASCADE anywhere: referential cleanup is
// performed explicitly, in order, by the repositories so the deletion sequence
// stays visible in code. UNIQUE(user_id) on user_sessions is what guarantees
// the single-session-per-user policy under concurrent logins.
func EnsureSchema(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			hashed_password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress >= 0 AND progress <= 100),
			assigned_user_id TEXT,
			created_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS card_details (
			id TEXT PRIMARY KEY,
			card_id TEXT NOT NULL,
			field_name TEXT NOT NULL,
			field_value TEXT NOT NULL DEFAULT '',
			file_url TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			id TEXT PRIMARY KEY,
			card_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_url TEXT NOT NULL,
			file_size BIGINT,
			mime_type TEXT,
			uploaded_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_assigned_user ON cards (assigned_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_card_details_card ON card_details (card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_files_card ON files (card_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
