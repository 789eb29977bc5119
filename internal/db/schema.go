package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema es idempotente: se ejecuta en cada arranque cuando DB_AUTO_MIGRATE esta activo.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                    UUID PRIMARY KEY,
		email                 TEXT NOT NULL UNIQUE,
		display_name          TEXT NOT NULL DEFAULT '',
		auth_provider         TEXT,
		auth_subject          TEXT,
		password_hash         TEXT,
		email_verified_at     TIMESTAMPTZ,
		otp_code_hash         TEXT,
		otp_expires_at        TIMESTAMPTZ,
		personality_completed BOOLEAN NOT NULL DEFAULT FALSE,
		personality_type      TEXT,
		personality_data      JSONB,
		twin_assistant_id     TEXT,
		twin_thread_id        TEXT,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_auth_idx ON users (auth_provider, auth_subject)
		WHERE auth_provider IS NOT NULL AND auth_subject IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS quiz_answers (
		id            UUID PRIMARY KEY,
		session_id    TEXT NOT NULL,
		question_num  INTEGER NOT NULL,
		question_id   TEXT NOT NULL,
		question_text TEXT NOT NULL,
		answer        SMALLINT NOT NULL CHECK (answer BETWEEN 1 AND 5),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (session_id, question_num)
	)`,
	`CREATE TABLE IF NOT EXISTS diary_entries (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		entry_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS diary_entries_user_idx ON diary_entries (user_id, created_at DESC)`,
}

// EnsureSchema crea las tablas que usan los repositorios.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
