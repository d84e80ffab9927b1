package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
  id            UUID PRIMARY KEY,
  user_id       TEXT NOT NULL,
  github_url    TEXT NOT NULL,
  job_role      TEXT NOT NULL,
  skills        TEXT[] NOT NULL,
  projects      JSONB NOT NULL DEFAULT '[]',
  analysis_data JSONB NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_user_created ON analyses (user_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS analysis_failures (
  id           BIGSERIAL PRIMARY KEY,
  user_id      TEXT NOT NULL,
  job_role     TEXT NOT NULL,
  phase        TEXT NOT NULL,
  message      TEXT NOT NULL,
  details_json JSONB NOT NULL DEFAULT '{}',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
}

// Migrate creates the tables when missing. Safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
