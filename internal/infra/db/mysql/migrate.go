package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
  id            CHAR(36) NOT NULL PRIMARY KEY,
  user_id       VARCHAR(191) NOT NULL,
  github_url    VARCHAR(2048) NOT NULL,
  job_role      VARCHAR(191) NOT NULL,
  skills        JSON NOT NULL,
  projects      JSON NOT NULL,
  analysis_data JSON NOT NULL,
  created_at    DATETIME(6) NOT NULL,
  INDEX idx_analyses_user_created (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	`CREATE TABLE IF NOT EXISTS analysis_failures (
  id           BIGINT AUTO_INCREMENT PRIMARY KEY,
  user_id      VARCHAR(191) NOT NULL,
  job_role     VARCHAR(191) NOT NULL,
  phase        VARCHAR(32) NOT NULL,
  message      TEXT NOT NULL,
  details_json JSON NOT NULL,
  created_at   DATETIME(6) NOT NULL,
  INDEX idx_failures_user (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
