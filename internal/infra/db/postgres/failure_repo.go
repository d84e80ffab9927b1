package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/profilepilot/internal/domain/failures"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures
  (user_id, job_role, phase, message, details_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(f.UserID), stringOrDash(f.JobRole), stringOrDash(string(f.Phase)),
		stringOrDash(f.Message), validJSON(f.Details), created,
	).Scan(&f.ID)
}
