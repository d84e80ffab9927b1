package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

const selectColumns = `id, user_id, github_url, job_role, skills, projects, analysis_data, created_at`

func (r *AnalysisRepository) Create(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analyses
  (id, user_id, github_url, job_role, skills, projects, analysis_data, created_at)
VALUES (?,?,?,?,?,?,?,?)`

	skills, err := json.Marshal(rec.Skills)
	if err != nil {
		return fmt.Errorf("%w: encode skills: %w", domain.ErrPersistence, err)
	}
	projects, err := json.Marshal(rec.Projects)
	if err != nil {
		return fmt.Errorf("%w: encode projects: %w", domain.ErrPersistence, err)
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("%w: encode analysis: %w", domain.ErrPersistence, err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, q,
		string(rec.ID), rec.UserID, rec.GithubURL, rec.JobRole,
		string(skills), string(projects), string(data), created,
	); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (r *AnalysisRepository) GetOwned(ctx context.Context, id domain.ID, owner string) (*domain.Record, error) {
	const q = `SELECT ` + selectColumns + `
FROM analyses
WHERE id = ? AND user_id = ?
LIMIT 1`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, string(id), owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return rec, nil
}

func (r *AnalysisRepository) ListOwned(ctx context.Context, owner string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses WHERE user_id = ?`, owner).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	const q = `SELECT ` + selectColumns + `
FROM analyses
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, owner, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return domain.NewPage(out, page, pageSize, total), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.Record, error) {
	var (
		rec                      domain.Record
		id                       string
		skills, projects, result []byte
	)
	if err := s.Scan(&id, &rec.UserID, &rec.GithubURL, &rec.JobRole, &skills, &projects, &result, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.ID = domain.ID(id)
	if err := json.Unmarshal(skills, &rec.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if len(projects) > 0 {
		if err := json.Unmarshal(projects, &rec.Projects); err != nil {
			return nil, fmt.Errorf("decode projects: %w", err)
		}
	}
	if err := json.Unmarshal(result, &rec.Data); err != nil {
		return nil, fmt.Errorf("decode analysis_data: %w", err)
	}
	return &rec, nil
}
