package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/profilepilot/internal/application"
	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/failures"
)

const sideEffectTimeout = 5 * time.Second

// Service implements the analysis use-cases.
// Service is safe for concurrent use as long as its ports are.
type Service struct {
	Repo      domain.Repository
	Generator domain.Generator
	Failures  failures.Repository   // optional
	Archive   domain.Archive        // optional
	Events    domain.EventPublisher // optional
	Clock     application.Clock
	NewID     func() string
}

//
// ==== USE CASES ====
//

// CreateCommand untuk request analisis baru
type CreateCommand struct {
	UserID  string
	Request domain.Request
}

// Create validates, generates, then persists. Nothing is stored unless generation
// succeeded, and generation is never called for an invalid request.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (domain.ID, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return "", domain.ErrAuthRequired
	}

	req := cmd.Request
	req.Skills = append([]string(nil), req.Skills...)
	req.Projects = append([]domain.Project(nil), req.Projects...)
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	// panggil model sekali, tanpa retry
	result, err := s.Generator.Generate(ctx, req.Role, req.Skills, req.Projects...)
	if err != nil {
		s.recordFailure(ctx, cmd.UserID, req, failures.PhaseGenerate, err)
		return "", err
	}

	rec := &domain.Record{
		ID:        domain.ID(s.newID()),
		UserID:    cmd.UserID,
		GithubURL: req.GithubURL,
		JobRole:   req.Role,
		Skills:    req.Skills,
		Projects:  req.Projects,
		Data:      result,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		s.recordFailure(ctx, cmd.UserID, req, failures.PhasePersist, err)
		return "", err
	}

	s.afterCreate(ctx, rec)
	return rec.ID, nil
}

// GetOwned returns the caller's record. Missing identity, a missing record, a record
// owned by someone else and store failures all surface as ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, userID string, id domain.ID) (*domain.Record, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(string(id)) == "" {
		return nil, domain.ErrNotFound
	}
	rec, err := s.Repo.GetOwned(ctx, id, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("analysis read failed analysis_id=%s user_id=%s err=%v", id, userID, err)
		}
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ListOwned pages through the caller's records, newest first.
func (s *Service) ListOwned(ctx context.Context, userID string, page, pageSize int) (domain.PaginatedResult, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.PaginatedResult{}, domain.ErrAuthRequired
	}
	return s.Repo.ListOwned(ctx, userID, page, pageSize)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return s.Clock.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// recordFailure simpan error ke failure log, jangan sampai gagal request karena ini
func (s *Service) recordFailure(ctx context.Context, userID string, req domain.Request, phase failures.Phase, cause error) {
	log.Printf("analysis failed phase=%s user_id=%s role=%q err=%v", phase, userID, req.Role, cause)
	if s.Failures == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{
		"githubUrl": req.GithubURL,
		"skills":    req.Skills,
		"projects":  len(req.Projects),
	})
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	err := s.Failures.Save(ctx, &failures.Failure{
		UserID:    userID,
		JobRole:   req.Role,
		Phase:     phase,
		Message:   cause.Error(),
		Details:   details,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Printf("failure log write failed phase=%s user_id=%s err=%v", phase, userID, err)
	}
}

// afterCreate runs best-effort side effects. Errors are logged only.
func (s *Service) afterCreate(ctx context.Context, rec *domain.Record) {
	if s.Archive == nil && s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.Archive != nil {
		if _, err := s.Archive.Put(ctx, rec.ArchiveKey(), rec); err != nil {
			log.Printf("archive failed analysis_id=%s user_id=%s err=%v", rec.ID, rec.UserID, err)
		}
	}
	if s.Events != nil {
		if err := s.Events.PublishCreated(ctx, rec.CreatedEvent()); err != nil {
			log.Printf("publish failed analysis_id=%s user_id=%s err=%v", rec.ID, rec.UserID, err)
		}
	}
}
