// Package presentation turns stored records into render-ready dashboards.
package presentation

import (
	"context"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

// Reader is the read side the dashboard needs.
type Reader interface {
	GetOwned(ctx context.Context, userID string, id analysis.ID) (*analysis.Record, error)
}

// Dashboard is a record with every list non-nil, ready for templates and JSON.
type Dashboard struct {
	ID                 analysis.ID                  `json:"id" yaml:"id"`
	GithubURL          string                       `json:"githubUrl" yaml:"githubUrl"`
	JobRole            string                       `json:"jobRole" yaml:"jobRole"`
	Skills             []string                     `json:"skills" yaml:"skills"`
	Projects           []analysis.Project           `json:"projects" yaml:"projects"`
	Score              int                          `json:"score" yaml:"score"`
	Positive           []string                     `json:"positive" yaml:"positive"`
	Negative           []string                     `json:"negative" yaml:"negative"`
	ProjectSuggestions []analysis.ProjectSuggestion `json:"projectSuggestions" yaml:"projectSuggestions"`
	ImprovementPoints  []string                     `json:"improvementPoints" yaml:"improvementPoints"`
	Weekly             []analysis.WeeklyTask        `json:"weekly" yaml:"weekly"`
	Monthly            []string                     `json:"monthly" yaml:"monthly"`
	CreatedAt          time.Time                    `json:"createdAt" yaml:"createdAt"`
}

// FromRecord builds the view. The score is clamped to 0..100 for display only.
func FromRecord(rec *analysis.Record) Dashboard {
	d := Dashboard{
		ID:                 rec.ID,
		GithubURL:          rec.GithubURL,
		JobRole:            rec.JobRole,
		Skills:             nonNil(rec.Skills),
		Projects:           nonNil(rec.Projects),
		Score:              clamp(rec.Data.Score),
		ProjectSuggestions: nonNil(rec.Data.ProjectSuggestions),
		ImprovementPoints:  nonNil(rec.Data.ImprovementPoints),
		CreatedAt:          rec.CreatedAt,
	}
	var fb analysis.Feedback
	if rec.Data.Feedback != nil {
		fb = *rec.Data.Feedback
	}
	d.Positive = nonNil(fb.Positive)
	d.Negative = nonNil(fb.Negative)

	var rm analysis.Roadmap
	if rec.Data.Roadmap != nil {
		rm = *rec.Data.Roadmap
	}
	d.Weekly = nonNil(rm.Weekly)
	d.Monthly = nonNil(rm.Monthly)
	return d
}

// Load reads the caller's record. Any failure, including a missing identity, is reported
// as not found (ok == false).
func Load(ctx context.Context, r Reader, userID string, id analysis.ID) (Dashboard, bool) {
	if userID == "" {
		return Dashboard{}, false
	}
	rec, err := r.GetOwned(ctx, userID, id)
	if err != nil || rec == nil {
		return Dashboard{}, false
	}
	return FromRecord(rec), true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
