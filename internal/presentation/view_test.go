package presentation

import (
	"context"
	"errors"
	"testing"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

type readerFunc func(ctx context.Context, userID string, id analysis.ID) (*analysis.Record, error)

func (f readerFunc) GetOwned(ctx context.Context, userID string, id analysis.ID) (*analysis.Record, error) {
	return f(ctx, userID, id)
}

func TestMissingNegativeRendersEmptyList(t *testing.T) {
	rec := &analysis.Record{
		ID: "a1",
		Data: analysis.Result{
			Score:    72,
			Feedback: &analysis.Feedback{Positive: []string{"clean commits"}},
		},
	}
	d := FromRecord(rec)
	if d.Negative == nil || len(d.Negative) != 0 {
		t.Fatalf("expected empty negative list, got %#v", d.Negative)
	}
	if d.Weekly == nil || d.Monthly == nil || d.ProjectSuggestions == nil || d.ImprovementPoints == nil {
		t.Fatalf("absent substructures should be empty lists: %+v", d)
	}
	if d.Score != 72 || d.Positive[0] != "clean commits" {
		t.Fatalf("unexpected dashboard %+v", d)
	}
}

func TestScoreClampedForDisplay(t *testing.T) {
	if got := FromRecord(&analysis.Record{Data: analysis.Result{Score: 140}}).Score; got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := FromRecord(&analysis.Record{Data: analysis.Result{Score: -3}}).Score; got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	calls := 0
	r := readerFunc(func(_ context.Context, userID string, id analysis.ID) (*analysis.Record, error) {
		calls++
		if userID == "alice" && id == "a1" {
			return &analysis.Record{ID: id, UserID: userID}, nil
		}
		if userID == "carol" {
			return nil, errors.New("db down")
		}
		return nil, analysis.ErrNotFound
	})

	if _, ok := Load(ctx, r, "", "a1"); ok {
		t.Fatal("anonymous should be not found")
	}
	if calls != 0 {
		t.Fatal("store should not be read without identity")
	}
	if _, ok := Load(ctx, r, "bob", "a1"); ok {
		t.Fatal("other owner should be not found")
	}
	if _, ok := Load(ctx, r, "carol", "a1"); ok {
		t.Fatal("store error should be not found")
	}
	d, ok := Load(ctx, r, "alice", "a1")
	if !ok || d.ID != "a1" {
		t.Fatalf("expected dashboard, got %+v %v", d, ok)
	}
}
