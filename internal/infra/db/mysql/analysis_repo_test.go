package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/failures"
	"github.com/google/go-cmp/cmp"
)

var created = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

var columns = []string{"id", "user_id", "github_url", "job_role", "skills", "projects", "analysis_data", "created_at"}

func TestCreateAndGetOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewAnalysisRepository(db)

	rec := &domain.Record{
		ID:        "a1",
		UserID:    "alice",
		GithubURL: "https://github.com/alice",
		JobRole:   "Backend Developer",
		Skills:    []string{"Go", "SQL"},
		Projects:  []domain.Project{{Title: "ledger", URL: "https://github.com/alice/ledger", Description: "double-entry ledger"}},
		Data:      domain.Result{Score: 72, ImprovementPoints: []string{"README"}},
		CreatedAt: created,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analyses")).
		WithArgs("a1", "alice", rec.GithubURL, rec.JobRole, `["Go","SQL"]`, sqlmock.AnyArg(), sqlmock.AnyArg(), created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? AND user_id = ?")).WithArgs("a1", "alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a1", "alice", rec.GithubURL, rec.JobRole,
			[]byte(`["Go","SQL"]`),
			[]byte(`[{"title":"ledger","url":"https://github.com/alice/ledger","description":"double-entry ledger"}]`),
			[]byte(`{"score":72,"feedback":null,"projectSuggestions":null,"improvementPoints":["README"],"roadmap":null}`),
			created))
	got, err := repo.GetOwned(context.Background(), "a1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetOwnedOtherOwnerIsNotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	mock.ExpectQuery("FROM analyses").WithArgs("a1", "bob").WillReturnRows(sqlmock.NewRows(columns))
	if _, err := NewAnalysisRepository(db).GetOwned(context.Background(), "a1", "bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOwnedStoreErrorIsPersistence(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	mock.ExpectQuery("FROM analyses").WillReturnError(errors.New("too many connections"))
	if _, err := NewAnalysisRepository(db).GetOwned(context.Background(), "a1", "alice"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestFailureSaveWrapsInvalidDetails(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	mock.ExpectExec("INSERT INTO analysis_failures").
		WithArgs("alice", "-", "persist", "disk full", `{"raw":"not json"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	f := &failures.Failure{UserID: "alice", Phase: failures.PhasePersist, Message: "disk full", Details: []byte("not json")}
	if err := NewFailureRepository(db).Save(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if f.ID != 11 {
		t.Fatalf("expected id 11, got %d", f.ID)
	}
}
