package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/failures"
	"github.com/bryanwahyu/profilepilot/internal/infra/db/memory"
	"github.com/google/go-cmp/cmp"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	role   string
	skills []string
	result domain.Result
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, role string, skills []string, _ ...domain.Project) (domain.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.role, g.skills = role, skills
	return g.result, g.err
}

type countingRepo struct {
	*memory.Store
	creates int
	err     error
}

func (r *countingRepo) Create(ctx context.Context, rec *domain.Record) error {
	r.creates++
	if r.err != nil {
		return r.err
	}
	return r.Store.Create(ctx, rec)
}

type fakeArchive struct{ keys []string }

func (a *fakeArchive) Put(_ context.Context, key string, _ any) (string, error) {
	a.keys = append(a.keys, key)
	return "mem://" + key, nil
}

type fakeEvents struct {
	events []domain.CreatedEvent
	err    error
}

func (e *fakeEvents) PublishCreated(_ context.Context, ev domain.CreatedEvent) error {
	e.events = append(e.events, ev)
	return e.err
}

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func aliceResult() domain.Result {
	return domain.Result{
		Score:    72,
		Feedback: &domain.Feedback{Positive: []string{"a", "b", "c"}, Negative: []string{"d", "e", "f"}},
		ProjectSuggestions: []domain.ProjectSuggestion{
			{Title: "CLI", Description: "build a CLI"},
		},
		ImprovementPoints: []string{"README", "tests", "CI", "OSS"},
		Roadmap: &domain.Roadmap{
			Weekly:  []domain.WeeklyTask{{Day: "Mon", Task: "x"}},
			Monthly: []string{"ship"},
		},
	}
}

func aliceRequest() domain.Request {
	return domain.Request{
		GithubURL: "https://github.com/alice",
		Role:      "Backend Developer",
		Skills:    []string{"Go", "SQL"},
	}
}

type fakeFailures struct{ saved []failures.Failure }

func (f *fakeFailures) Save(_ context.Context, fl *failures.Failure) error {
	f.saved = append(f.saved, *fl)
	return nil
}

func newService(gen *fakeGenerator) (*Service, *countingRepo, *fakeFailures) {
	repo := &countingRepo{Store: memory.NewStore()}
	logs := &fakeFailures{}
	return &Service{
		Repo:      repo,
		Generator: gen,
		Failures:  logs,
		Clock:     fixedClock{now},
		NewID:     func() string { return "11111111-2222-4333-8444-555555555555" },
	}, repo, logs
}

func TestCreateAliceScenario(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, repo, _ := newService(gen)
	arch, ev := &fakeArchive{}, &fakeEvents{}
	svc.Archive, svc.Events = arch, ev
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateCommand{UserID: "alice", Request: aliceRequest()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gen.calls != 1 || repo.creates != 1 {
		t.Fatalf("expected one generate and one create, got %d/%d", gen.calls, repo.creates)
	}
	if diff := cmp.Diff([]string{"Go", "SQL"}, gen.skills); diff != "" {
		t.Fatalf("skills passed to generator (-want +got):\n%s", diff)
	}

	rec, err := svc.GetOwned(ctx, "alice", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := &domain.Record{
		ID:        id,
		UserID:    "alice",
		GithubURL: "https://github.com/alice",
		JobRole:   "Backend Developer",
		Skills:    []string{"Go", "SQL"},
		Data:      aliceResult(),
		CreatedAt: now,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if rec.Data.Score != 72 {
		t.Fatalf("expected score 72, got %d", rec.Data.Score)
	}
	if len(arch.keys) != 1 || arch.keys[0] != "alice/"+string(id)+".json" {
		t.Fatalf("unexpected archive keys %v", arch.keys)
	}
	if len(ev.events) != 1 || ev.events[0].Score != 72 {
		t.Fatalf("unexpected events %+v", ev.events)
	}
}

func TestCreateInvalidNeverCallsGenerator(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, repo, _ := newService(gen)
	req := aliceRequest()
	req.Skills = nil

	_, err := svc.Create(context.Background(), CreateCommand{UserID: "alice", Request: req})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if gen.calls != 0 || repo.creates != 0 {
		t.Fatalf("expected no calls, got generate=%d create=%d", gen.calls, repo.creates)
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, _, _ := newService(gen)
	if _, err := svc.Create(context.Background(), CreateCommand{Request: aliceRequest()}); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatal("generator called without identity")
	}
}

func TestCreateGenerationFailureStoresNothing(t *testing.T) {
	for _, genErr := range []error{domain.ErrUpstream, domain.ErrMalformedResponse, domain.ErrConfiguration} {
		gen := &fakeGenerator{err: genErr}
		svc, repo, logs := newService(gen)
		_, err := svc.Create(context.Background(), CreateCommand{UserID: "alice", Request: aliceRequest()})
		if !errors.Is(err, genErr) {
			t.Fatalf("expected %v, got %v", genErr, err)
		}
		if repo.creates != 0 {
			t.Fatalf("%v: expected zero creates, got %d", genErr, repo.creates)
		}
		logged := logs.saved
		if len(logged) != 1 || logged[0].Phase != failures.PhaseGenerate {
			t.Fatalf("expected one generate failure, got %+v", logged)
		}
	}
}

func TestCreatePersistenceFailure(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, repo, logs := newService(gen)
	repo.err = errors.New("disk full")
	_, err := svc.Create(context.Background(), CreateCommand{UserID: "alice", Request: aliceRequest()})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	logged := logs.saved
	if len(logged) != 1 || logged[0].Phase != failures.PhasePersist {
		t.Fatalf("expected one persist failure, got %+v", logged)
	}
}

func TestCreateSideEffectErrorsAreIgnored(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, _, _ := newService(gen)
	svc.Events = &fakeEvents{err: errors.New("broker down")}
	if _, err := svc.Create(context.Background(), CreateCommand{UserID: "alice", Request: aliceRequest()}); err != nil {
		t.Fatalf("publish error should not fail create: %v", err)
	}
}

func TestGetOwnedCrossOwner(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, _, _ := newService(gen)
	ctx := context.Background()
	id, err := svc.Create(ctx, CreateCommand{UserID: "alice", Request: aliceRequest()})
	if err != nil {
		t.Fatal(err)
	}
	for _, user := range []string{"bob", ""} {
		if _, err := svc.GetOwned(ctx, user, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("user %q: expected ErrNotFound, got %v", user, err)
		}
	}
}

func TestCreateDoesNotMutateCallerRequest(t *testing.T) {
	gen := &fakeGenerator{result: aliceResult()}
	svc, _, _ := newService(gen)
	req := aliceRequest()
	req.Skills = []string{" Go ", "SQL"}
	if _, err := svc.Create(context.Background(), CreateCommand{UserID: "alice", Request: req}); err != nil {
		t.Fatal(err)
	}
	if req.Skills[0] != " Go " {
		t.Fatal("caller slice was modified")
	}
	if gen.skills[0] != "Go" {
		t.Fatalf("generator should see trimmed skill, got %q", gen.skills[0])
	}
}

func TestListOwnedRequiresIdentity(t *testing.T) {
	svc, _, _ := newService(&fakeGenerator{})
	if _, err := svc.ListOwned(context.Background(), "", 1, 10); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}
