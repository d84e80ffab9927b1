package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"

	appanalysis "github.com/bryanwahyu/profilepilot/internal/application/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/infra/db/memory"
	"github.com/bryanwahyu/profilepilot/internal/infra/httpserver"
	"github.com/bryanwahyu/profilepilot/internal/middleware"
	"github.com/bryanwahyu/profilepilot/internal/presentation"
)

type staticGenerator struct{ calls int }

func (g *staticGenerator) Generate(context.Context, string, []string, ...analysis.Project) (analysis.Result, error) {
	g.calls++
	return analysis.Result{
		Score:    72,
		Feedback: &analysis.Feedback{Positive: []string{"consistent commits"}},
		Roadmap:  &analysis.Roadmap{Weekly: []analysis.WeeklyTask{{Day: "Mon", Task: "write a README"}}},
	}, nil
}

func newServer(t *testing.T, gen *staticGenerator) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	svc := &appanalysis.Service{Repo: store, Generator: gen}
	oracle := middleware.NewAPIKeyOracle(map[string]string{"alice": "k-alice"})
	srv := httptest.NewServer(httpserver.NewRouter(svc, httpserver.Options{Oracle: oracle}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSubmitAndShow(t *testing.T) {
	gen := &staticGenerator{}
	srv := newServer(t, gen)

	out, errOut, err := run(t, "submit", "--server", srv.URL, "--api-key", "k-alice",
		"--github", "https://github.com/alice", "--role", "Backend Developer", "-s", "Go", "-s", "SQL")
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "SCORE: 72/100") || !strings.Contains(out, "consistent commits") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Dashboard: "+srv.URL+"/dashboard/") {
		t.Fatalf("missing dashboard link:\n%s", out)
	}
	if !strings.Contains(errOut, "Analysis complete! Redirecting to your dashboard.") {
		t.Fatalf("missing success message:\n%s", errOut)
	}

	list, _, err := run(t, "list", "--server", srv.URL, "--api-key", "k-alice", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	var page analysis.PaginatedResult
	if err := json.Unmarshal([]byte(list), &page); err != nil {
		t.Fatalf("list json: %v\n%s", err, list)
	}
	if page.Total != 1 {
		t.Fatalf("expected one analysis, got %+v", page)
	}

	shown, _, err := run(t, "show", string(page.Data[0].ID), "--server", srv.URL, "--api-key", "k-alice", "-o", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(shown, "score: 72") {
		t.Fatalf("unexpected yaml:\n%s", shown)
	}
}

func TestSubmitInvalidMakesNoRequest(t *testing.T) {
	gen := &staticGenerator{}
	srv := newServer(t, gen)
	_, errOut, err := run(t, "submit", "--server", srv.URL, "--api-key", "k-alice", "--github", "alice", "--role", "Backend Developer")
	if !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(errOut, "githubUrl") || !strings.Contains(errOut, "skills") {
		t.Fatalf("expected field errors, got:\n%s", errOut)
	}
	if gen.calls != 0 {
		t.Fatal("server should not have been called")
	}
}

func TestSubmitWithoutKeyFails(t *testing.T) {
	srv := newServer(t, &staticGenerator{})
	_, errOut, err := run(t, "submit", "--server", srv.URL,
		"--github", "https://github.com/alice", "--role", "Backend Developer", "-s", "Go")
	if !errors.Is(err, analysis.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if !strings.Contains(errOut, "Something went wrong. Please try again.") {
		t.Fatalf("missing failure message:\n%s", errOut)
	}
}

func TestParseProject(t *testing.T) {
	p, err := parseProject("RAG bot|https://github.com/a/rag|Chat over docs | with citations")
	if err != nil {
		t.Fatal(err)
	}
	if p.Description != "Chat over docs | with citations" {
		t.Fatalf("unexpected project %+v", p)
	}
	if _, err := parseProject("only title"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderHumanEmptySections(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	d := presentation.FromRecord(&analysis.Record{JobRole: "QA Engineer", Data: analysis.Result{Score: 40}})
	if err := Render(&buf, d, "human"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "SCORE: 40/100") || !strings.Contains(out, "(none)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil || strings.TrimSpace(out) != "pilot version test" {
		t.Fatalf("unexpected version output %q %v", out, err)
	}
}
