// Package submission drives the analysis form: local validation, a single in-flight
// create call, and the redirect to the dashboard.
package submission

import (
	"context"
	"errors"
	"sync"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return "idle"
}

// Messages shown to the user for each transition.
const (
	MsgStarting  = "Starting analysis... Our AI is on the case!"
	MsgSucceeded = "Analysis complete! Redirecting to your dashboard."
	MsgFailed    = "Something went wrong. Please try again."
)

var (
	ErrInFlight  = errors.New("submission already in progress")
	ErrCompleted = errors.New("submission already completed")
)

// Creator sends a validated request to the backend.
type Creator interface {
	CreateAnalysis(ctx context.Context, req analysis.Request) (analysis.ID, error)
}

// Notifier shows transient messages.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// DashboardPath is the redirect target for a created analysis.
func DashboardPath(id analysis.ID) string { return "/dashboard/" + string(id) }

type Flow struct {
	creator Creator
	notify  Notifier

	mu       sync.Mutex
	state    State
	redirect string
}

func NewFlow(c Creator, n Notifier) *Flow {
	return &Flow{creator: c, notify: n}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates locally, then performs at most one create call. On success it returns
// the dashboard path. Invalid input returns a *analysis.ValidationError and makes no call;
// a concurrent Submit while one is running returns ErrInFlight, and any Submit after a
// success returns ErrCompleted.
func (f *Flow) Submit(ctx context.Context, req analysis.Request) (string, error) {
	req.Skills = append([]string(nil), req.Skills...)
	req.Projects = append([]analysis.Project(nil), req.Projects...)
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return "", ErrInFlight
	case Succeeded:
		f.mu.Unlock()
		return "", ErrCompleted
	}
	f.state = Submitting
	f.redirect = ""
	f.mu.Unlock()

	f.notify.Info(MsgStarting)
	id, err := f.creator.CreateAnalysis(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Idle
		f.notify.Error(MsgFailed)
		return "", err
	}
	f.state = Succeeded
	f.redirect = DashboardPath(id)
	f.notify.Success(MsgSucceeded)
	return f.redirect, nil
}
