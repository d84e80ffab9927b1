package failures

import (
	"encoding/json"
	"time"
)

// Phase where an analysis request failed after validation.
type Phase string

const (
	PhaseGenerate Phase = "generate"
	PhasePersist  Phase = "persist"
)

// Failure captures a create-path error so diagnostics stay server side.
type Failure struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"userId"`
	JobRole   string          `json:"jobRole"`
	Phase     Phase           `json:"phase"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
