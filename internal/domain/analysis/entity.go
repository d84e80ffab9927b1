package analysis

import "time"

// ID tipe untuk Record
type ID string

// Roles is the fixed catalogue offered by the form. Free-typed roles are accepted too.
var Roles = []string{
	"Frontend Developer",
	"Backend Developer",
	"AI Engineer",
	"Data Scientist",
	"DevOps Engineer",
	"QA Engineer",
	"UI/UX Designer",
	"Mobile Developer",
}

// Project is one featured project submitted with a request.
type Project struct {
	Title       string `json:"title" yaml:"title" validate:"min=3"`
	URL         string `json:"url" yaml:"url" validate:"required,url"`
	Description string `json:"description" yaml:"description" validate:"min=10,max=200"`
}

// Request is what the client submits. It is never persisted as-is.
type Request struct {
	GithubURL string    `json:"githubUrl" yaml:"githubUrl" validate:"required,http_url"`
	Role      string    `json:"role" yaml:"role" validate:"required,min=2"`
	Skills    []string  `json:"skills" yaml:"skills" validate:"required,min=1,dive,required"`
	Projects  []Project `json:"projects,omitempty" yaml:"projects,omitempty" validate:"max=3,dive"`
}

// Feedback value object
type Feedback struct {
	Positive []string `json:"positive" yaml:"positive"`
	Negative []string `json:"negative" yaml:"negative"`
}

type ProjectSuggestion struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type WeeklyTask struct {
	Day  string `json:"day" yaml:"day"`
	Task string `json:"task" yaml:"task"`
}

type Roadmap struct {
	Weekly  []WeeklyTask `json:"weekly" yaml:"weekly"`
	Monthly []string     `json:"monthly" yaml:"monthly"`
}

// Result is the structured analysis produced by the generation service.
// Every substructure may be absent; readers substitute empty lists.
type Result struct {
	Score              int                 `json:"score" yaml:"score"`
	Feedback           *Feedback           `json:"feedback" yaml:"feedback"`
	ProjectSuggestions []ProjectSuggestion `json:"projectSuggestions" yaml:"projectSuggestions"`
	ImprovementPoints  []string            `json:"improvementPoints" yaml:"improvementPoints"`
	Roadmap            *Roadmap            `json:"roadmap" yaml:"roadmap"`
}

// Aggregate Root: Record. Immutable after creation.
type Record struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"userId"`
	GithubURL string    `json:"githubUrl"`
	JobRole   string    `json:"jobRole"`
	Skills    []string  `json:"skills"`
	Projects  []Project `json:"projects"`
	Data      Result    `json:"analysisData"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreatedEvent is published after a record has been stored.
type CreatedEvent struct {
	AnalysisID ID        `json:"analysisId"`
	UserID     string    `json:"userId"`
	JobRole    string    `json:"jobRole"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ArchiveKey is the object key for an archived record: <user>/<id>.json
func (r *Record) ArchiveKey() string {
	return r.UserID + "/" + string(r.ID) + ".json"
}

func (r *Record) CreatedEvent() CreatedEvent {
	return CreatedEvent{
		AnalysisID: r.ID,
		UserID:     r.UserID,
		JobRole:    r.JobRole,
		Score:      r.Data.Score,
		CreatedAt:  r.CreatedAt,
	}
}
