// Package pipeline turns analysis requests into persisted recipes. It owns
// the per-request task records, the bounded worker queue that runs them, and
// the orchestration of download, extraction, illustration, translation and
// persistence.
package pipeline

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is the record of one analysis request. Completed tasks keep the
// resulting recipe ID; failed tasks keep the summarized error. Degraded lists
// the non-fatal features that were skipped, e.g. missing imagery or an
// unavailable cache.
type Task struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"source_url"`
	Language    string    `json:"language"`
	NotifyToken string    `json:"-"`
	Status      Status    `json:"status"`
	RecipeID    string    `json:"recipe_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	Degraded    []string  `json:"degraded,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
}

func (t *Task) clone() *Task {
	c := *t
	c.Degraded = append([]string(nil), t.Degraded...)
	return &c
}
