// Package runlog records scaffolding runs.
package runlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("runlog: entry not found")

// Status values.
const (
	StatusOK         = "ok"
	StatusIncomplete = "incomplete"
	StatusFailed     = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID        string        `json:"id"`
	Mode      string        `json:"mode"`
	Project   string        `json:"project"`
	Resource  string        `json:"resource"`
	Backend   string        `json:"backend"`
	Status    string        `json:"status"`
	Files     int           `json:"files"`
	Steps     int           `json:"steps"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store persists entries. List returns the newest first.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Get(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Begin starts an entry with a fresh id.
func Begin(mode, project, resource, backend string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Mode:      mode,
		Project:   strings.TrimSpace(project),
		Resource:  strings.TrimSpace(resource),
		Backend:   backend,
		CreatedAt: time.Now().UTC(),
	}
}

// Finish fills the outcome of e. err wins over complete.
func (e Entry) Finish(files, steps int, complete bool, err error) Entry {
	e.Files = files
	e.Steps = steps
	e.Duration = time.Since(e.CreatedAt)
	switch {
	case err != nil:
		e.Status = StatusFailed
		e.Error = err.Error()
	case complete:
		e.Status = StatusOK
	default:
		e.Status = StatusIncomplete
	}
	return e
}
