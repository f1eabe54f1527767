// Package store defines the RunStore interface for persisting simulation
// results and querying past runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one stored simulation run.
type RunRecord struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Label     string            `json:"label,omitempty"`
	Result    simulation.Result `json:"result"`
}

// RunSummary is the listing view of a run, without curves or histograms.
type RunSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Label       string    `json:"label,omitempty"`
	NumTrials   int       `json:"num_trials"`
	NumStudents int       `json:"num_students"`
	NumSessions int       `json:"num_sessions"`
	Seed        uint64    `json:"seed"`
	FinalMean   float64   `json:"final_mean"`
}

// Summary derives the listing view of a record.
func (r RunRecord) Summary() RunSummary {
	s := RunSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Label:       r.Label,
		NumTrials:   r.Result.Params.NumTrials,
		NumStudents: r.Result.Params.NumStudents,
		NumSessions: r.Result.Params.NumSessions,
		Seed:        r.Result.Seed,
	}
	if n := len(r.Result.Progression); n > 0 {
		s.FinalMean = r.Result.Progression[n-1]
	}
	return s
}

// RunStore is the interface for run history storage.
type RunStore interface {
	// SaveRun stores a run and returns its ID. An empty ID is assigned a
	// new UUID and a zero CreatedAt is set to now.
	SaveRun(ctx context.Context, rec RunRecord) (string, error)

	// GetRun returns the run with the given ID or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns summaries newest first. limit <= 0 returns all runs.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// DeleteRun removes a run or returns ErrRunNotFound.
	DeleteRun(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
