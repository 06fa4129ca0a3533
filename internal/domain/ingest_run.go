package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of an ingest run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

func (s RunStatus) String() string { return string(s) }

// IsValid reports whether s is a known status.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunRunning, RunSucceeded, RunFailed:
		return true
	}
	return false
}

// IngestRun records one pass of the ingest pipeline over a feed file.
type IngestRun struct {
	ID         uuid.UUID  `json:"id"`
	Source     string     `json:"source"`
	Status     RunStatus  `json:"status"`
	Lines      int        `json:"lines"`
	Parsed     int        `json:"parsed"`
	Rejected   int        `json:"rejected"`
	Filtered   int        `json:"filtered"`
	Stored     int        `json:"stored"`
	Error      *string    `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Finish marks the run as finished at t. A nil err means success.
func (r *IngestRun) Finish(t time.Time, err error) {
	r.FinishedAt = &t
	if err != nil {
		msg := err.Error()
		r.Error = &msg
		r.Status = RunFailed
		return
	}
	r.Error = nil
	r.Status = RunSucceeded
}
