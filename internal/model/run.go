package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID           string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   *time.Time
	TrackingRows int64
	RouteRows    int64
}

// StageStats summarizes one stage of a run: how many rows it saw, how
// many it emitted, and how many were dropped for failed coercion (as
// opposed to rows removed by an intentional filter).
type StageStats struct {
	Name     string
	RowsIn   int64
	RowsOut  int64
	Dropped  int64
	Duration time.Duration
}
