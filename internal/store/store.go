// Package store persists run manifests: one row per pipeline run plus
// per-stage row counts, so dropped-row aggregates are queryable after
// the fact instead of living only in logs.
package store

import (
	"context"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

// Store defines the persistence interface for run manifests.
type Store interface {
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, trackingRows, routeRows int64) error
	RecordStage(ctx context.Context, runID string, stats model.StageStats) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	ListStages(ctx context.Context, runID string) ([]model.StageStats, error)

	Migrate(ctx context.Context) error
	Close() error
}
