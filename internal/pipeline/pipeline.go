// Package pipeline implements the batch preparation pipeline over raw
// tracking exports: position filtering, blockwise tracking ingest,
// pass-play filtering, play-context merging, clock normalization, the
// pairwise distance engine, and route extraction.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/config"
	"github.com/gridiron-analytics/trackprep/internal/model"
	"github.com/gridiron-analytics/trackprep/internal/store"
)

const (
	trackingOutputFile = "final_tracking_data.csv"
	routeOutputFile    = "final_player_play_data.csv"
)

// Result summarizes one completed run.
type Result struct {
	RunID        string
	TrackingRows int64
	RouteRows    int64
	TrackingPath string
	RoutePath    string
	Stages       []model.StageStats
}

// Pipeline sequences the preparation stages and writes the two output
// tables. The manifest store is optional; a nil store disables run
// recording.
type Pipeline struct {
	cfg *config.Config
	st  store.Store
}

// New creates a Pipeline.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, st: st}
}

// Run executes the full pipeline: the six-stage tracking branch, the
// independent route branch, and both output writes. A run either
// completes and writes both outputs or aborts at the first fatal I/O
// error with no partial output.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("raw_dir", p.cfg.Data.RawDir))
	log.Info("starting preparation run")

	result := &Result{}

	if p.st != nil {
		run, err := p.st.CreateRun(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		result.RunID = run.ID
	}

	res, err := p.run(ctx, result)
	if p.st != nil && result.RunID != "" {
		status := model.RunCompleted
		if err != nil {
			status = model.RunFailed
		}
		if completeErr := p.st.CompleteRun(ctx, result.RunID, status, result.TrackingRows, result.RouteRows); completeErr != nil {
			log.Warn("failed to finalize run manifest", zap.Error(completeErr))
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, result *Result) (*Result, error) {
	rawDir := p.cfg.Data.RawDir
	outDir := p.cfg.Data.OutputDir

	// All source files are checked before any output is touched, so a
	// missing file aborts the run with no partial output.
	if err := p.preflight(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "pipeline: create output dir %s", outDir)
	}

	validIDs, stats, err := LoadValidPlayers(rawDir, p.cfg.Data.Positions)
	if err != nil {
		return nil, err
	}
	p.record(ctx, result, stats)

	tracking, stats, err := IngestTracking(ctx, IngestOptions{
		RawDir:      rawDir,
		WeekStart:   p.cfg.Data.Weeks.Start,
		WeekEnd:     p.cfg.Data.Weeks.End,
		BlockSize:   p.cfg.Data.BlockSize,
		Concurrency: p.cfg.Ingest.Concurrency,
	}, validIDs)
	if err != nil {
		return nil, err
	}
	p.record(ctx, result, stats)

	plays, stats, err := LoadPlays(rawDir)
	if err != nil {
		return nil, err
	}
	p.record(ctx, result, stats)

	tracking, stats = FilterPassPlays(tracking, plays)
	p.record(ctx, result, stats)

	enriched, stats := MergePlayContext(tracking, plays)
	p.record(ctx, result, stats)

	stats = NormalizeClocks(enriched)
	p.record(ctx, result, stats)

	summaries, stats := ComputeDistances(enriched)
	AttachDistances(enriched, summaries)
	p.record(ctx, result, stats)

	result.TrackingPath = filepath.Join(outDir, trackingOutputFile)
	if err := WriteTracking(result.TrackingPath, enriched, plays.Present); err != nil {
		return nil, err
	}
	result.TrackingRows = int64(len(enriched))
	zap.L().Info("wrote tracking table",
		zap.String("path", result.TrackingPath),
		zap.Int64("rows", result.TrackingRows))

	routes, stats, err := FilterRoutes(rawDir)
	if err != nil {
		return nil, err
	}
	p.record(ctx, result, stats)

	result.RoutePath = filepath.Join(outDir, routeOutputFile)
	if err := WriteRoutes(result.RoutePath, routes); err != nil {
		return nil, err
	}
	result.RouteRows = int64(len(routes))
	zap.L().Info("wrote route table",
		zap.String("path", result.RoutePath),
		zap.Int64("rows", result.RouteRows))

	return result, nil
}

// preflight verifies every source file exists and is readable.
func (p *Pipeline) preflight() error {
	files := []string{playersFile, playsFile, playerPlayFile}
	for week := p.cfg.Data.Weeks.Start; week <= p.cfg.Data.Weeks.End; week++ {
		files = append(files, trackingFile(week))
	}
	for _, name := range files {
		path := filepath.Join(p.cfg.Data.RawDir, name)
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "pipeline: source file %s", path)
		}
		f.Close()
	}
	return nil
}

// record logs a stage's counts and appends them to the run manifest.
// Manifest write failures are logged, not fatal; the data run matters
// more than its bookkeeping.
func (p *Pipeline) record(ctx context.Context, result *Result, stats model.StageStats) {
	result.Stages = append(result.Stages, stats)

	zap.L().Info("stage complete",
		zap.String("stage", stats.Name),
		zap.Int64("rows_in", stats.RowsIn),
		zap.Int64("rows_out", stats.RowsOut),
		zap.Int64("dropped", stats.Dropped),
		zap.Duration("duration", stats.Duration))

	if p.st == nil || result.RunID == "" {
		return
	}
	if err := p.st.RecordStage(ctx, result.RunID, stats); err != nil {
		zap.L().Warn("failed to record stage manifest",
			zap.String("stage", stats.Name), zap.Error(err))
	}
}
