package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gridiron-analytics/trackprep/internal/csvio"
	"github.com/gridiron-analytics/trackprep/internal/model"
)

// IngestOptions configures the tracking ingest stage.
type IngestOptions struct {
	RawDir      string
	WeekStart   int
	WeekEnd     int
	BlockSize   int
	Concurrency int
}

// IngestTracking streams each per-week tracking file in bounded blocks,
// keeping only rows for valid players during pre-snap and snap frames
// and tagging survivors with their week number. Weeks are processed
// concurrently but assembled week-ascending so output order is
// deterministic. A missing or unreadable week file is fatal.
func IngestTracking(ctx context.Context, opts IngestOptions, validIDs map[int]struct{}) ([]model.TrackingRecord, model.StageStats, error) {
	start := time.Now()
	stats := model.StageStats{Name: "tracking_ingest"}

	weeks := opts.WeekEnd - opts.WeekStart + 1
	perWeek := make([][]model.TrackingRecord, weeks)

	var rowsIn, dropped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i := 0; i < weeks; i++ {
		week := opts.WeekStart + i
		idx := i
		g.Go(func() error {
			records, read, drop, err := ingestWeek(gctx, opts, week, validIDs)
			if err != nil {
				return err
			}
			rowsIn.Add(read)
			dropped.Add(drop)
			perWeek[idx] = records
			zap.L().Info("ingested tracking week",
				zap.Int("week", week),
				zap.Int64("rows_read", read),
				zap.Int("rows_kept", len(records)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var combined []model.TrackingRecord
	for _, records := range perWeek {
		combined = append(combined, records...)
	}

	stats.RowsIn = rowsIn.Load()
	stats.Dropped = dropped.Load()
	stats.RowsOut = int64(len(combined))
	stats.Duration = time.Since(start)

	return combined, stats, nil
}

// trackingFile returns the per-week tracking file name.
func trackingFile(week int) string {
	return fmt.Sprintf("tracking_week_%d.csv", week)
}

func ingestWeek(ctx context.Context, opts IngestOptions, week int, validIDs map[int]struct{}) ([]model.TrackingRecord, int64, int64, error) {
	br, err := csvio.NewBlockReader(filepath.Join(opts.RawDir, trackingFile(week)), opts.BlockSize)
	if err != nil {
		return nil, 0, 0, err
	}
	defer br.Close()

	var records []model.TrackingRecord
	var rowsIn, dropped int64

	for {
		if ctx.Err() != nil {
			return nil, rowsIn, dropped, ctx.Err()
		}

		block, err := br.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowsIn, dropped, err
		}

		for _, row := range block {
			rowsIn++
			rec, ok, coercionFail := parseTrackingRow(br, row, week, validIDs)
			if coercionFail {
				dropped++
				continue
			}
			if ok {
				records = append(records, rec)
			}
		}
	}

	return records, rowsIn, dropped, nil
}

// parseTrackingRow filters and coerces one tracking row. ok means the
// row survives; coercionFail means the row matched the filter but an
// identifier or coordinate failed coercion and it was dropped.
func parseTrackingRow(br *csvio.BlockReader, row []string, week int, validIDs map[int]struct{}) (rec model.TrackingRecord, ok, coercionFail bool) {
	nflID, idOK := parseID(br.Col(row, "nflId"))
	if !idOK {
		return rec, false, false // ball rows and malformed ids are filtered, not counted
	}
	if _, valid := validIDs[nflID]; !valid {
		return rec, false, false
	}

	frameType := model.FrameType(br.Col(row, "frameType"))
	if !frameType.Kept() {
		return rec, false, false
	}

	gameID, gOK := parseID(br.Col(row, "gameId"))
	playID, pOK := parseID(br.Col(row, "playId"))
	frameID, fOK := parseID(br.Col(row, "frameId"))
	if !gOK || !pOK || !fOK {
		return rec, false, true
	}

	x, xOK := parseFloatOk(br.Col(row, "x"))
	y, yOK := parseFloatOk(br.Col(row, "y"))
	if !xOK || !yOK {
		return rec, false, true
	}

	rec = model.TrackingRecord{
		GameID:        gameID,
		PlayID:        playID,
		NflID:         nflID,
		FrameID:       frameID,
		FrameType:     frameType,
		DisplayName:   br.Col(row, "displayName"),
		Time:          br.Col(row, "time"),
		JerseyNumber:  br.Col(row, "jerseyNumber"),
		Club:          br.Col(row, "club"),
		PlayDirection: br.Col(row, "playDirection"),
		X:             x,
		Y:             y,
		S:             parseFloatPtr(br.Col(row, "s")),
		A:             parseFloatPtr(br.Col(row, "a")),
		Dis:           parseFloatPtr(br.Col(row, "dis")),
		O:             parseFloatPtr(br.Col(row, "o")),
		Dir:           parseFloatPtr(br.Col(row, "dir")),
		Event:         br.Col(row, "event"),
		Week:          week,
	}
	return rec, true, false
}
