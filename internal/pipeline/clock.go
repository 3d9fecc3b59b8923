package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

// ParseGameClock converts a "MM:SS" game-clock string to elapsed
// seconds. Any malformed input yields nil; clock parsing never aborts
// the pipeline.
func ParseGameClock(clock string) *int {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return nil
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}
	total := minutes*60 + seconds
	return &total
}

// NormalizeClocks derives gameClockInSeconds for every enriched row.
// Rows without play context keep a nil value.
func NormalizeClocks(rows []model.EnrichedRecord) model.StageStats {
	start := time.Now()
	stats := model.StageStats{Name: "clock_normalize", RowsIn: int64(len(rows))}

	for i := range rows {
		if rows[i].Context != nil {
			rows[i].GameClockSeconds = ParseGameClock(rows[i].Context.GameClock)
		}
	}

	stats.RowsOut = int64(len(rows))
	stats.Duration = time.Since(start)
	return stats
}
