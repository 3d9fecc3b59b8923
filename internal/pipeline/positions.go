package pipeline

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/csvio"
	"github.com/gridiron-analytics/trackprep/internal/model"
)

const playersFile = "players.csv"

// LoadValidPlayers reads the roster file and returns the set of player
// identifiers whose position is in the configured set. Rows whose
// identifier fails integer coercion are dropped, not errors.
func LoadValidPlayers(rawDir string, positions []string) (map[int]struct{}, model.StageStats, error) {
	start := time.Now()
	stats := model.StageStats{Name: "position_filter"}

	table, err := csvio.ReadFile(filepath.Join(rawDir, playersFile))
	if err != nil {
		return nil, stats, err
	}

	valid := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		valid[p] = struct{}{}
	}

	ids := make(map[int]struct{})
	for _, row := range table.Rows {
		stats.RowsIn++
		if _, ok := valid[table.Col(row, "position")]; !ok {
			continue
		}
		id, ok := parseID(table.Col(row, "nflId"))
		if !ok {
			stats.Dropped++
			continue
		}
		ids[id] = struct{}{}
	}
	stats.RowsOut = int64(len(ids))
	stats.Duration = time.Since(start)

	zap.L().Info("filtered players by position",
		zap.Int("players", len(ids)),
		zap.Int64("dropped", stats.Dropped))

	return ids, stats, nil
}
