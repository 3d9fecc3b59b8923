package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/csvio"
	"github.com/gridiron-analytics/trackprep/internal/model"
)

const playerPlayFile = "player_play.csv"

// FilterRoutes derives the route table from the player-play file:
// identifier fields integer-coerced (uncoercible rows dropped), rows
// kept only when routeRan is non-null, projected to exactly
// (gameId, playId, nflId, routeRan). Independent of the tracking branch.
func FilterRoutes(rawDir string) ([]model.PlayerPlay, model.StageStats, error) {
	start := time.Now()
	stats := model.StageStats{Name: "route_filter"}

	table, err := csvio.ReadFile(filepath.Join(rawDir, playerPlayFile))
	if err != nil {
		return nil, stats, err
	}

	var routes []model.PlayerPlay
	for _, row := range table.Rows {
		stats.RowsIn++

		route := strings.TrimSpace(table.Col(row, "routeRan"))
		if route == "" {
			continue
		}

		gameID, gOK := parseID(table.Col(row, "gameId"))
		playID, pOK := parseID(table.Col(row, "playId"))
		nflID, nOK := parseID(table.Col(row, "nflId"))
		if !gOK || !pOK || !nOK {
			stats.Dropped++
			continue
		}

		routes = append(routes, model.PlayerPlay{
			GameID:   gameID,
			PlayID:   playID,
			NflID:    nflID,
			RouteRan: route,
		})
	}

	stats.RowsOut = int64(len(routes))
	stats.Duration = time.Since(start)

	zap.L().Info("filtered player play data",
		zap.Int64("routes", stats.RowsOut),
		zap.Int64("dropped", stats.Dropped))

	return routes, stats, nil
}
