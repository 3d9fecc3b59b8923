package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-analytics/trackprep/internal/config"
)

func pipelineConfig(rawDir, outDir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			RawDir:    rawDir,
			OutputDir: outDir,
			Positions: []string{"QB", "RB", "WR", "TE", "T", "G", "C"},
			Weeks:     config.WeeksConfig{Start: 1, End: 1},
			BlockSize: 50000,
		},
		Ingest: config.IngestConfig{Concurrency: 2},
	}
}

func writeScenarioFixtures(t *testing.T, rawDir string) {
	t.Helper()
	writeFixture(t, rawDir, "players.csv",
		"nflId,position\n"+
			"1,QB\n"+
			"2,WR\n"+
			"3,K\n")
	writeFixture(t, rawDir, "tracking_week_1.csv", trackingHeader+
		trackingRow("100", "10", "1", "1", "SNAP", 0, 0)+
		trackingRow("100", "10", "2", "1", "SNAP", 3, 4)+
		trackingRow("100", "10", "3", "1", "SNAP", 10, 10))
	writeFixture(t, rawDir, "plays.csv",
		"gameId,playId,quarter,down,yardsToGo,yardlineSide,yardlineNumber,gameClock,absoluteYardlineNumber,isDropback\n"+
			"100,10,1,2,7,BUF,35,14:02,45,TRUE\n")
	writeFixture(t, rawDir, "player_play.csv",
		"gameId,playId,nflId,routeRan\n"+
			"100,10,2,GO\n"+
			"100,10,1,\n")
}

func TestPipeline_EndToEnd(t *testing.T) {
	rawDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "combined")
	writeScenarioFixtures(t, rawDir)

	result, err := New(pipelineConfig(rawDir, outDir), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TrackingRows)
	assert.Equal(t, int64(1), result.RouteRows)

	records := readCSV(t, filepath.Join(outDir, "final_tracking_data.csv"))
	require.Len(t, records, 3) // header + players 1 and 2; the kicker never reaches the distance engine

	header := records[0]
	byName := func(row []string, name string) string {
		for i, col := range header {
			if col == name {
				return row[i]
			}
		}
		t.Fatalf("column %s not in header", name)
		return ""
	}

	seen := map[string]bool{}
	for _, row := range records[1:] {
		seen[byName(row, "nflId")] = true
		assert.Equal(t, "100", byName(row, "gameId"))
		assert.Equal(t, "10", byName(row, "playId"))
		assert.Equal(t, "SNAP", byName(row, "frameType"))
		assert.Equal(t, "1", byName(row, "week"))
		assert.Equal(t, "14:02", byName(row, "gameClock"))
		assert.Equal(t, "842", byName(row, "gameClockInSeconds"))
		assert.Equal(t, "5", byName(row, "min_distance"))
		assert.Equal(t, "5", byName(row, "max_distance"))
		assert.Equal(t, "5", byName(row, "mean_distance"))
		assert.Equal(t, "0", byName(row, "std_distance"))
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true}, seen)

	routes := readCSV(t, filepath.Join(outDir, "final_player_play_data.csv"))
	require.Len(t, routes, 2)
	assert.Equal(t, []string{"100", "10", "2", "GO"}, routes[1])
}

func TestPipeline_Idempotent(t *testing.T) {
	rawDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "combined")
	writeScenarioFixtures(t, rawDir)

	p := New(pipelineConfig(rawDir, outDir), nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	tracking1, err := os.ReadFile(filepath.Join(outDir, "final_tracking_data.csv"))
	require.NoError(t, err)
	routes1, err := os.ReadFile(filepath.Join(outDir, "final_player_play_data.csv"))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	tracking2, err := os.ReadFile(filepath.Join(outDir, "final_tracking_data.csv"))
	require.NoError(t, err)
	routes2, err := os.ReadFile(filepath.Join(outDir, "final_player_play_data.csv"))
	require.NoError(t, err)

	assert.Equal(t, tracking1, tracking2)
	assert.Equal(t, routes1, routes2)
}

func TestPipeline_MissingSourceFileWritesNoOutput(t *testing.T) {
	rawDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "combined")
	writeScenarioFixtures(t, rawDir)
	require.NoError(t, os.Remove(filepath.Join(rawDir, "player_play.csv")))

	_, err := New(pipelineConfig(rawDir, outDir), nil).Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "final_tracking_data.csv"))
	assert.True(t, os.IsNotExist(statErr), "no partial output should be written")
}

func TestPipeline_TrackingRestrictedToPassPlays(t *testing.T) {
	rawDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "combined")
	writeScenarioFixtures(t, rawDir)

	// Add a non-dropback play with tracking rows; none may survive.
	writeFixture(t, rawDir, "plays.csv",
		"gameId,playId,quarter,down,yardsToGo,yardlineSide,yardlineNumber,gameClock,absoluteYardlineNumber,isDropback\n"+
			"100,10,1,2,7,BUF,35,14:02,45,TRUE\n"+
			"100,30,1,3,2,BUF,40,13:10,50,FALSE\n")
	writeFixture(t, rawDir, "tracking_week_1.csv", trackingHeader+
		trackingRow("100", "10", "1", "1", "SNAP", 0, 0)+
		trackingRow("100", "10", "2", "1", "SNAP", 3, 4)+
		trackingRow("100", "30", "1", "1", "SNAP", 7, 7)+
		trackingRow("100", "30", "2", "1", "BEFORE_SNAP", 8, 8))

	result, err := New(pipelineConfig(rawDir, outDir), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TrackingRows)

	records := readCSV(t, filepath.Join(outDir, "final_tracking_data.csv"))
	for _, row := range records[1:] {
		assert.Equal(t, "10", row[1], "only the dropback play survives")
	}
}
