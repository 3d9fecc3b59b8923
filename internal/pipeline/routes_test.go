package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

const playerPlayHeader = "gameId,playId,nflId,routeRan,wasTargettedReceiver\n"

func TestFilterRoutes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "player_play.csv", playerPlayHeader+
		"100,10,1,GO,1\n"+
		"100,10,2,,0\n"+ // no route -> removed
		"100,10,3,SLANT,0\n"+
		"100,20,1,CROSS,1\n")

	routes, stats, err := FilterRoutes(dir)
	require.NoError(t, err)

	assert.Equal(t, []model.PlayerPlay{
		{GameID: 100, PlayID: 10, NflID: 1, RouteRan: "GO"},
		{GameID: 100, PlayID: 10, NflID: 3, RouteRan: "SLANT"},
		{GameID: 100, PlayID: 20, NflID: 1, RouteRan: "CROSS"},
	}, routes)

	assert.Equal(t, int64(4), stats.RowsIn)
	assert.Equal(t, int64(3), stats.RowsOut)
	assert.Equal(t, int64(0), stats.Dropped)
}

func TestFilterRoutes_DropsUncoercibleIDs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "player_play.csv", playerPlayHeader+
		"bad,10,1,GO,1\n"+
		"100,10,xyz,OUT,0\n"+
		"100,10,2,POST,0\n")

	routes, stats, err := FilterRoutes(dir)
	require.NoError(t, err)

	require.Len(t, routes, 1)
	assert.Equal(t, "POST", routes[0].RouteRan)
	assert.Equal(t, int64(2), stats.Dropped)
}

func TestFilterRoutes_MissingFileIsFatal(t *testing.T) {
	_, _, err := FilterRoutes(t.TempDir())
	require.Error(t, err)
}
