package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

const playsHeader = "gameId,playId,quarter,down,yardsToGo,yardlineSide,yardlineNumber,gameClock,absoluteYardlineNumber,isDropback\n"

func TestLoadPlays(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "plays.csv", playsHeader+
		"100,10,1,2,7,BUF,35,14:02,45,TRUE\n"+
		"100,20,1,3,2,KC,12,,88,false\n"+
		"bad,30,1,1,10,KC,50,15:00,50,TRUE\n")

	plays, stats, err := LoadPlays(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.RowsIn)
	assert.Equal(t, int64(2), stats.RowsOut)
	assert.Equal(t, int64(1), stats.Dropped)

	pass := plays.Lookup(model.PlayKey{GameID: 100, PlayID: 10})
	require.NotNil(t, pass)
	assert.True(t, pass.IsDropback)
	require.NotNil(t, pass.Context.Quarter)
	assert.Equal(t, 1, *pass.Context.Quarter)
	assert.Equal(t, "BUF", pass.Context.YardlineSide)
	assert.Equal(t, "14:02", pass.Context.GameClock)

	run := plays.Lookup(model.PlayKey{GameID: 100, PlayID: 20})
	require.NotNil(t, run)
	assert.False(t, run.IsDropback)
	assert.Equal(t, "", run.Context.GameClock)

	assert.Nil(t, plays.Lookup(model.PlayKey{GameID: 999, PlayID: 1}))
}

func TestLoadPlays_ContextColumnPresence(t *testing.T) {
	dir := t.TempDir()
	// No absoluteYardlineNumber column in this export.
	writeFixture(t, dir, "plays.csv",
		"gameId,playId,quarter,down,yardsToGo,yardlineSide,yardlineNumber,gameClock,isDropback\n"+
			"100,10,1,1,10,BUF,25,15:00,TRUE\n")

	plays, _, err := LoadPlays(dir)
	require.NoError(t, err)

	assert.True(t, plays.Present["quarter"])
	assert.True(t, plays.Present["gameClock"])
	assert.False(t, plays.Present["absoluteYardlineNumber"])
}

func TestFilterPassPlays(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "plays.csv", playsHeader+
		"100,10,1,1,10,BUF,25,15:00,60,TRUE\n"+
		"100,20,1,2,5,BUF,30,14:20,65,FALSE\n")
	plays, _, err := LoadPlays(dir)
	require.NoError(t, err)

	tracking := []model.TrackingRecord{
		{GameID: 100, PlayID: 10, NflID: 1, FrameID: 1},
		{GameID: 100, PlayID: 20, NflID: 1, FrameID: 1}, // not a dropback
		{GameID: 100, PlayID: 10, NflID: 2, FrameID: 1},
		{GameID: 999, PlayID: 10, NflID: 1, FrameID: 1}, // unknown play
	}

	filtered, stats := FilterPassPlays(tracking, plays)

	require.Len(t, filtered, 2)
	for _, rec := range filtered {
		assert.Equal(t, model.PlayKey{GameID: 100, PlayID: 10}, rec.Play())
	}
	assert.Equal(t, int64(4), stats.RowsIn)
	assert.Equal(t, int64(2), stats.RowsOut)
}

func TestMergePlayContext_LeftJoin(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "plays.csv", playsHeader+
		"100,10,2,1,10,BUF,25,08:15,60,TRUE\n")
	plays, _, err := LoadPlays(dir)
	require.NoError(t, err)

	tracking := []model.TrackingRecord{
		{GameID: 100, PlayID: 10, NflID: 1, FrameID: 1},
		{GameID: 100, PlayID: 99, NflID: 1, FrameID: 1}, // no matching play
	}

	enriched, stats := MergePlayContext(tracking, plays)

	require.Len(t, enriched, 2)
	assert.Equal(t, int64(2), stats.RowsOut)

	require.NotNil(t, enriched[0].Context)
	assert.Equal(t, "08:15", enriched[0].Context.GameClock)
	require.NotNil(t, enriched[0].Context.Quarter)
	assert.Equal(t, 2, *enriched[0].Context.Quarter)

	// Every tracking row is retained even without a matching play.
	assert.Nil(t, enriched[1].Context)
}
