package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFixture writes one CSV fixture into dir.
func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const trackingHeader = "gameId,playId,nflId,frameId,frameType,time,displayName,jerseyNumber,club,playDirection,x,y,s,a,dis,o,dir,event\n"

func floatPtr(v float64) *float64 { return &v }
