package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"1-9", 1, 9, false},
		{"3-3", 3, 3, false},
		{" 2 - 5 ", 2, 5, false},
		{"4", 4, 4, false},
		{"9-1", 0, 0, true},
		{"0-3", 0, 0, true},
		{"a-b", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		start, end, err := parseWeekRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseWeekRange(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "parseWeekRange(%q)", tt.in)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"QB", "WR"}, splitList("QB,WR"))
	assert.Equal(t, []string{"QB", "WR"}, splitList(" QB , WR ,"))
	assert.Nil(t, splitList(""))
}
