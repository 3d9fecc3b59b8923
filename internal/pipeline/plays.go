package pipeline

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/csvio"
	"github.com/gridiron-analytics/trackprep/internal/model"
)

const playsFile = "plays.csv"

// contextColumns are the play-level fields carried onto tracking rows,
// in output order.
var contextColumns = []string{
	"quarter",
	"down",
	"yardsToGo",
	"yardlineSide",
	"yardlineNumber",
	"gameClock",
	"absoluteYardlineNumber",
}

// PlayTable holds the parsed play file: one normalized row per play,
// keyed for the downstream joins, plus the set of context columns the
// source file actually carried.
type PlayTable struct {
	Plays   []model.Play
	Present map[string]bool

	byKey map[model.PlayKey]*model.Play
}

// Lookup returns the play row for key, or nil.
func (pt *PlayTable) Lookup(key model.PlayKey) *model.Play {
	return pt.byKey[key]
}

// LoadPlays reads and normalizes the play file once for both the
// pass-play filter and the context merge. Rows whose identifiers fail
// integer coercion are dropped; the isDropback flag is normalized so
// missing and unrecognized values read as false.
func LoadPlays(rawDir string) (*PlayTable, model.StageStats, error) {
	start := time.Now()
	stats := model.StageStats{Name: "play_load"}

	table, err := csvio.ReadFile(filepath.Join(rawDir, playsFile))
	if err != nil {
		return nil, stats, err
	}

	pt := &PlayTable{
		Present: make(map[string]bool, len(contextColumns)),
		byKey:   make(map[model.PlayKey]*model.Play),
	}
	for _, col := range contextColumns {
		pt.Present[col] = table.HasCol(col)
	}

	for _, row := range table.Rows {
		stats.RowsIn++
		gameID, gOK := parseID(table.Col(row, "gameId"))
		playID, pOK := parseID(table.Col(row, "playId"))
		if !gOK || !pOK {
			stats.Dropped++
			continue
		}

		play := model.Play{
			GameID:     gameID,
			PlayID:     playID,
			IsDropback: isDropback(table.Col(row, "isDropback")),
			Context: model.PlayContext{
				Quarter:                parseIntPtr(table.Col(row, "quarter")),
				Down:                   parseIntPtr(table.Col(row, "down")),
				YardsToGo:              parseIntPtr(table.Col(row, "yardsToGo")),
				YardlineSide:           table.Col(row, "yardlineSide"),
				YardlineNumber:         parseIntPtr(table.Col(row, "yardlineNumber")),
				GameClock:              table.Col(row, "gameClock"),
				AbsoluteYardlineNumber: parseIntPtr(table.Col(row, "absoluteYardlineNumber")),
			},
		}
		pt.Plays = append(pt.Plays, play)
	}
	for i := range pt.Plays {
		pt.byKey[pt.Plays[i].Key()] = &pt.Plays[i]
	}

	stats.RowsOut = int64(len(pt.Plays))
	stats.Duration = time.Since(start)

	zap.L().Info("loaded plays",
		zap.Int64("plays", stats.RowsOut),
		zap.Int64("dropped", stats.Dropped))

	return pt, stats, nil
}

// FilterPassPlays inner-joins the tracking table against the set of
// plays whose normalized isDropback flag is true, removing rows for
// every other play.
func FilterPassPlays(tracking []model.TrackingRecord, plays *PlayTable) ([]model.TrackingRecord, model.StageStats) {
	start := time.Now()
	stats := model.StageStats{Name: "pass_play_filter", RowsIn: int64(len(tracking))}

	passKeys := make(map[model.PlayKey]struct{})
	for i := range plays.Plays {
		if plays.Plays[i].IsDropback {
			passKeys[plays.Plays[i].Key()] = struct{}{}
		}
	}

	filtered := tracking[:0]
	for i := range tracking {
		if _, ok := passKeys[tracking[i].Play()]; ok {
			filtered = append(filtered, tracking[i])
		}
	}

	stats.RowsOut = int64(len(filtered))
	stats.Duration = time.Since(start)

	zap.L().Info("filtered pass plays",
		zap.Int("pass_plays", len(passKeys)),
		zap.Int64("rows_kept", stats.RowsOut))

	return filtered, stats
}

// MergePlayContext left-joins the projected play context onto each
// tracking row. Every tracking row is retained; rows with no matching
// play carry a nil context.
func MergePlayContext(tracking []model.TrackingRecord, plays *PlayTable) ([]model.EnrichedRecord, model.StageStats) {
	start := time.Now()
	stats := model.StageStats{Name: "play_context_merge", RowsIn: int64(len(tracking))}

	enriched := make([]model.EnrichedRecord, len(tracking))
	for i := range tracking {
		enriched[i] = model.EnrichedRecord{TrackingRecord: tracking[i]}
		if play := plays.Lookup(tracking[i].Play()); play != nil {
			ctx := play.Context
			enriched[i].Context = &ctx
		}
	}

	stats.RowsOut = int64(len(enriched))
	stats.Duration = time.Since(start)

	return enriched, stats
}
