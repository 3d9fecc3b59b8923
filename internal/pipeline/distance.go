package pipeline

import (
	"math"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

// ComputeDistances partitions rows by (gameId, playId, frameId) and, for
// each player in a group, summarizes the Euclidean distances to every
// other player present in the same frame. A player alone in its frame
// gets a summary row with all four statistics missing rather than an
// aggregate over an empty set. The brute-force pairwise loop is fine
// here: group size is bounded by the tracked offensive positions per
// play, typically under a dozen.
func ComputeDistances(rows []model.EnrichedRecord) (map[model.PlayerFrameKey]model.DistanceSummary, model.StageStats) {
	start := time.Now()
	stats := model.StageStats{Name: "distance_engine", RowsIn: int64(len(rows))}

	// Group preserving first-appearance order so reruns are
	// byte-identical.
	groups := make(map[model.FrameKey][]int)
	var order []model.FrameKey
	for i := range rows {
		key := rows[i].Frame()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	summaries := make(map[model.PlayerFrameKey]model.DistanceSummary, len(rows))
	for _, key := range order {
		members := groups[key]
		coords := make([]geom.Coord, len(members))
		for i, idx := range members {
			coords[i] = geom.Coord{rows[idx].X, rows[idx].Y}
		}

		for i, idx := range members {
			distances := make([]float64, 0, len(members)-1)
			for j := range members {
				if i == j {
					continue
				}
				distances = append(distances, xy.Distance(coords[i], coords[j]))
			}
			pfk := model.PlayerFrameKey{FrameKey: key, NflID: rows[idx].NflID}
			summaries[pfk] = summarize(distances)
		}
	}

	stats.RowsOut = int64(len(summaries))
	stats.Duration = time.Since(start)
	return summaries, stats
}

// AttachDistances left-joins the distance summaries back onto the
// enriched rows on (gameId, playId, frameId, nflId).
func AttachDistances(rows []model.EnrichedRecord, summaries map[model.PlayerFrameKey]model.DistanceSummary) {
	for i := range rows {
		key := model.PlayerFrameKey{FrameKey: rows[i].Frame(), NflID: rows[i].NflID}
		if s, ok := summaries[key]; ok {
			rows[i].Distance = &s
		}
	}
}

// summarize computes min, max, mean, and population standard deviation.
// An empty distance set yields all-nil statistics.
func summarize(distances []float64) model.DistanceSummary {
	if len(distances) == 0 {
		return model.DistanceSummary{}
	}

	min, max := distances[0], distances[0]
	var sum float64
	for _, d := range distances {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
		sum += d
	}
	mean := sum / float64(len(distances))

	var sqDiff float64
	for _, d := range distances {
		sqDiff += (d - mean) * (d - mean)
	}
	std := math.Sqrt(sqDiff / float64(len(distances)))

	return model.DistanceSummary{Min: &min, Max: &max, Mean: &mean, Std: &std}
}
