package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

// trackingColumn binds one output column name to its value extractor.
// Context-backed columns are omitted from the output entirely when the
// source play file did not carry them.
type trackingColumn struct {
	name        string
	fromContext bool
	value       func(r *model.EnrichedRecord) string
}

func ctxCol(r *model.EnrichedRecord, get func(c *model.PlayContext) string) string {
	if r.Context == nil {
		return ""
	}
	return get(r.Context)
}

// trackingColumns is the fixed output column order of the tracking
// table.
var trackingColumns = []trackingColumn{
	{name: "gameId", value: func(r *model.EnrichedRecord) string { return strconv.Itoa(r.GameID) }},
	{name: "playId", value: func(r *model.EnrichedRecord) string { return strconv.Itoa(r.PlayID) }},
	{name: "nflId", value: func(r *model.EnrichedRecord) string { return strconv.Itoa(r.NflID) }},
	{name: "displayName", value: func(r *model.EnrichedRecord) string { return r.DisplayName }},
	{name: "frameId", value: func(r *model.EnrichedRecord) string { return strconv.Itoa(r.FrameID) }},
	{name: "frameType", value: func(r *model.EnrichedRecord) string { return string(r.FrameType) }},
	{name: "time", value: func(r *model.EnrichedRecord) string { return r.Time }},
	{name: "jerseyNumber", value: func(r *model.EnrichedRecord) string { return r.JerseyNumber }},
	{name: "club", value: func(r *model.EnrichedRecord) string { return r.Club }},
	{name: "playDirection", value: func(r *model.EnrichedRecord) string { return r.PlayDirection }},
	{name: "x", value: func(r *model.EnrichedRecord) string { return formatFloat(r.X) }},
	{name: "y", value: func(r *model.EnrichedRecord) string { return formatFloat(r.Y) }},
	{name: "s", value: func(r *model.EnrichedRecord) string { return formatFloatPtr(r.S) }},
	{name: "a", value: func(r *model.EnrichedRecord) string { return formatFloatPtr(r.A) }},
	{name: "dis", value: func(r *model.EnrichedRecord) string { return formatFloatPtr(r.Dis) }},
	{name: "o", value: func(r *model.EnrichedRecord) string { return formatFloatPtr(r.O) }},
	{name: "dir", value: func(r *model.EnrichedRecord) string { return formatFloatPtr(r.Dir) }},
	{name: "event", value: func(r *model.EnrichedRecord) string { return r.Event }},
	{name: "week", value: func(r *model.EnrichedRecord) string { return strconv.Itoa(r.Week) }},
	{name: "quarter", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return formatIntPtr(c.Quarter) })
	}},
	{name: "down", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return formatIntPtr(c.Down) })
	}},
	{name: "yardsToGo", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return formatIntPtr(c.YardsToGo) })
	}},
	{name: "yardlineSide", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return c.YardlineSide })
	}},
	{name: "yardlineNumber", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return formatIntPtr(c.YardlineNumber) })
	}},
	{name: "gameClock", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return c.GameClock })
	}},
	{name: "absoluteYardlineNumber", fromContext: true, value: func(r *model.EnrichedRecord) string {
		return ctxCol(r, func(c *model.PlayContext) string { return formatIntPtr(c.AbsoluteYardlineNumber) })
	}},
	{name: "gameClockInSeconds", value: func(r *model.EnrichedRecord) string { return formatIntPtr(r.GameClockSeconds) }},
	{name: "min_distance", value: func(r *model.EnrichedRecord) string { return distCol(r, func(d *model.DistanceSummary) *float64 { return d.Min }) }},
	{name: "max_distance", value: func(r *model.EnrichedRecord) string { return distCol(r, func(d *model.DistanceSummary) *float64 { return d.Max }) }},
	{name: "mean_distance", value: func(r *model.EnrichedRecord) string { return distCol(r, func(d *model.DistanceSummary) *float64 { return d.Mean }) }},
	{name: "std_distance", value: func(r *model.EnrichedRecord) string { return distCol(r, func(d *model.DistanceSummary) *float64 { return d.Std }) }},
}

func distCol(r *model.EnrichedRecord, get func(d *model.DistanceSummary) *float64) string {
	if r.Distance == nil {
		return ""
	}
	return formatFloatPtr(get(r.Distance))
}

// WriteTracking writes the final tracking table with the fixed column
// order. Context columns absent from the source play file are omitted
// from both header and rows.
func WriteTracking(path string, rows []model.EnrichedRecord, present map[string]bool) error {
	columns := make([]trackingColumn, 0, len(trackingColumns))
	for _, col := range trackingColumns {
		if col.fromContext && !present[col.name] {
			continue
		}
		columns = append(columns, col)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.name
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "output: write tracking header")
	}

	record := make([]string, len(columns))
	for i := range rows {
		for j, col := range columns {
			record[j] = col.value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "output: write tracking row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "output: flush tracking table")
}

// routeColumns is the fixed output column order of the route table.
var routeColumns = []string{"gameId", "playId", "nflId", "routeRan"}

// WriteRoutes writes the route table.
func WriteRoutes(path string, routes []model.PlayerPlay) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(routeColumns); err != nil {
		return eris.Wrap(err, "output: write route header")
	}

	for i := range routes {
		record := []string{
			strconv.Itoa(routes[i].GameID),
			strconv.Itoa(routes[i].PlayID),
			strconv.Itoa(routes[i].NflID),
			routes[i].RouteRan,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "output: write route row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "output: flush route table")
}
