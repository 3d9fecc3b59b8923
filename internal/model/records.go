// Package model defines the typed records flowing through the preparation
// pipeline: roster players, per-frame tracking rows, play-level context,
// per-play player participation, and derived distance summaries.
package model

// FrameType classifies a tracked frame relative to the snap.
type FrameType string

const (
	FrameBeforeSnap FrameType = "BEFORE_SNAP"
	FrameSnap       FrameType = "SNAP"
	FrameAfterSnap  FrameType = "AFTER_SNAP"
)

// Kept reports whether frames of this type survive ingestion. Only
// pre-snap and snap frames are relevant to the prepared tables.
func (t FrameType) Kept() bool {
	return t == FrameBeforeSnap || t == FrameSnap
}

// PlayKey identifies a single play within a game.
type PlayKey struct {
	GameID int
	PlayID int
}

// FrameKey identifies one tracked frame of one play.
type FrameKey struct {
	GameID  int
	PlayID  int
	FrameID int
}

// PlayerFrameKey identifies one player's row within one frame.
type PlayerFrameKey struct {
	FrameKey
	NflID int
}

// Player is one roster row. Only the identifier survives position
// filtering; the struct is not carried past that stage.
type Player struct {
	NflID    int
	Position string
}

// TrackingRecord is one per-frame per-player tracking row after
// ingestion. Identifier fields are integer-coerced; x and y are required
// for the distance engine, the remaining kinematics are pass-through and
// may be absent in the source.
type TrackingRecord struct {
	GameID        int
	PlayID        int
	NflID         int
	FrameID       int
	FrameType     FrameType
	DisplayName   string
	Time          string
	JerseyNumber  string
	Club          string
	PlayDirection string
	X             float64
	Y             float64
	S             *float64
	A             *float64
	Dis           *float64
	O             *float64
	Dir           *float64
	Event         string
	Week          int
}

// Play returns the record's play key.
func (r *TrackingRecord) Play() PlayKey {
	return PlayKey{GameID: r.GameID, PlayID: r.PlayID}
}

// Frame returns the record's frame key.
func (r *TrackingRecord) Frame() FrameKey {
	return FrameKey{GameID: r.GameID, PlayID: r.PlayID, FrameID: r.FrameID}
}

// PlayContext carries the play-level fields merged onto tracking rows.
// Numeric fields are nil when absent from the source row.
type PlayContext struct {
	Quarter                *int
	Down                   *int
	YardsToGo              *int
	YardlineSide           string
	YardlineNumber         *int
	GameClock              string
	AbsoluteYardlineNumber *int
}

// Play is one play-level row with its normalized dropback flag.
type Play struct {
	GameID     int
	PlayID     int
	IsDropback bool
	Context    PlayContext
}

// Key returns the play's composite key.
func (p *Play) Key() PlayKey {
	return PlayKey{GameID: p.GameID, PlayID: p.PlayID}
}

// PlayerPlay is one row of the route table: a player who ran a route on
// a given play.
type PlayerPlay struct {
	GameID   int
	PlayID   int
	NflID    int
	RouteRan string
}

// DistanceSummary holds one player's distance statistics within one
// frame group. All four fields are nil for a player alone in its frame,
// where the distance set is empty.
type DistanceSummary struct {
	Min  *float64
	Max  *float64
	Mean *float64
	Std  *float64
}

// EnrichedRecord is a tracking row after the play-context left join and
// the derivation stages. Context is nil when no play row matched;
// GameClockSeconds is nil when the clock text did not parse.
type EnrichedRecord struct {
	TrackingRecord
	Context          *PlayContext
	GameClockSeconds *int
	Distance         *DistanceSummary
}
