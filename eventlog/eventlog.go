// Package eventlog persists a trace.Engine's event stream into the two-table
// schema the rest of the system (reporting queries, the CLI's count/spectrum
// subcommands) reads back: one row per ray state in `ray`, one row per
// transition in `event`. Sink implementations adapt trace.Sink so the engine
// itself never depends on storage.
package eventlog

import (
	"github.com/scottlawsonbc/pvtrace/r3"
	"github.com/scottlawsonbc/pvtrace/trace"
)

// RayRow is one row of the `ray` table: a ray's state as of one event,
// keyed by ThrowID (the ray's monotonic id, shared by every row belonging
// to the same ray's history).
type RayRow struct {
	ThrowID          int64
	X, Y, Z          float64
	I, J, K          float64 // direction components
	WavelengthNM     float64
	Source           string
	TravelledNM      float64
	DurationSeconds  float64
}

// EventRow is one row of the `event` table: one transition. RayID holds the
// throw id (trace.Ray.ID) of the ray it belongs to; SQLiteSink stores the
// rowid of the corresponding ray row in the table's ray_id column instead.
type EventRow struct {
	RayID     int64
	Kind      string
	Component string
	Hit       string
	Container string
	Adjacent  string
	Facet     string
	NI, NJ, NK float64
}

// toRows converts one trace.Event into the pair of rows a sink stores it as.
func toRows(e trace.Event) (RayRow, EventRow) {
	ray := RayRow{
		ThrowID:         e.Ray.ID,
		X:               e.Ray.Position.X,
		Y:               e.Ray.Position.Y,
		Z:               e.Ray.Position.Z,
		I:               e.Ray.Direction.X,
		J:               e.Ray.Direction.Y,
		K:               e.Ray.Direction.Z,
		WavelengthNM:    e.Ray.WavelengthNM,
		Source:          e.Ray.Source,
		TravelledNM:     float64(e.Ray.Travelled),
		DurationSeconds: e.Ray.Elapsed.Seconds(),
	}
	normal := e.Normal
	if normal.IsZero() {
		normal = r3.Vec{}
	}
	event := EventRow{
		RayID:     e.Ray.ID,
		Kind:      e.Kind.String(),
		Component: e.Component,
		Hit:       e.Hit,
		Container: e.Container,
		Adjacent:  e.Adjacent,
		Facet:     e.Facet,
		NI:        normal.X,
		NJ:        normal.Y,
		NK:        normal.Z,
	}
	return ray, event
}
