// Package trace implements the photon-tracing engine: the main loop that
// advances one ray at a time against a scene graph, sampling volume
// interactions and surface crossings, and emitting an ordered event history.
package trace

import (
	"time"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/r3"
)

// Ray is an immutable ray state. Every transition in the engine produces a
// new Ray value; nothing is ever mutated in place. ID is assigned once at
// GENERATE and carried by every descendant segment of the same throw,
// including re-emitted segments after a luminophore absorption.
type Ray struct {
	ID           int64
	Position     r3.Point
	Direction    r3.Vec
	WavelengthNM float64
	Source       string
	Travelled    geom.Distance
	Elapsed      time.Duration
	Alive        bool
}

// at returns the point reached after travelling distance t along Direction
// from Position.
func (r Ray) at(t float64) r3.Point {
	return r.Position.Add(r.Direction.Muls(t))
}
