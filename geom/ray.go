package geom

import "github.com/scottlawsonbc/pvtrace/r3"

// Ray is the minimal geometric ray a Geometry needs to compute
// intersections: an origin and a unit direction. The tracing engine's
// richer Ray (wavelength, history, liveness) lives in package trace and
// reduces to this one when it asks a Geometry a question.
type Ray struct {
	Origin    r3.Point
	Direction r3.Vec
}

// At returns the point reached by travelling distance t along the ray.
func (r Ray) At(t float64) r3.Point {
	return r.Origin.Add(r.Direction.Muls(t))
}
