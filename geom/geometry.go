package geom

import "github.com/scottlawsonbc/pvtrace/r3"

// Containment describes where a point lies relative to a Geometry's surface.
type Containment int

const (
	Outside Containment = iota
	OnSurface
	Inside
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case OnSurface:
		return "on-surface"
	case Inside:
		return "inside"
	default:
		return "invalid"
	}
}

// Geometry is a closed surface capable of answering the three queries the
// intersection service and the tracing engine need: where a world-space ray
// crosses it, whether a world-space point is inside it, and the outward
// normal at a surface point. All methods receive and return values already
// expressed in the geometry's own local frame — transforming a world ray
// into local space is the scene graph's job, not the geometry's.
type Geometry interface {
	// Intersections returns every positive-t parameter at which r crosses
	// the surface, ascending, with roots within Eps of 0 dropped so a ray
	// leaving the surface does not immediately re-intersect it.
	Intersections(r Ray) []float64

	// Contains reports whether p lies inside, on, or outside the surface.
	Contains(p r3.Point) Containment

	// Normal returns the outward unit normal at a point on (or very near)
	// the surface. Behavior is undefined for points far from the surface.
	Normal(p r3.Point) r3.Vec

	// Bounds returns an axis-aligned bounding box enclosing the geometry.
	Bounds() AABB

	// Validate reports whether the geometry's parameters are physically
	// sensible (positive radius, closed mesh, ...).
	Validate() error
}
