package geom

import (
	"math"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Sphere is a sphere centered at Center with the given Radius, both in
// local scene units.
type Sphere struct {
	Center r3.Point
	Radius Distance
}

var _ Geometry = Sphere{}

func (s Sphere) Validate() error {
	if s.Radius <= 0 {
		return newGeometryError("Sphere", "radius %v must be > 0", s.Radius)
	}
	return nil
}

func (s Sphere) Bounds() AABB {
	r := float64(s.Radius)
	return AABB{
		Min: r3.Point{X: s.Center.X - r, Y: s.Center.Y - r, Z: s.Center.Z - r},
		Max: r3.Point{X: s.Center.X + r, Y: s.Center.Y + r, Z: s.Center.Z + r},
	}
}

// Intersections returns the ascending positive roots of |o+td-c|^2 = R^2.
// A tangent ray (zero discriminant) touches without crossing the surface
// and yields no roots.
func (s Sphere) Intersections(r Ray) []float64 {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - float64(s.Radius*s.Radius)
	discriminant := b*b - a*c
	if discriminant <= 0 {
		return nil
	}
	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / a
	t1 := (-b + sqrtD) / a
	return positiveRoots(t0, t1)
}

func (s Sphere) Contains(p r3.Point) Containment {
	d := p.Sub(s.Center).Length()
	r := float64(s.Radius)
	switch {
	case math.Abs(d-r) <= Eps:
		return OnSurface
	case d < r:
		return Inside
	default:
		return Outside
	}
}

func (s Sphere) Normal(p r3.Point) r3.Vec {
	return p.Sub(s.Center).Unit()
}

// positiveRoots sorts t0, t1 ascending and drops roots within Eps of zero
// (the ray's own origin) or negative, per geom.Eps.
func positiveRoots(ts ...float64) []float64 {
	var out []float64
	for _, t := range ts {
		if t > Eps {
			out = append(out, t)
		}
	}
	// Simple insertion sort; len(ts) is small (2-6) for the analytic shapes,
	// while a Mesh passes one root per triangle the ray crosses.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
