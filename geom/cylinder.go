package geom

import (
	"math"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Cylinder is a finite, capped cylinder: a curved lateral surface between
// two disk end caps, with its axis running from Origin along Direction for
// Height scene units.
type Cylinder struct {
	Origin    r3.Point
	Direction r3.Vec // need not be unit; normalized internally.
	Radius    Distance
	Height    Distance
}

var _ Geometry = Cylinder{}

func (c Cylinder) Validate() error {
	if c.Radius <= 0 {
		return newGeometryError("Cylinder", "radius %v must be > 0", c.Radius)
	}
	if c.Height <= 0 {
		return newGeometryError("Cylinder", "height %v must be > 0", c.Height)
	}
	if c.Direction.IsZero() {
		return newGeometryError("Cylinder", "direction must be non-zero")
	}
	return nil
}

func (c Cylinder) axis() r3.Vec { return c.Direction.Unit() }

func (c Cylinder) Bounds() AABB {
	d := c.axis()
	var orthogonal r3.Vec
	if math.Abs(d.X) > math.Abs(d.Y) {
		orthogonal = r3.Vec{X: -d.Z, Y: 0, Z: d.X}.Unit()
	} else {
		orthogonal = r3.Vec{X: 0, Y: d.Z, Z: -d.Y}.Unit()
	}
	u := orthogonal
	v := d.Cross(u)

	var points []r3.Point
	for i := 0; i <= 1; i++ {
		base := c.Origin.Add(d.Muls(float64(i) * float64(c.Height)))
		for theta := 0.0; theta < 2*math.Pi; theta += math.Pi / 4 {
			points = append(points, base.
				Add(u.Muls(float64(c.Radius) * math.Cos(theta))).
				Add(v.Muls(float64(c.Radius) * math.Sin(theta))))
		}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = r3.Point{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Point{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return AABB{Min: min, Max: max}
}

// Intersections collects roots from the quadratic lateral-surface equation
// (clipped to the cylinder's height range) and from the two end-cap disks.
func (c Cylinder) Intersections(r Ray) []float64 {
	d := c.axis()
	oc := r.Origin.Sub(c.Origin)

	dDotRd := d.Dot(r.Direction)
	dDotOc := d.Dot(oc)
	rdPerp := r.Direction.Sub(d.Muls(dDotRd))
	ocPerp := oc.Sub(d.Muls(dDotOc))

	a := rdPerp.Dot(rdPerp)
	b := 2.0 * rdPerp.Dot(ocPerp)
	cc := ocPerp.Dot(ocPerp) - float64(c.Radius*c.Radius)

	var roots []float64
	if a > Eps {
		discriminant := b*b - 4*a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			for _, t := range []float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
				if t <= Eps {
					continue
				}
				y := dDotOc + t*dDotRd
				if y >= 0 && y <= float64(c.Height) {
					roots = append(roots, t)
				}
			}
		}
	}

	caps := []struct {
		center r3.Point
		normal r3.Vec
	}{
		{c.Origin, d.Muls(-1)},
		{c.Origin.Add(d.Muls(float64(c.Height))), d},
	}
	for _, cap := range caps {
		denom := cap.normal.Dot(r.Direction)
		if math.Abs(denom) < Eps {
			continue
		}
		t := cap.normal.Dot(cap.center.Sub(r.Origin)) / denom
		if t <= Eps {
			continue
		}
		p := r.At(t)
		if p.Sub(cap.center).Dot(p.Sub(cap.center)) <= float64(c.Radius*c.Radius) {
			roots = append(roots, t)
		}
	}
	return positiveRoots(roots...)
}

func (c Cylinder) Contains(p r3.Point) Containment {
	d := c.axis()
	rel := p.Sub(c.Origin)
	y := d.Dot(rel)
	radial := rel.Sub(d.Muls(y)).Length()
	r := float64(c.Radius)
	h := float64(c.Height)

	if y < -Eps || y > h+Eps || radial > r+Eps {
		return Outside
	}
	onCap := isClose(y, 0) || isClose(y, h)
	onSide := isClose(radial, r)
	if (onCap && radial <= r+Eps) || (onSide && y >= -Eps && y <= h+Eps) {
		return OnSurface
	}
	return Inside
}

func (c Cylinder) Normal(p r3.Point) r3.Vec {
	d := c.axis()
	rel := p.Sub(c.Origin)
	y := d.Dot(rel)
	h := float64(c.Height)

	if isClose(y, 0) {
		return d.Muls(-1)
	}
	if isClose(y, h) {
		return d
	}
	radialVec := rel.Sub(d.Muls(y))
	return radialVec.Unit()
}
