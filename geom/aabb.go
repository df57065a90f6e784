package geom

import (
	"math"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// AABB is an axis-aligned bounding box, used by Bounds() and by the mesh
// BVH to prune triangle tests. It is not itself a Geometry.
type AABB struct {
	Min r3.Point
	Max r3.Point
}

// Union returns the smallest AABB enclosing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: r3.Point{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: r3.Point{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// Center returns the AABB's midpoint.
func (b AABB) Center() r3.Point {
	return r3.Point{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// LongestAxis returns 0, 1, or 2 for the axis (X, Y, Z) along which b is
// widest, used to choose a BVH split axis.
func (b AABB) LongestAxis() int {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	dz := b.Max.Z - b.Min.Z
	switch {
	case dx > dy && dx > dz:
		return 0
	case dy > dz:
		return 1
	default:
		return 2
	}
}

// Hit reports whether r passes through b within the parametric range
// [tmin, tmax], using the slab method. The mesh BVH uses it as its pruning
// test.
func (b AABB) Hit(r Ray, tmin, tmax float64) bool {
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		invD := 1.0 / dir[axis]
		t0 := (lo[axis] - origin[axis]) * invD
		t1 := (hi[axis] - origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(t0, tmin)
		tmax = math.Min(t1, tmax)
		if tmax <= tmin {
			return false
		}
	}
	return true
}
