package geom

import (
	"math"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Box is an axis-aligned box (in its own local frame — a rotated box is
// expressed by attaching the Box to a node with a rotated Transform) given
// by its Size along each axis, centered at Center.
type Box struct {
	Center r3.Point
	Size   r3.Vec // full extent along X, Y, Z; must be positive.
}

var _ Geometry = Box{}

func (b Box) Validate() error {
	if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
		return newGeometryError("Box", "size %v must have all positive components", b.Size)
	}
	return nil
}

func (b Box) aabb() AABB {
	half := b.Size.Muls(0.5)
	return AABB{Min: b.Center.Subv(half), Max: b.Center.Add(half)}
}

func (b Box) Bounds() AABB { return b.aabb() }

// Intersections uses the slab method: the box is the intersection of three
// axis-aligned slabs, so the entry roots are the max of the per-axis entries
// and the exit root is the min of the per-axis exits.
func (b Box) Intersections(r Ray) []float64 {
	box := b.aabb()
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	tEnter := math.Inf(-1)
	tExit := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return nil
			}
			continue
		}
		invD := 1.0 / dir[axis]
		t0 := (lo[axis] - origin[axis]) * invD
		t1 := (hi[axis] - origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		tEnter = math.Max(tEnter, t0)
		tExit = math.Min(tExit, t1)
	}
	if tEnter > tExit {
		return nil
	}
	return positiveRoots(tEnter, tExit)
}

func (b Box) Contains(p r3.Point) Containment {
	box := b.aabb()
	onAnyFace := isClose(p.X, box.Min.X) || isClose(p.X, box.Max.X) ||
		isClose(p.Y, box.Min.Y) || isClose(p.Y, box.Max.Y) ||
		isClose(p.Z, box.Min.Z) || isClose(p.Z, box.Max.Z)
	inRange := p.X >= box.Min.X-Eps && p.X <= box.Max.X+Eps &&
		p.Y >= box.Min.Y-Eps && p.Y <= box.Max.Y+Eps &&
		p.Z >= box.Min.Z-Eps && p.Z <= box.Max.Z+Eps
	if !inRange {
		return Outside
	}
	if onAnyFace {
		return OnSurface
	}
	return Inside
}

func isClose(a, b float64) bool { return math.Abs(a-b) <= Eps }

// Normal returns the outward normal of the face closest to p, i.e. the axis
// of the slab whose boundary p is nearest to.
func (b Box) Normal(p r3.Point) r3.Vec {
	box := b.aabb()
	local := p.Sub(box.Center())
	half := b.Size.Muls(0.5)

	type candidate struct {
		dist   float64
		normal r3.Vec
	}
	cands := []candidate{
		{math.Abs(half.X - math.Abs(local.X)), r3.Vec{X: sign(local.X)}},
		{math.Abs(half.Y - math.Abs(local.Y)), r3.Vec{Y: sign(local.Y)}},
		{math.Abs(half.Z - math.Abs(local.Z)), r3.Vec{Z: sign(local.Z)}},
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return best.normal
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
