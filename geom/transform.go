package geom

import "github.com/scottlawsonbc/pvtrace/r3"

// Transform is a node's local affine transform: a rotation followed by a
// translation. There is deliberately no scale field — spec.md §9 leaves
// whether transforms support scale as an open question; this module answers
// it "no". Without scale, a reported intersection t-value never needs
// rescaling when it is converted from local space back to world space,
// because rotation preserves length and the ray direction is unit.
type Transform struct {
	Translation r3.Vec
	Rotation    r3.Mat3x3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: r3.IdentityMat3x3()}
}

// ApplyToPoint maps a local-space point to the space one level up.
func (t Transform) ApplyToPoint(p r3.Point) r3.Point {
	rotated := t.Rotation.MulVec(r3.Vec(p))
	return r3.Point(rotated.Add(t.Translation))
}

// ApplyToVector maps a local-space direction to the space one level up,
// ignoring translation.
func (t Transform) ApplyToVector(v r3.Vec) r3.Vec {
	return t.Rotation.MulVec(v)
}

// Inverse returns the transform that maps back from the space one level up
// into local space.
func (t Transform) Inverse() Transform {
	invRotation := t.Rotation.Transpose()
	return Transform{
		Rotation:    invRotation,
		Translation: invRotation.MulVec(t.Translation.Muls(-1)),
	}
}

// Compose returns the transform equivalent to first applying t, then
// applying outer — i.e. it maps t's local space directly into outer's
// enclosing space. Used to fold a node's chain of ancestors into one
// world transform.
func (t Transform) Compose(outer Transform) Transform {
	return Transform{
		Rotation:    outer.Rotation.Mul(t.Rotation),
		Translation: outer.Rotation.MulVec(t.Translation).Add(outer.Translation),
	}
}

// ToLocal maps a world-space ray into this transform's local space (i.e.
// applies the inverse transform to both origin and direction, renormalizing
// the direction to guard against floating point drift since there is no
// scale to compensate for).
func (t Transform) ToLocal(r Ray) Ray {
	inv := t.Inverse()
	return Ray{
		Origin:    inv.ApplyToPoint(r.Origin),
		Direction: inv.ApplyToVector(r.Direction).Unit(),
	}
}
