// Package surface implements the boundary decision a ray faces at every
// geometry crossing: reflect, transmit, or absorb.
package surface

import (
	"math"
	"math/rand"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// DecisionKind is the outcome of a surface delegate's Resolve call.
type DecisionKind int

const (
	Reflect DecisionKind = iota
	Transmit
	Absorb
)

func (k DecisionKind) String() string {
	switch k {
	case Reflect:
		return "reflect"
	case Transmit:
		return "transmit"
	case Absorb:
		return "absorb"
	default:
		return "unknown"
	}
}

// Incidence describes a ray arriving at a boundary. Direction is the unit
// incoming direction; Normal is the geometry's outward unit normal at the
// hit point, oriented away from the container (N1 side) into the adjacent
// region (N2 side). N1 and N2 are the refractive indices either side of the
// boundary at the ray's wavelength.
type Incidence struct {
	Direction    r3.Vec
	Normal       r3.Vec
	N1, N2       float64
	WavelengthNM float64
}

// Decision is a surface delegate's resolution of an Incidence: which
// outcome occurred and, for Reflect/Transmit, the new unit direction.
type Decision struct {
	Kind      DecisionKind
	Direction r3.Vec
}

// Delegate resolves a boundary incidence into a decision. Implementations
// must be stateless: the same Incidence and a draw from rng must be the only
// inputs to the outcome.
type Delegate interface {
	Resolve(in Incidence, rng *rand.Rand) Decision
}

// Fresnel is the default surface delegate: unpolarised Fresnel reflectance
// computed from the exact Rs/Rp equations (not Schlick's approximation),
// with total internal reflection handled explicitly when sin(theta_t) > 1.
type Fresnel struct{}

var _ Delegate = Fresnel{}

func (Fresnel) Resolve(in Incidence, rng *rand.Rand) Decision {
	d := in.Direction.Unit()
	n := in.Normal.Unit()

	cosI := -d.Dot(n)
	if cosI <= 0 {
		// Ray is approaching the back face of the normal; flip so cosI is
		// always the cosine of the angle of incidence on the near side.
		n = n.Muls(-1)
		cosI = -d.Dot(n)
	}

	n1, n2 := in.N1, in.N2
	niOverNt := n1 / n2
	sin2T := niOverNt * niOverNt * (1 - cosI*cosI)
	if sin2T > 1 {
		return Decision{Kind: Reflect, Direction: r3.Reflect(d, n)}
	}
	cosT := math.Sqrt(1 - sin2T)

	rs := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	rp := (n1*cosT - n2*cosI) / (n1*cosT + n2*cosI)
	reflectance := 0.5 * (rs*rs + rp*rp)

	if rng.Float64() < reflectance {
		return Decision{Kind: Reflect, Direction: r3.Reflect(d, n)}
	}
	refracted, ok := r3.Refract(d, n, niOverNt)
	if !ok {
		// Numerically beyond the critical angle despite sin2T <= 1 above;
		// fall back to reflection rather than propagate a zero vector.
		return Decision{Kind: Reflect, Direction: r3.Reflect(d, n)}
	}
	return Decision{Kind: Transmit, Direction: refracted}
}

// AbsorbingCoating wraps a base delegate (typically Fresnel) and, before
// consulting it, terminates the ray at the surface with probability
// Absorptance. It models a lossy coating such as a metallic contact or dark
// edge seal.
type AbsorbingCoating struct {
	Base        Delegate
	Absorptance float64
}

var _ Delegate = AbsorbingCoating{}

func (c AbsorbingCoating) Resolve(in Incidence, rng *rand.Rand) Decision {
	if rng.Float64() < c.Absorptance {
		return Decision{Kind: Absorb}
	}
	base := c.Base
	if base == nil {
		base = Fresnel{}
	}
	return base.Resolve(in, rng)
}
