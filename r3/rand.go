package r3

import (
	"math"
	"math/rand"
)

// RandomUnitVector returns a direction uniformly distributed on the surface
// of the unit sphere, the isotropic phase function and the default
// divergence-free emission direction.
func RandomUnitVector(rng *rand.Rand) Vec {
	azimuth := rng.Float64() * 2 * math.Pi
	z := rng.Float64()*2 - 1
	radius := math.Sqrt(1 - z*z)
	return Vec{
		X: radius * math.Cos(azimuth),
		Y: radius * math.Sin(azimuth),
		Z: z,
	}
}

// RandomInUnitSphere returns a vector uniformly distributed within the unit
// ball (length < 1), by rejection sampling.
func RandomInUnitSphere(rng *rand.Rand) Vec {
	for {
		p := Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}.Muls(2).Sub(Vec{X: 1, Y: 1, Z: 1})
		if p.Length() < 1.0 {
			return p
		}
	}
}

// RandomInUnitDisk returns a vector uniformly distributed within the unit
// disk in the XY-plane, by rejection sampling.
func RandomInUnitDisk(rng *rand.Rand) Vec {
	for {
		p := Vec{X: rng.Float64(), Y: rng.Float64()}.Muls(2).Sub(Vec{X: 1, Y: 1})
		if p.Dot(p) < 1.0 {
			return p
		}
	}
}

// RandomCosineHemisphere samples a cosine-weighted direction on the
// hemisphere around normal.
func RandomCosineHemisphere(rng *rand.Rand, normal Vec) Vec {
	u1 := rng.Float64()
	u2 := rng.Float64()
	r1 := math.Sqrt(u1)
	theta := 2 * math.Pi * u2
	x := r1 * math.Cos(theta)
	y := r1 * math.Sin(theta)
	z := math.Sqrt(1 - u1)

	var tangent Vec
	if math.Abs(normal.X) > math.Abs(normal.Y) {
		tangent = Vec{X: -normal.Z, Y: 0, Z: normal.X}.Unit()
	} else {
		tangent = Vec{X: 0, Y: normal.Z, Z: -normal.Y}.Unit()
	}
	bitangent := normal.Cross(tangent)
	return tangent.Muls(x).Add(bitangent.Muls(y)).Add(normal.Muls(z)).Unit()
}

// RandomHenyeyGreenstein samples a direction relative to incoming under the
// Henyey-Greenstein phase function with asymmetry g in (-1,1); g=0 reduces to
// isotropic scattering.
func RandomHenyeyGreenstein(rng *rand.Rand, incoming Vec, g float64) Vec {
	var cosTheta float64
	if math.Abs(g) < 1e-7 {
		cosTheta = 1 - 2*rng.Float64()
	} else {
		sq := (1 - g*g) / (1 + g - 2*g*rng.Float64())
		cosTheta = (1 + g*g - sq*sq) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()

	axis := incoming.Unit()
	var tangent Vec
	if math.Abs(axis.X) > math.Abs(axis.Y) {
		tangent = Vec{X: -axis.Z, Y: 0, Z: axis.X}.Unit()
	} else {
		tangent = Vec{X: 0, Y: axis.Z, Z: -axis.Y}.Unit()
	}
	bitangent := axis.Cross(tangent)
	return tangent.Muls(sinTheta * math.Cos(phi)).
		Add(bitangent.Muls(sinTheta * math.Sin(phi))).
		Add(axis.Muls(cosTheta)).Unit()
}
