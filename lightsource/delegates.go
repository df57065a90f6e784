package lightsource

import (
	"math"
	"math/rand"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// PointPosition always samples the local origin: a single-point source.
type PointPosition struct{}

func (PointPosition) SamplePosition(rng *rand.Rand) r3.Point { return r3.Point{} }

// SquareMaskPosition samples uniformly within an axis-aligned a*b rectangle
// centred on the local origin in the xy-plane.
type SquareMaskPosition struct {
	Width, Height float64
}

func (m SquareMaskPosition) SamplePosition(rng *rand.Rand) r3.Point {
	return r3.Point{
		X: (rng.Float64() - 0.5) * m.Width,
		Y: (rng.Float64() - 0.5) * m.Height,
	}
}

// CircleMaskPosition samples uniformly within a disk of radius Radius in
// the xy-plane, centred on the local origin.
type CircleMaskPosition struct {
	Radius float64
}

func (m CircleMaskPosition) SamplePosition(rng *rand.Rand) r3.Point {
	d := r3.RandomInUnitDisk(rng)
	return r3.Point{X: d.X * m.Radius, Y: d.Y * m.Radius}
}

// CollimatedDirection always emits along the local +z axis.
type CollimatedDirection struct{}

func (CollimatedDirection) SampleDirection(rng *rand.Rand) r3.Vec { return r3.Vec{Z: 1} }

// ConeDirection samples a direction within a cone of HalfAngleRadians around
// +z, uniform over solid angle within the cone.
type ConeDirection struct {
	HalfAngleRadians float64
}

func (c ConeDirection) SampleDirection(rng *rand.Rand) r3.Vec {
	cosMax := math.Cos(c.HalfAngleRadians)
	cosTheta := 1 - rng.Float64()*(1-cosMax)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()
	return r3.Vec{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}
}

// LambertianDirection samples a cosine-weighted hemisphere around +z,
// matching a Lambertian emitter's angular distribution.
type LambertianDirection struct{}

func (LambertianDirection) SampleDirection(rng *rand.Rand) r3.Vec {
	return r3.RandomCosineHemisphere(rng, r3.Vec{Z: 1})
}

// MonochromaticWavelength always samples the same wavelength.
type MonochromaticWavelength struct {
	WavelengthNM float64
}

func (w MonochromaticWavelength) SampleWavelength(rng *rand.Rand) float64 { return w.WavelengthNM }

// HistogramWavelength samples from a discrete wavelength histogram: Bins and
// Weights must be the same length; a bin is drawn with probability
// proportional to its weight.
type HistogramWavelength struct {
	BinsNM  []float64
	Weights []float64

	cumulative []float64
	total      float64
}

// prepare lazily builds the cumulative weight table on first use.
func (w *HistogramWavelength) prepare() {
	if w.cumulative != nil {
		return
	}
	w.cumulative = make([]float64, len(w.Weights))
	var sum float64
	for i, weight := range w.Weights {
		sum += weight
		w.cumulative[i] = sum
	}
	w.total = sum
}

func (w *HistogramWavelength) SampleWavelength(rng *rand.Rand) float64 {
	w.prepare()
	if w.total <= 0 || len(w.BinsNM) == 0 {
		return 0
	}
	target := rng.Float64() * w.total
	for i, c := range w.cumulative {
		if target <= c {
			return w.BinsNM[i]
		}
	}
	return w.BinsNM[len(w.BinsNM)-1]
}
