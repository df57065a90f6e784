package lightsource

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceValidate(t *testing.T) {
	s := &Source{Name: "sun", N: 10, Wavelength: MonochromaticWavelength{WavelengthNM: 555}}
	require.NoError(t, s.Validate())

	bad := &Source{Name: "broken", N: 0, Wavelength: MonochromaticWavelength{WavelengthNM: 555}}
	assert.Error(t, bad.Validate())

	noWavelength := &Source{Name: "no-wavelength", N: 10}
	assert.Error(t, noWavelength.Validate())
}

func TestSourceEmitsExactlyNRays(t *testing.T) {
	s := &Source{
		Name:       "collimated",
		N:          5,
		Position:   PointPosition{},
		Direction:  CollimatedDirection{},
		Wavelength: MonochromaticWavelength{WavelengthNM: 555},
	}
	rng := rand.New(rand.NewSource(1))
	count := 0
	for {
		_, ok := s.Emit(rng)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 5, count)
	assert.Equal(t, 0, s.Remaining())
}

func TestSourceResetReemits(t *testing.T) {
	s := &Source{Name: "x", N: 2, Wavelength: MonochromaticWavelength{WavelengthNM: 500}}
	rng := rand.New(rand.NewSource(1))
	s.Emit(rng)
	s.Emit(rng)
	_, ok := s.Emit(rng)
	assert.False(t, ok)
	s.Reset()
	_, ok = s.Emit(rng)
	assert.True(t, ok)
}

func TestCollimatedDirectionIsAlwaysPlusZ(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := CollimatedDirection{}.SampleDirection(rng)
	assert.Equal(t, 1.0, d.Z)
	assert.Equal(t, 0.0, d.X)
	assert.Equal(t, 0.0, d.Y)
}

func TestConeDirectionStaysWithinHalfAngle(t *testing.T) {
	c := ConeDirection{HalfAngleRadians: 0.2}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		d := c.SampleDirection(rng)
		assert.GreaterOrEqual(t, d.Z, 0.98)
	}
}

func TestHistogramWavelengthRespectsWeights(t *testing.T) {
	h := &HistogramWavelength{BinsNM: []float64{450, 620}, Weights: []float64{1, 9}}
	rng := rand.New(rand.NewSource(4))
	counts := map[float64]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		counts[h.SampleWavelength(rng)]++
	}
	frac := float64(counts[620]) / n
	assert.InDelta(t, 0.9, frac, 0.02)
}
