package surface

import (
	"math/rand"
	"testing"

	"github.com/scottlawsonbc/pvtrace/r3"
	"github.com/stretchr/testify/assert"
)

func TestFresnelMatchedIndexAlwaysTransmitsUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	in := Incidence{
		Direction:    r3.Vec{X: 1},
		Normal:       r3.Vec{X: -1},
		N1:           1.5,
		N2:           1.5,
		WavelengthNM: 550,
	}
	for i := 0; i < 100; i++ {
		d := Fresnel{}.Resolve(in, rng)
		assert.Equal(t, Transmit, d.Kind)
		assert.True(t, d.Direction.IsClose(r3.Vec{X: 1}, 1e-9))
	}
}

func TestFresnelTotalInternalReflection(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	// Shallow grazing angle from glass (n=1.5) into air (n=1.0): well past
	// the critical angle of ~41.8 degrees.
	in := Incidence{
		Direction:    r3.Vec{X: 0.1412, Y: 0.99}.Unit(),
		Normal:       r3.Vec{X: -1},
		N1:           1.5,
		N2:           1.0,
		WavelengthNM: 550,
	}
	for i := 0; i < 50; i++ {
		d := Fresnel{}.Resolve(in, rng)
		assert.Equal(t, Reflect, d.Kind)
	}
}

func TestFresnelReflectanceAtNormalIncidence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	in := Incidence{
		Direction:    r3.Vec{X: 1},
		Normal:       r3.Vec{X: -1},
		N1:           1.0,
		N2:           1.5,
		WavelengthNM: 550,
	}
	reflected := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if (Fresnel{}).Resolve(in, rng).Kind == Reflect {
			reflected++
		}
	}
	// R0 = ((1-1.5)/(1+1.5))^2 = 0.04 at normal incidence.
	frac := float64(reflected) / n
	assert.InDelta(t, 0.04, frac, 0.01)
}

func TestAbsorbingCoatingTerminatesStochastically(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	c := AbsorbingCoating{Base: Fresnel{}, Absorptance: 1}
	in := Incidence{Direction: r3.Vec{X: 1}, Normal: r3.Vec{X: -1}, N1: 1, N2: 1.5}
	d := c.Resolve(in, rng)
	assert.Equal(t, Absorb, d.Kind)
}
