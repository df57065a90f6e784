package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialValidate(t *testing.T) {
	m := Material{Name: "glass", RefractiveIndex: Constant(1.5)}
	require.NoError(t, m.Validate())

	bad := Material{Name: "vacuum", RefractiveIndex: Constant(0.5)}
	assert.Error(t, bad.Validate())

	noIndex := Material{Name: "missing"}
	assert.Error(t, noIndex.Validate())

	dup := Material{
		Name:            "dup",
		RefractiveIndex: Constant(1),
		Components: []Component{
			AbsorberComponent{ComponentName: "a", Coefficient: FlatCoefficient(1)},
			AbsorberComponent{ComponentName: "a", Coefficient: FlatCoefficient(1)},
		},
	}
	assert.Error(t, dup.Validate())
}

func TestInertMaterialHasInfiniteInteractionDistance(t *testing.T) {
	m := Material{Name: "air", RefractiveIndex: Constant(1)}
	rng := rand.New(rand.NewSource(1))
	d := m.SampleInteractionDistance(550, rng)
	assert.True(t, math.IsInf(d, 1))
}

func TestSampleInteractionDistanceIsExponential(t *testing.T) {
	m := Material{
		Name:            "dye",
		RefractiveIndex: Constant(1.5),
		Components:      []Component{AbsorberComponent{ComponentName: "dye", Coefficient: FlatCoefficient(5)}},
	}
	rng := rand.New(rand.NewSource(42))
	var mean float64
	const n = 20000
	for i := 0; i < n; i++ {
		mean += m.SampleInteractionDistance(550, rng)
	}
	mean /= n
	// Expected value of an Exponential(alpha=5) distribution is 1/5.
	assert.InDelta(t, 0.2, mean, 0.01)
}

func TestSampleComponentWeightedByCoefficient(t *testing.T) {
	m := Material{
		Name:            "mix",
		RefractiveIndex: Constant(1.5),
		Components: []Component{
			AbsorberComponent{ComponentName: "weak", Coefficient: FlatCoefficient(1)},
			AbsorberComponent{ComponentName: "strong", Coefficient: FlatCoefficient(9)},
		},
	}
	rng := rand.New(rand.NewSource(7))
	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[m.SampleComponent(550, rng).Name()]++
	}
	frac := float64(counts["strong"]) / n
	assert.InDelta(t, 0.9, frac, 0.02)
}

func TestAbsorberComponentTerminates(t *testing.T) {
	c := AbsorberComponent{ComponentName: "black", Coefficient: FlatCoefficient(1)}
	assert.Equal(t, Absorber, c.Kind())
	assert.Equal(t, 0.0, c.QuantumYield())
}

func TestScattererComponentPreservesWavelength(t *testing.T) {
	c := ScattererComponent{ComponentName: "mie", Coefficient: FlatCoefficient(1)}
	assert.Equal(t, Scatterer, c.Kind())
	assert.Equal(t, 1.0, c.QuantumYield())
	assert.Equal(t, 650.0, c.EmissionSpectrum(650, nil))
}

func TestLuminophoreComponentSamplesEmission(t *testing.T) {
	c := LuminophoreComponent{
		ComponentName: "dye620",
		Coefficient:   FlatCoefficient(5),
		Emission:      MonochromaticEmission(620),
		QY:            0.98,
	}
	rng := rand.New(rand.NewSource(3))
	assert.Equal(t, Luminophore, c.Kind())
	assert.Equal(t, 0.98, c.QuantumYield())
	assert.Equal(t, 620.0, c.EmissionSpectrum(555, rng))
}

func TestReactorComponentNeverReemits(t *testing.T) {
	c := ReactorComponent{ComponentName: "photoinitiator", Coefficient: FlatCoefficient(2)}
	assert.Equal(t, Reactor, c.Kind())
	assert.Equal(t, 0.0, c.QuantumYield())
}
