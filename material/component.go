package material

import (
	"math/rand"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Component is one interaction channel within a Material: absorber,
// scatterer, luminophore, or reactor. Absorbers have QuantumYield()==0 and
// always terminate the ray; scatterers have QuantumYield()==1 and re-emit at
// the incoming wavelength; luminophores have 0<qy<1 (or qy close to 1) and
// sample a new wavelength from an emission pdf; reactors behave like
// luminophores for absorption bookkeeping but report QuantumYield()==0,
// modelling a photochemical product marker rather than a re-emitted photon.
type Component interface {
	Kind() ComponentKind
	Name() string
	AbsorptionCoefficient(wavelengthNM float64) float64
	// EmissionSpectrum samples a re-emission wavelength given the absorbed
	// wavelength; scatterers return incomingNM unchanged.
	EmissionSpectrum(incomingNM float64, rng *rand.Rand) float64
	QuantumYield() float64
	SamplePhaseDirection(incoming r3.Vec, rng *rand.Rand) r3.Vec
}

// PhaseFunction samples an outgoing direction given the incoming direction.
type PhaseFunction func(incoming r3.Vec, rng *rand.Rand) r3.Vec

// IsotropicPhaseFunction samples a direction uniformly on the sphere,
// independent of incoming. It is the default phase function of
// ScattererComponent and LuminophoreComponent when their Phase is nil;
// AbsorberComponent and ReactorComponent return the incoming direction.
func IsotropicPhaseFunction(incoming r3.Vec, rng *rand.Rand) r3.Vec {
	return r3.RandomUnitVector(rng)
}

// HGPhaseFunction returns a Henyey-Greenstein phase function with asymmetry
// parameter g: g=0 is isotropic, g>0 favours forward scattering, g<0 favours
// backward scattering. Not the default; callers opt in explicitly.
func HGPhaseFunction(g float64) PhaseFunction {
	return func(incoming r3.Vec, rng *rand.Rand) r3.Vec {
		return r3.RandomHenyeyGreenstein(rng, incoming, g)
	}
}

// CoefficientFunc gives a component's absorption coefficient at a
// wavelength, in inverse length units matching the scene's length unit.
type CoefficientFunc func(wavelengthNM float64) float64

// FlatCoefficient returns a CoefficientFunc constant across wavelength.
func FlatCoefficient(alpha float64) CoefficientFunc {
	return func(float64) float64 { return alpha }
}

// AbsorberComponent is a pure absorber: QuantumYield is always zero, so
// every absorption event it wins terminates the ray.
type AbsorberComponent struct {
	ComponentName string
	Coefficient   CoefficientFunc
}

var _ Component = AbsorberComponent{}

func (c AbsorberComponent) Kind() ComponentKind { return Absorber }
func (c AbsorberComponent) Name() string        { return c.ComponentName }
func (c AbsorberComponent) AbsorptionCoefficient(wavelengthNM float64) float64 {
	return c.Coefficient(wavelengthNM)
}
func (c AbsorberComponent) EmissionSpectrum(incomingNM float64, rng *rand.Rand) float64 {
	return incomingNM
}
func (c AbsorberComponent) QuantumYield() float64 { return 0 }
func (c AbsorberComponent) SamplePhaseDirection(incoming r3.Vec, rng *rand.Rand) r3.Vec {
	return incoming
}

// ScattererComponent always re-emits (qy=1) at the incoming wavelength,
// sampling a new direction from Phase (isotropic if nil).
type ScattererComponent struct {
	ComponentName string
	Coefficient   CoefficientFunc
	Phase         PhaseFunction
}

var _ Component = ScattererComponent{}

func (c ScattererComponent) Kind() ComponentKind { return Scatterer }
func (c ScattererComponent) Name() string        { return c.ComponentName }
func (c ScattererComponent) AbsorptionCoefficient(wavelengthNM float64) float64 {
	return c.Coefficient(wavelengthNM)
}
func (c ScattererComponent) EmissionSpectrum(incomingNM float64, rng *rand.Rand) float64 {
	return incomingNM
}
func (c ScattererComponent) QuantumYield() float64 { return 1 }
func (c ScattererComponent) SamplePhaseDirection(incoming r3.Vec, rng *rand.Rand) r3.Vec {
	phase := c.Phase
	if phase == nil {
		phase = IsotropicPhaseFunction
	}
	return phase(incoming, rng)
}

// EmissionSpectrumFunc samples a re-emission wavelength given the absorbed
// wavelength.
type EmissionSpectrumFunc func(incomingNM float64, rng *rand.Rand) float64

// MonochromaticEmission returns an EmissionSpectrumFunc that always emits at
// peakNM, ignoring the absorbed wavelength.
func MonochromaticEmission(peakNM float64) EmissionSpectrumFunc {
	return func(float64, *rand.Rand) float64 { return peakNM }
}

// LuminophoreComponent absorbs at AbsorptionCoefficient and, with
// probability QY, re-emits at a wavelength drawn from Emission and a
// direction drawn from Phase (isotropic if nil).
type LuminophoreComponent struct {
	ComponentName string
	Coefficient   CoefficientFunc
	Emission      EmissionSpectrumFunc
	QY            float64
	Phase         PhaseFunction
}

var _ Component = LuminophoreComponent{}

func (c LuminophoreComponent) Kind() ComponentKind { return Luminophore }
func (c LuminophoreComponent) Name() string        { return c.ComponentName }
func (c LuminophoreComponent) AbsorptionCoefficient(wavelengthNM float64) float64 {
	return c.Coefficient(wavelengthNM)
}
func (c LuminophoreComponent) EmissionSpectrum(incomingNM float64, rng *rand.Rand) float64 {
	if c.Emission == nil {
		return incomingNM
	}
	return c.Emission(incomingNM, rng)
}
func (c LuminophoreComponent) QuantumYield() float64 { return c.QY }
func (c LuminophoreComponent) SamplePhaseDirection(incoming r3.Vec, rng *rand.Rand) r3.Vec {
	phase := c.Phase
	if phase == nil {
		phase = IsotropicPhaseFunction
	}
	return phase(incoming, rng)
}

// ReactorComponent absorbs like a luminophore but never re-emits a photon:
// QuantumYield is always zero, modelling a photochemical product marker
// (e.g. a photoinitiator) rather than a luminescent emitter. It is
// distinguished from AbsorberComponent only by Kind. Event records carry
// the component's Name, not its Kind.
type ReactorComponent struct {
	ComponentName string
	Coefficient   CoefficientFunc
}

var _ Component = ReactorComponent{}

func (c ReactorComponent) Kind() ComponentKind { return Reactor }
func (c ReactorComponent) Name() string        { return c.ComponentName }
func (c ReactorComponent) AbsorptionCoefficient(wavelengthNM float64) float64 {
	return c.Coefficient(wavelengthNM)
}
func (c ReactorComponent) EmissionSpectrum(incomingNM float64, rng *rand.Rand) float64 {
	return incomingNM
}
func (c ReactorComponent) QuantumYield() float64 { return 0 }
func (c ReactorComponent) SamplePhaseDirection(incoming r3.Vec, rng *rand.Rand) r3.Vec {
	return incoming
}
