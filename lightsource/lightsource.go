// Package lightsource samples rays in a light-emitting node's local frame:
// a position on the node's xy-plane mask, a direction diverging from +z,
// and a wavelength. The tracing engine applies the emitting node's world
// transform from the scene graph to each Sample.
package lightsource

import (
	"fmt"
	"math/rand"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Sample is one emitted ray expressed in the light-emitting node's local
// frame, before the scene graph's world transform is applied.
type Sample struct {
	Position     r3.Point
	Direction    r3.Vec
	WavelengthNM float64
}

// PositionDelegate samples a position on the local xy-plane (z=0).
type PositionDelegate interface {
	SamplePosition(rng *rand.Rand) r3.Point
}

// DirectionDelegate samples a direction diverging from the local +z axis.
type DirectionDelegate interface {
	SampleDirection(rng *rand.Rand) r3.Vec
}

// WavelengthDelegate samples a wavelength in nanometres.
type WavelengthDelegate interface {
	SampleWavelength(rng *rand.Rand) float64
}

// Source emits a finite, non-restartable sequence of Samples. N bounds the
// number of rays this source will yield; Emit returns ok=false once N have
// been emitted.
type Source struct {
	Name       string
	N          int
	Position   PositionDelegate
	Direction  DirectionDelegate
	Wavelength WavelengthDelegate

	emitted int
}

// Validate reports configuration errors that should be caught before a
// batch starts.
func (s *Source) Validate() error {
	if s.N <= 0 {
		return fmt.Errorf("light source %q: N must be positive, got %d", s.Name, s.N)
	}
	if s.Wavelength == nil {
		return fmt.Errorf("light source %q: wavelength delegate is required", s.Name)
	}
	return nil
}

// Emit draws the next Sample. ok is false once N samples have been emitted;
// the source is then exhausted and further calls keep returning false.
func (s *Source) Emit(rng *rand.Rand) (Sample, bool) {
	if s.emitted >= s.N {
		return Sample{}, false
	}
	s.emitted++

	position := r3.Point{}
	if s.Position != nil {
		position = s.Position.SamplePosition(rng)
	}
	direction := r3.Vec{Z: 1}
	if s.Direction != nil {
		direction = s.Direction.SampleDirection(rng)
	}
	return Sample{
		Position:     position,
		Direction:    direction,
		WavelengthNM: s.Wavelength.SampleWavelength(rng),
	}, true
}

// Remaining reports how many samples this source has left to emit.
func (s *Source) Remaining() int {
	if s.emitted >= s.N {
		return 0
	}
	return s.N - s.emitted
}

// Reset rewinds the source so it can emit its full sequence again. Delegates
// that are themselves stateful (none of the built-ins are) are responsible
// for their own reset.
func (s *Source) Reset() {
	s.emitted = 0
}
