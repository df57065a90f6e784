package trace

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/material"
	"github.com/scottlawsonbc/pvtrace/scenegraph"
	"github.com/scottlawsonbc/pvtrace/surface"
)

// vacuumRefractiveIndex is used for nodes with no attached Material: an
// inert region with refractive index 1 and no volume interaction.
const vacuumRefractiveIndex = 1.0

// speedOfLightMetersPerSecond is the default conversion between travelled
// distance and elapsed time; Engine.SpeedOfLight overrides it for scenes
// using a different length unit's worth of c.
const speedOfLightMetersPerSecond = 299792458.0

// Engine runs the photon-tracing main loop against a read-only Scene. A
// single Engine value is safe for concurrent use by TraceBatch's workers:
// TraceOne only reads the Scene and Surface delegate and takes its
// randomness from the caller-supplied rng.
type Engine struct {
	Scene        *scenegraph.Scene
	Surface      surface.Delegate // default surface.Fresnel{} if nil
	MaxEvents    int              // default 1000 if <= 0
	MaxDistance  geom.Distance    // default +Inf if <= 0 (no cap)
	SpeedOfLight float64          // meters/second; default speedOfLightMetersPerSecond if <= 0
}

func (e *Engine) maxEvents() int {
	if e.MaxEvents <= 0 {
		return 1000
	}
	return e.MaxEvents
}

func (e *Engine) maxDistance() geom.Distance {
	if e.MaxDistance <= 0 {
		return geom.Distance(math.Inf(1))
	}
	return e.MaxDistance
}

func (e *Engine) delegate() surface.Delegate {
	if e.Surface == nil {
		return surface.Fresnel{}
	}
	return e.Surface
}

func (e *Engine) speedOfLight() float64 {
	if e.SpeedOfLight <= 0 {
		return speedOfLightMetersPerSecond
	}
	return e.SpeedOfLight
}

func (e *Engine) refractiveIndex(nodeIdx int, wavelengthNM float64) float64 {
	if nodeIdx < 0 {
		return vacuumRefractiveIndex
	}
	mat := e.Scene.Nodes[nodeIdx].Mat
	if mat == nil {
		return vacuumRefractiveIndex
	}
	return mat.RefractiveIndex(wavelengthNM)
}

func (e *Engine) material(nodeIdx int) *material.Material {
	if nodeIdx < 0 {
		return nil
	}
	return e.Scene.Nodes[nodeIdx].Mat
}

func (e *Engine) nodeName(nodeIdx int) string {
	if nodeIdx < 0 {
		return ""
	}
	return e.Scene.Nodes[nodeIdx].Name
}

// elapsedFor returns the time.Duration corresponding to travelling distance
// t (in scene length units, matching geom.Distance's nanometre base) through
// a medium of refractive index n.
func (e *Engine) elapsedFor(t geom.Distance, n float64) time.Duration {
	speed := e.speedOfLight() / n // metres per second; t is converted from nm to metres below.
	seconds := t.Meters() / speed
	return time.Duration(seconds * float64(time.Second))
}

// TraceOne runs the full event loop for a single ray, starting at start
// (which must have Alive=true and ID already assigned), emitting events to
// sink until the ray reaches a terminal state. It returns the terminal
// event's kind.
func (e *Engine) TraceOne(start Ray, sink Sink, rng *rand.Rand) (EventKind, error) {
	ray := start
	ray.Alive = true
	if ray.Direction.IsZero() || ray.Direction.IsNaN() || math.IsNaN(ray.WavelengthNM) {
		return e.abort(ray, sink, "zero-length direction or NaN wavelength at GENERATE")
	}

	container := e.Scene.Container(ray.Position)
	if err := sink.Emit(Event{Kind: Generate, Container: e.nodeName(container), Ray: ray}); err != nil {
		return Error, &SinkError{Err: err}
	}

	events := 1
	for {
		if events >= e.maxEvents() || ray.Travelled >= e.maxDistance() {
			ray.Alive = false
			if err := sink.Emit(Event{Kind: Kill, Container: e.nodeName(container), Ray: ray}); err != nil {
				return Error, &SinkError{Err: err}
			}
			return Kill, nil
		}

		worldRay := geom.Ray{Origin: ray.Position, Direction: ray.Direction}
		hits := e.Scene.Intersections(worldRay)
		if len(hits) == 0 {
			return e.abort(ray, sink, fmt.Sprintf("empty intersection list inside container %q", e.nodeName(container)))
		}
		nearest := hits[0]

		mat := e.material(container)
		var tVol float64
		if mat != nil {
			tVol = mat.SampleInteractionDistance(ray.WavelengthNM, rng)
		} else {
			tVol = math.Inf(1)
		}

		events++
		if tVol < nearest.T {
			kind, next, err := e.volumeInteraction(ray, container, mat, tVol, sink, rng)
			if err != nil {
				return Error, err
			}
			if !next.Alive {
				return kind, nil
			}
			ray = next
			continue
		}

		kind, next, newContainer, err := e.surfaceCrossing(ray, container, nearest, sink, rng)
		if err != nil {
			return Error, err
		}
		if !next.Alive {
			return kind, nil
		}
		ray = next
		container = newContainer
	}
}

// volumeInteraction advances ray to a sampled volume-interaction point and
// resolves absorption vs. re-emission. If terminal, the returned EventKind
// is non-zero (Absorb) and next.Alive is false.
func (e *Engine) volumeInteraction(ray Ray, container int, mat *material.Material, tVol float64, sink Sink, rng *rand.Rand) (EventKind, Ray, error) {
	n := e.refractiveIndex(container, ray.WavelengthNM)
	next := Ray{
		ID:           ray.ID,
		Position:     ray.at(tVol),
		Direction:    ray.Direction,
		WavelengthNM: ray.WavelengthNM,
		Source:       ray.Source,
		Travelled:    ray.Travelled + geom.Distance(tVol),
		Elapsed:      ray.Elapsed + e.elapsedFor(geom.Distance(tVol), n),
		Alive:        true,
	}

	comp := mat.SampleComponent(ray.WavelengthNM, rng)
	if rng.Float64() < comp.QuantumYield() {
		next.WavelengthNM = comp.EmissionSpectrum(ray.WavelengthNM, rng)
		next.Direction = comp.SamplePhaseDirection(ray.Direction, rng)
		kind := Emit
		if comp.Kind() == material.Scatterer {
			kind = Scatter
		}
		if err := sink.Emit(Event{Kind: kind, Component: comp.Name(), Container: e.nodeName(container), Ray: next}); err != nil {
			return Error, Ray{}, &SinkError{Err: err}
		}
		return 0, next, nil
	}

	next.Alive = false
	if err := sink.Emit(Event{Kind: Absorb, Component: comp.Name(), Container: e.nodeName(container), Ray: next}); err != nil {
		return Error, Ray{}, &SinkError{Err: err}
	}
	return Absorb, next, nil
}

// surfaceCrossing advances ray to the nearest surface hit and resolves the
// boundary decision. If terminal (Exit or Absorb), next.Alive is false.
func (e *Engine) surfaceCrossing(ray Ray, container int, hit scenegraph.Hit, sink Sink, rng *rand.Rand) (EventKind, Ray, int, error) {
	hitNode := hit.Node
	var adjacent int
	entering := hitNode != container
	if entering {
		adjacent = hitNode
	} else if container == e.Scene.World {
		adjacent = -1
	} else {
		adjacent = e.Scene.Nodes[container].Parent
	}

	n1 := e.refractiveIndex(container, ray.WavelengthNM)
	n2 := e.refractiveIndex(adjacent, ray.WavelengthNM)

	normal := hit.Normal
	if entering {
		normal = normal.Muls(-1)
	}

	surfacePos := ray.at(hit.T)
	travelled := ray.Travelled + geom.Distance(hit.T)
	elapsed := ray.Elapsed + e.elapsedFor(geom.Distance(hit.T), n1)

	atSurface := Ray{
		ID:           ray.ID,
		Position:     surfacePos,
		Direction:    ray.Direction,
		WavelengthNM: ray.WavelengthNM,
		Source:       ray.Source,
		Travelled:    travelled,
		Elapsed:      elapsed,
		Alive:        true,
	}
	if err := sink.Emit(Event{
		Kind:      Hit,
		Hit:       e.nodeName(hitNode),
		Container: e.nodeName(container),
		Adjacent:  e.nodeName(adjacent),
		Facet:     hit.Facet,
		Normal:    hit.Normal,
		Ray:       atSurface,
	}); err != nil {
		return Error, Ray{}, 0, &SinkError{Err: err}
	}

	decision := e.delegate().Resolve(surface.Incidence{
		Direction:    ray.Direction,
		Normal:       normal,
		N1:           n1,
		N2:           n2,
		WavelengthNM: ray.WavelengthNM,
	}, rng)

	switch decision.Kind {
	case surface.Absorb:
		atSurface.Alive = false
		if err := sink.Emit(Event{Kind: Absorb, Hit: e.nodeName(hitNode), Container: e.nodeName(container), Adjacent: e.nodeName(adjacent), Facet: hit.Facet, Normal: hit.Normal, Ray: atSurface}); err != nil {
			return Error, Ray{}, 0, &SinkError{Err: err}
		}
		return Absorb, atSurface, container, nil

	case surface.Transmit:
		if adjacent == -1 {
			atSurface.Alive = false
			if err := sink.Emit(Event{Kind: Exit, Hit: e.nodeName(hitNode), Container: e.nodeName(container), Facet: hit.Facet, Normal: hit.Normal, Ray: atSurface}); err != nil {
				return Error, Ray{}, 0, &SinkError{Err: err}
			}
			return Exit, atSurface, container, nil
		}
		nudged := atSurface
		nudged.Direction = decision.Direction
		nudged.Position = surfacePos.Add(decision.Direction.Muls(float64(geom.Eps)))
		if err := sink.Emit(Event{Kind: Transmit, Hit: e.nodeName(hitNode), Container: e.nodeName(container), Adjacent: e.nodeName(adjacent), Facet: hit.Facet, Normal: hit.Normal, Ray: nudged}); err != nil {
			return Error, Ray{}, 0, &SinkError{Err: err}
		}
		return 0, nudged, adjacent, nil

	default: // surface.Reflect
		nudged := atSurface
		nudged.Direction = decision.Direction
		nudged.Position = surfacePos.Add(decision.Direction.Muls(float64(geom.Eps)))
		if err := sink.Emit(Event{Kind: Reflect, Hit: e.nodeName(hitNode), Container: e.nodeName(container), Adjacent: e.nodeName(adjacent), Facet: hit.Facet, Normal: hit.Normal, Ray: nudged}); err != nil {
			return Error, Ray{}, 0, &SinkError{Err: err}
		}
		return 0, nudged, container, nil
	}
}

// abort terminates a ray with a distinguished error event, per spec.md
// §4.8: a geometrical impossibility aborts this ray's trace but lets the
// rest of the batch continue.
func (e *Engine) abort(ray Ray, sink Sink, reason string) (EventKind, error) {
	ray.Alive = false
	_ = sink.Emit(Event{Kind: Error, Ray: ray})
	return Error, &NumericalDegeneracyError{RayID: ray.ID, Reason: reason}
}
