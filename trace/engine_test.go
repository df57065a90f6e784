package trace

import (
	"math/rand"
	"testing"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/material"
	"github.com/scottlawsonbc/pvtrace/r3"
	"github.com/scottlawsonbc/pvtrace/scenegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySink records every event in emission order, for assertions.
type memorySink struct {
	events []Event
}

func (s *memorySink) Emit(e Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *memorySink) kinds() []EventKind {
	out := make([]EventKind, len(s.events))
	for i, e := range s.events {
		out[i] = e.Kind
	}
	return out
}

func emptyWorldScene(t *testing.T) *scenegraph.Scene {
	t.Helper()
	s, err := scenegraph.NewScene([]scenegraph.Node{
		{
			Name:   "world",
			Parent: -1,
			Local:  geom.Identity(),
			Shape:  &geom.Sphere{Center: r3.Point{}, Radius: 10},
			Mat:    &material.Material{Name: "air", RefractiveIndex: material.Constant(1)},
		},
	}, 0)
	require.NoError(t, err)
	return s
}

// Scenario 1: empty world, ray grazes through and exits.
func TestScenarioEmptyWorldExits(t *testing.T) {
	scene := emptyWorldScene(t)
	engine := &Engine{Scene: scene}
	sink := &memorySink{}
	rng := rand.New(rand.NewSource(1))

	ray := Ray{ID: 1, Position: r3.Point{X: -1, Z: 1.1}, Direction: r3.Vec{X: 1}, WavelengthNM: 555, Alive: true}
	kind, err := engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)
	assert.Equal(t, Exit, kind)
	assert.Equal(t, []EventKind{Generate, Hit, Exit}, sink.kinds())

	last := sink.events[len(sink.events)-1].Ray
	wantX := 9.939
	assert.InDelta(t, wantX, last.Position.X, 1e-2)
	assert.InDelta(t, 1.1, last.Position.Z, 1e-9)
}

func glassSphereScene(t *testing.T, zOffset float64) *scenegraph.Scene {
	t.Helper()
	world := scenegraph.Node{
		Name:     "world",
		Parent:   -1,
		Children: []int{1},
		Local:    geom.Identity(),
		Shape:    &geom.Sphere{Center: r3.Point{}, Radius: 10},
		Mat:      &material.Material{Name: "air", RefractiveIndex: material.Constant(1)},
	}
	glass := scenegraph.Node{
		Name:   "glass",
		Parent: 0,
		Local:  geom.Transform{Translation: r3.Vec{Z: zOffset}, Rotation: r3.IdentityMat3x3()},
		Shape:  &geom.Sphere{Center: r3.Point{}, Radius: 1},
		Mat:    &material.Material{Name: "glass", RefractiveIndex: material.Constant(1.5)},
	}
	s, err := scenegraph.NewScene([]scenegraph.Node{world, glass}, 0)
	require.NoError(t, err)
	return s
}

// Scenario 2: glass sphere placed where the ray cannot reach it.
func TestScenarioGlassSphereGrazingMiss(t *testing.T) {
	scene := glassSphereScene(t, 2)
	engine := &Engine{Scene: scene}
	sink := &memorySink{}
	rng := rand.New(rand.NewSource(2))

	ray := Ray{ID: 1, Position: r3.Point{X: -1, Z: 0.9}, Direction: r3.Vec{X: 1}, WavelengthNM: 555, Alive: true}
	kind, err := engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)
	assert.Equal(t, Exit, kind)
	assert.Equal(t, []EventKind{Generate, Hit, Exit}, sink.kinds())
}

// Scenario 3: glass sphere hit head-on refracts in and out, exits parallel.
func TestScenarioGlassSphereHitAndRefract(t *testing.T) {
	scene := glassSphereScene(t, 2)
	engine := &Engine{Scene: scene}
	sink := &memorySink{}
	rng := rand.New(rand.NewSource(3))

	ray := Ray{ID: 1, Position: r3.Point{X: -1, Z: 0.9}, Direction: r3.Vec{X: 1}, WavelengthNM: 650, Alive: true}
	kind, err := engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)
	assert.Equal(t, Exit, kind)

	kinds := sink.kinds()
	require.GreaterOrEqual(t, len(kinds), 3)
	assert.Equal(t, Generate, kinds[0])
	assert.Equal(t, Exit, kinds[len(kinds)-1])

	var transmits int
	for _, k := range kinds {
		if k == Transmit {
			transmits++
		}
	}
	assert.GreaterOrEqual(t, transmits, 2)

	final := sink.events[len(sink.events)-1].Ray.Direction
	assert.InDelta(t, 1.0, final.X, 1e-5)
	assert.InDelta(t, 0.0, final.Z, 1e-5)
}

// Scenario 6: total internal reflection always reflects.
func TestScenarioTotalInternalReflectionAlwaysReflects(t *testing.T) {
	scene := glassSphereScene(t, 2)
	engine := &Engine{Scene: scene}
	rng := rand.New(rand.NewSource(4))

	// Inside the glass, hitting its surface at a shallow grazing angle from
	// the inside: well beyond the critical angle of ~41.8 degrees.
	dir := r3.Vec{X: 0.1412, Y: 0.99}.Unit()
	for i := 0; i < 20; i++ {
		sink := &memorySink{}
		ray := Ray{ID: int64(i), Position: r3.Point{X: -0.99, Y: 0, Z: 2}, Direction: dir, WavelengthNM: 555, Alive: true}
		_, err := engine.TraceOne(ray, sink, rng)
		require.NoError(t, err)
		assert.Contains(t, sink.kinds(), Reflect)
	}
}

// Invariant 1: cumulative travelled distance is non-decreasing.
func TestInvariantTravelledNonDecreasing(t *testing.T) {
	scene := glassSphereScene(t, 2)
	engine := &Engine{Scene: scene}
	sink := &memorySink{}
	rng := rand.New(rand.NewSource(5))
	ray := Ray{ID: 1, Position: r3.Point{X: -1, Z: 0.9}, Direction: r3.Vec{X: 1}, WavelengthNM: 650, Alive: true}
	_, err := engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)

	var prev geom.Distance
	for _, e := range sink.events {
		assert.GreaterOrEqual(t, e.Ray.Travelled, prev)
		prev = e.Ray.Travelled
	}
}

// Invariant 2: after TRANSMIT, the next event's container equals the
// previous event's adjacent.
func TestInvariantTransmitContainerMatchesPreviousAdjacent(t *testing.T) {
	scene := glassSphereScene(t, 2)
	engine := &Engine{Scene: scene}
	sink := &memorySink{}
	rng := rand.New(rand.NewSource(6))
	ray := Ray{ID: 1, Position: r3.Point{X: -1, Z: 0.9}, Direction: r3.Vec{X: 1}, WavelengthNM: 650, Alive: true}
	_, err := engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)

	for i, e := range sink.events {
		if e.Kind == Transmit && i+1 < len(sink.events) {
			assert.Equal(t, e.Adjacent, sink.events[i+1].Container)
		}
	}
}

// Invariant 3: matched refractive indices always transmit unchanged.
func TestInvariantMatchedIndexAlwaysTransmits(t *testing.T) {
	world := scenegraph.Node{
		Name:     "world",
		Parent:   -1,
		Children: []int{1},
		Local:    geom.Identity(),
		Shape:    &geom.Sphere{Center: r3.Point{}, Radius: 10},
		Mat:      &material.Material{Name: "air", RefractiveIndex: material.Constant(1)},
	}
	inner := scenegraph.Node{
		Name:   "inner",
		Parent: 0,
		Local:  geom.Identity(),
		Shape:  &geom.Sphere{Center: r3.Point{}, Radius: 1},
		Mat:    &material.Material{Name: "air-again", RefractiveIndex: material.Constant(1)},
	}
	scene, err := scenegraph.NewScene([]scenegraph.Node{world, inner}, 0)
	require.NoError(t, err)
	engine := &Engine{Scene: scene}
	rng := rand.New(rand.NewSource(7))

	sink := &memorySink{}
	ray := Ray{ID: 1, Position: r3.Point{X: -5}, Direction: r3.Vec{X: 1}, WavelengthNM: 555, Alive: true}
	_, err = engine.TraceOne(ray, sink, rng)
	require.NoError(t, err)

	for _, e := range sink.events {
		if e.Kind == Hit {
			continue
		}
		assert.NotEqual(t, Reflect, e.Kind)
	}
	last := sink.events[len(sink.events)-1].Ray
	assert.InDelta(t, 1.0, last.Direction.X, 1e-9)
}

// Invariant 4: a ray strictly inside the world always finds at least one
// intersection.
func TestInvariantNonEmptyIntersectionsInsideWorld(t *testing.T) {
	scene := emptyWorldScene(t)
	ray := geom.Ray{Origin: r3.Point{}, Direction: r3.Vec{X: 1}}
	hits := scene.Intersections(ray)
	assert.NotEmpty(t, hits)
}

// Scenario 4: a strongly absorbing luminophore sphere absorbs nearly every
// ray, and re-emits close to its quantum yield.
func TestScenarioLuminophoreSphereAbsorptionAndReemission(t *testing.T) {
	world := scenegraph.Node{
		Name:     "world",
		Parent:   -1,
		Children: []int{1},
		Local:    geom.Identity(),
		Shape:    &geom.Sphere{Center: r3.Point{}, Radius: 10},
		Mat:      &material.Material{Name: "air", RefractiveIndex: material.Constant(1)},
	}
	dye := scenegraph.Node{
		Name:   "dye",
		Parent: 0,
		Local:  geom.Identity(),
		Shape:  &geom.Sphere{Center: r3.Point{}, Radius: 1},
		Mat: &material.Material{
			Name:            "dye",
			RefractiveIndex: material.Constant(1),
			Components: []material.Component{
				material.LuminophoreComponent{
					ComponentName: "dye620",
					Coefficient:   material.FlatCoefficient(5),
					Emission:      material.MonochromaticEmission(620),
					QY:            0.98,
				},
			},
		},
	}
	scene, err := scenegraph.NewScene([]scenegraph.Node{world, dye}, 0)
	require.NoError(t, err)
	engine := &Engine{Scene: scene}
	rng := rand.New(rand.NewSource(8))

	const n = 2000
	absorbedTerminal := 0
	reemitted := 0
	for i := 0; i < n; i++ {
		sink := &memorySink{}
		ray := Ray{ID: int64(i), Position: r3.Point{X: -5}, Direction: r3.Vec{X: 1}, WavelengthNM: 555, Alive: true}
		kind, err := engine.TraceOne(ray, sink, rng)
		require.NoError(t, err)
		for _, e := range sink.events {
			if e.Kind == Emit {
				reemitted++
			}
		}
		if kind == Absorb {
			absorbedTerminal++
		}
	}
	// Everything that enters the dye is absorbed at least once (alpha=5,
	// diameter 2 => 1-exp(-10) ~ 0.9999); of those absorptions, ~98% go on
	// to re-emit rather than terminate there.
	absorbedOrReemittedFrac := float64(reemitted+absorbedTerminal) / n
	assert.Greater(t, absorbedOrReemittedFrac, 0.95)
}
