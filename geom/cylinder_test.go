package geom

import (
	"testing"

	"github.com/scottlawsonbc/pvtrace/r3"
)

func TestCylinderIntersections(t *testing.T) {
	c := Cylinder{Origin: r3.Point{}, Direction: r3.Vec{Z: 1}, Radius: 1, Height: 2}
	// Ray straight through the lateral surface, perpendicular to the axis.
	r := Ray{Origin: r3.Point{X: -5, Z: 1}, Direction: r3.Vec{X: 1}}
	got := c.Intersections(r)
	if len(got) != 2 {
		t.Fatalf("lateral hit: got %d roots %v, want 2", len(got), got)
	}

	// Ray along the axis should hit both caps.
	axial := Ray{Origin: r3.Point{Z: -5}, Direction: r3.Vec{Z: 1}}
	got = c.Intersections(axial)
	if len(got) != 2 {
		t.Fatalf("axial hit: got %d roots %v, want 2", len(got), got)
	}
}

func TestCylinderValidate(t *testing.T) {
	bad := []Cylinder{
		{Radius: 0, Height: 1, Direction: r3.Vec{Z: 1}},
		{Radius: 1, Height: 0, Direction: r3.Vec{Z: 1}},
		{Radius: 1, Height: 1, Direction: r3.Vec{}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestCylinderContains(t *testing.T) {
	c := Cylinder{Origin: r3.Point{}, Direction: r3.Vec{Z: 1}, Radius: 1, Height: 2}
	if got := c.Contains(r3.Point{Z: 1}); got != Inside {
		t.Errorf("center should be inside, got %v", got)
	}
	if got := c.Contains(r3.Point{Z: 3}); got != Outside {
		t.Errorf("above top cap should be outside, got %v", got)
	}
}
