package geom

import (
	"testing"

	"github.com/scottlawsonbc/pvtrace/r3"
)

func TestSphereIntersections(t *testing.T) {
	s := Sphere{Center: r3.Point{}, Radius: 10}
	testcases := []struct {
		name string
		ray  Ray
		want int
	}{
		{"through center", Ray{Origin: r3.Point{X: -20}, Direction: r3.Vec{X: 1}}, 2},
		{"miss", Ray{Origin: r3.Point{X: -20, Y: 50}, Direction: r3.Vec{X: 1}}, 0},
		{"tangent", Ray{Origin: r3.Point{X: -20, Y: 10}, Direction: r3.Vec{X: 1}}, 0},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Intersections(tc.ray)
			if len(got) != tc.want {
				t.Errorf("got %d roots %v, want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestSphereContains(t *testing.T) {
	s := Sphere{Center: r3.Point{}, Radius: 10}
	testcases := []struct {
		p    r3.Point
		want Containment
	}{
		{r3.Point{}, Inside},
		{r3.Point{X: 9.999}, Inside},
		{r3.Point{X: 10}, OnSurface},
		{r3.Point{X: 10.5}, Outside},
	}
	for _, tc := range testcases {
		if got := s.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestSphereNormal(t *testing.T) {
	s := Sphere{Center: r3.Point{}, Radius: 10}
	n := s.Normal(r3.Point{X: 10})
	if !n.IsClose(r3.Vec{X: 1}, 1e-9) {
		t.Errorf("Normal = %v, want (1,0,0)", n)
	}
}

func TestSphereValidate(t *testing.T) {
	if err := (Sphere{Radius: 0}).Validate(); err == nil {
		t.Error("expected error for zero radius")
	}
	if err := (Sphere{Radius: 1}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
