package geom

import (
	"testing"

	"github.com/scottlawsonbc/pvtrace/r3"
)

func TestBoxIntersections(t *testing.T) {
	b := Box{Center: r3.Point{}, Size: r3.Vec{X: 2, Y: 2, Z: 2}}
	r := Ray{Origin: r3.Point{X: -5}, Direction: r3.Vec{X: 1}}
	got := b.Intersections(r)
	if len(got) != 2 {
		t.Fatalf("got %d roots, want 2", len(got))
	}
	if got[0] > got[1] {
		t.Errorf("roots not ascending: %v", got)
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{Center: r3.Point{}, Size: r3.Vec{X: 2, Y: 2, Z: 2}}
	testcases := []struct {
		p    r3.Point
		want Containment
	}{
		{r3.Point{}, Inside},
		{r3.Point{X: 1}, OnSurface},
		{r3.Point{X: 1.5}, Outside},
	}
	for _, tc := range testcases {
		if got := b.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestBoxNormal(t *testing.T) {
	b := Box{Center: r3.Point{}, Size: r3.Vec{X: 2, Y: 2, Z: 2}}
	n := b.Normal(r3.Point{X: 1, Y: 0.1, Z: -0.2})
	if !n.IsClose(r3.Vec{X: 1}, 1e-9) {
		t.Errorf("Normal = %v, want (1,0,0)", n)
	}
}
