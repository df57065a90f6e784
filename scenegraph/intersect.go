package scenegraph

import (
	"fmt"
	"math"
	"sort"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/r3"
)

// Hit is one intersection between a world-space ray and a node's geometry.
type Hit struct {
	T      float64
	Node   int
	Facet  string
	Normal r3.Vec // world-space outward unit normal
}

// Intersections walks every node with attached geometry, transforms r into
// that node's local frame, collects its positive intersection roots, and
// returns every hit across the whole scene globally ordered by T ascending.
// Ties within geom.Eps are broken by ascending nesting depth (shallower,
// i.e. outer, nodes first) and then by node name, whether the ray is leaving
// or entering at that t; the engine takes the first hit in this order and
// does not reorder a tied bucket.
func (s *Scene) Intersections(r geom.Ray) []Hit {
	var hits []Hit
	var walk func(idx int)
	walk = func(idx int) {
		node := s.Nodes[idx]
		if node.Shape != nil {
			world := s.worldTransform[idx]
			local := world.ToLocal(r)
			for _, t := range node.Shape.Intersections(local) {
				localPoint := local.At(t)
				localNormal := node.Shape.Normal(localPoint)
				worldNormal := world.ApplyToVector(localNormal).Unit()
				hits = append(hits, Hit{
					T:      t,
					Node:   idx,
					Facet:  facetLabel(localNormal),
					Normal: worldNormal,
				})
			}
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(s.World)

	sort.SliceStable(hits, func(i, j int) bool {
		if math.Abs(hits[i].T-hits[j].T) > geom.Eps {
			return hits[i].T < hits[j].T
		}
		if s.depth[hits[i].Node] != s.depth[hits[j].Node] {
			return s.depth[hits[i].Node] < s.depth[hits[j].Node]
		}
		return s.Nodes[hits[i].Node].Name < s.Nodes[hits[j].Node].Name
	})
	return hits
}

// facetLabel derives an opaque facet identifier from a local-space surface
// normal: the dominant axis and its sign. It distinguishes the faces of a
// Box exactly and gives Sphere/Cylinder/Mesh hits a stable, if coarser,
// label, which is all callers need from an opaque identifier.
func facetLabel(n r3.Vec) string {
	ax, av := "x", math.Abs(n.X)
	if math.Abs(n.Y) > av {
		ax, av = "y", math.Abs(n.Y)
	}
	if math.Abs(n.Z) > av {
		ax = "z"
	}
	sign := "+"
	switch ax {
	case "x":
		if n.X < 0 {
			sign = "-"
		}
	case "y":
		if n.Y < 0 {
			sign = "-"
		}
	case "z":
		if n.Z < 0 {
			sign = "-"
		}
	}
	return fmt.Sprintf("%s%s", sign, ax)
}

// Container returns the arena index of the deepest node whose geometry
// strictly contains p, walking the tree depth-first from World. World is the
// fallback: spec.md's invariant requires it to bound everything.
func (s *Scene) Container(p r3.Point) int {
	best := s.World
	var walk func(idx int)
	walk = func(idx int) {
		for _, c := range s.Nodes[idx].Children {
			node := s.Nodes[c]
			if node.Shape != nil {
				inv := s.worldTransform[c].Inverse()
				local := inv.ApplyToPoint(p)
				if node.Shape.Contains(local) == geom.Inside {
					best = c
					walk(c)
					continue
				}
			} else {
				walk(c)
			}
		}
	}
	walk(s.World)
	return best
}
