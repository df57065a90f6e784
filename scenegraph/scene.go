package scenegraph

import (
	"fmt"

	"github.com/scottlawsonbc/pvtrace/geom"
)

// Scene is the root node plus derived per-node caches (world transform,
// depth), rebuilt whenever a node's Local transform changes.
type Scene struct {
	Nodes []Node
	World int

	worldTransform []geom.Transform
	depth          []int
}

// NewScene builds a Scene from a flat node arena, validates it, and computes
// the initial world-transform cache.
func NewScene(nodes []Node, world int) (*Scene, error) {
	s := &Scene{Nodes: nodes, World: world}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Rebuild()
	return s, nil
}

// Validate checks tree-level invariants: a single, in-range root; consistent
// parent/child back-references; no cycles; and every node's own Validate.
func (s *Scene) Validate() error {
	if s.World < 0 || s.World >= len(s.Nodes) {
		return fmt.Errorf("scenegraph: world index %d out of range", s.World)
	}
	if s.Nodes[s.World].Parent != -1 {
		return fmt.Errorf("scenegraph: world node %q must have Parent -1", s.Nodes[s.World].Name)
	}
	if s.Nodes[s.World].Shape == nil {
		return fmt.Errorf("scenegraph: world node %q must carry a geometry that bounds the scene", s.Nodes[s.World].Name)
	}
	for i, n := range s.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(s.Nodes) {
				return fmt.Errorf("scenegraph: node %q has out-of-range child index %d", n.Name, c)
			}
			if s.Nodes[c].Parent != i {
				return fmt.Errorf("scenegraph: node %q child %q has Parent %d, want %d", n.Name, s.Nodes[c].Name, s.Nodes[c].Parent, i)
			}
		}
	}
	visited := make([]bool, len(s.Nodes))
	var walk func(idx, depth int) error
	walk = func(idx, depth int) error {
		if depth > len(s.Nodes) {
			return fmt.Errorf("scenegraph: cycle detected reaching node %q", s.Nodes[idx].Name)
		}
		if visited[idx] {
			return fmt.Errorf("scenegraph: node %q reachable from more than one parent", s.Nodes[idx].Name)
		}
		visited[idx] = true
		for _, c := range s.Nodes[idx].Children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(s.World, 0); err != nil {
		return err
	}
	for i, v := range visited {
		if !v {
			return fmt.Errorf("scenegraph: node %q is unreachable from the world root", s.Nodes[i].Name)
		}
	}
	return nil
}

// Rebuild recomputes the world-transform and depth caches by walking the
// tree from World. Call it after mutating any node's Local transform.
func (s *Scene) Rebuild() {
	s.worldTransform = make([]geom.Transform, len(s.Nodes))
	s.depth = make([]int, len(s.Nodes))
	var walk func(idx int, parentWorld geom.Transform, depth int)
	walk = func(idx int, parentWorld geom.Transform, depth int) {
		world := s.Nodes[idx].Local.Compose(parentWorld)
		s.worldTransform[idx] = world
		s.depth[idx] = depth
		for _, c := range s.Nodes[idx].Children {
			walk(c, world, depth+1)
		}
	}
	walk(s.World, geom.Identity(), 0)
}

// WorldTransform returns the cached world transform of node idx.
func (s *Scene) WorldTransform(idx int) geom.Transform {
	return s.worldTransform[idx]
}

// Depth returns node idx's distance from the world root (0 for World
// itself).
func (s *Scene) Depth(idx int) int {
	return s.depth[idx]
}
