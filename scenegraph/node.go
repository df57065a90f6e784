// Package scenegraph is a tree of nodes, each carrying a local transform and
// optionally attached geometry, a volume material, and a light source. It
// resolves world-space intersection and containment queries by walking the
// tree, caching each node's world transform until the next Rebuild.
package scenegraph

import (
	"fmt"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/lightsource"
	"github.com/scottlawsonbc/pvtrace/material"
)

// Node is one entry in a Scene's arena. Parent is -1 for the root; Children
// holds arena indices, never raw pointers, so the tree cannot form
// reference cycles by construction.
type Node struct {
	Name     string
	Parent   int
	Children []int
	Local    geom.Transform
	Shape    geom.Geometry
	Mat      *material.Material
	Light    *lightsource.Source
}

// Validate reports node-local configuration errors, including a
// non-orthonormal Local rotation. Tree-level invariants (parent/child
// consistency, single root) are checked by Scene.Validate once every node
// is in the arena.
func (n Node) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("scenegraph: node has empty name")
	}
	if !n.Local.Rotation.IsOrthonormal(1e-6) {
		return fmt.Errorf("scenegraph: node %q has a non-orthonormal rotation (scale is not supported)", n.Name)
	}
	if n.Shape != nil {
		if err := n.Shape.Validate(); err != nil {
			return fmt.Errorf("scenegraph: node %q geometry: %w", n.Name, err)
		}
	}
	if n.Mat != nil {
		if err := n.Mat.Validate(); err != nil {
			return fmt.Errorf("scenegraph: node %q material: %w", n.Name, err)
		}
	}
	return nil
}
