// Package sceneconfig loads a declarative YAML scene document into a
// *scenegraph.Scene plus the light sources attached to it, the way a
// production renderer's asset pipeline turns a hand-edited document into
// in-memory types (see gazed-vu's load.Shd for the shape of this idiom:
// parse into a small string-keyed config struct, then translate strings
// into the real enum/interface values one field at a time, reporting the
// first unsupported value as a configuration error).
package sceneconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the root of a scene YAML document.
type Document struct {
	Version   int                         `yaml:"version"`
	Materials map[string]MaterialDoc      `yaml:"materials"`
	Nodes     []NodeDoc                   `yaml:"nodes"`
}

// MaterialDoc describes one named material entry under materials:.
type MaterialDoc struct {
	RefractiveIndex float64         `yaml:"refractiveIndex"`
	Components      []ComponentDoc `yaml:"components"`
}

// ComponentDoc describes one interaction component within a material.
type ComponentDoc struct {
	Kind        string  `yaml:"kind"` // absorber | scatterer | luminophore | reactor
	Name        string  `yaml:"name"`
	Coefficient float64 `yaml:"coefficient"`
	QuantumYield float64 `yaml:"quantumYield"`
	EmissionNM  float64 `yaml:"emissionNm"`
	AsymmetryG  float64 `yaml:"asymmetryG"` // Henyey-Greenstein g; 0 = isotropic
}

// NodeDoc describes one scene-graph node.
type NodeDoc struct {
	Name        string     `yaml:"name"`
	Parent      string     `yaml:"parent"` // empty for the world (root) node
	Material    string     `yaml:"material"`
	Translation [3]float64 `yaml:"translation"`
	RotationAxis  [3]float64 `yaml:"rotationAxis"`
	RotationAngle float64    `yaml:"rotationAngle"` // radians
	Shape       ShapeDoc   `yaml:"shape"`
	Light       *LightDoc  `yaml:"light"`
}

// ShapeDoc describes one geometry primitive attached to a node.
type ShapeDoc struct {
	Type   string     `yaml:"type"` // sphere | box | cylinder | mesh
	Radius float64    `yaml:"radius"`
	Height float64    `yaml:"height"`
	Size   [3]float64 `yaml:"size"`
	File   string     `yaml:"file"` // mesh: path to a Wavefront OBJ file, resolved against the scene's asset filesystem
}

// LightDoc describes a light source attached to a node.
type LightDoc struct {
	N         int            `yaml:"n"`
	Position  DelegateDoc    `yaml:"position"`
	Direction DelegateDoc    `yaml:"direction"`
	Wavelength DelegateDoc   `yaml:"wavelength"`
}

// DelegateDoc is a tagged-union-by-string-field delegate description,
// shared by position/direction/wavelength since all three follow the same
// "type plus a handful of type-specific fields" shape.
type DelegateDoc struct {
	Type   string    `yaml:"type"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Radius float64   `yaml:"radius"`
	HalfAngleDeg float64 `yaml:"halfAngleDeg"`
	ValueNM float64  `yaml:"valueNm"`
	BinsNM  []float64 `yaml:"binsNm"`
	Weights []float64 `yaml:"weights"`
}

// Parse unmarshals raw YAML bytes into a Document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, &ConfigError{Reason: fmt.Sprintf("yaml: %v", err)}
	}
	return doc, nil
}
