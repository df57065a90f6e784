package sceneconfig

import (
	"io/fs"
	"math"

	"github.com/scottlawsonbc/pvtrace/geom"
	"github.com/scottlawsonbc/pvtrace/lightsource"
	"github.com/scottlawsonbc/pvtrace/material"
	"github.com/scottlawsonbc/pvtrace/obj"
	"github.com/scottlawsonbc/pvtrace/r3"
	"github.com/scottlawsonbc/pvtrace/scenegraph"
)

// Build translates a parsed Document into a *scenegraph.Scene plus the
// light sources attached to its nodes, in document order. The returned
// sources are already bound to their scene node (scenegraph.Node.Light),
// so callers only need to pass them to trace.Engine.TraceBatch. assets
// resolves mesh shape files (shape.type: mesh, shape.file: name.obj); pass
// nil if the document has no mesh shapes.
func Build(doc Document, assets fs.FS) (*scenegraph.Scene, []*lightsource.Source, error) {
	materials := make(map[string]*material.Material, len(doc.Materials))
	for name, md := range doc.Materials {
		mat, err := buildMaterial(name, md)
		if err != nil {
			return nil, nil, err
		}
		materials[name] = mat
	}

	indexByName := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.Name == "" {
			return nil, nil, &ConfigError{Reason: "node at position has empty name"}
		}
		if _, dup := indexByName[n.Name]; dup {
			return nil, nil, &ConfigError{Node: n.Name, Reason: "duplicate node name"}
		}
		indexByName[n.Name] = i
	}

	worldIdx := -1
	nodes := make([]scenegraph.Node, len(doc.Nodes))
	var sources []*lightsource.Source

	for i, nd := range doc.Nodes {
		parent := -1
		if nd.Parent != "" {
			idx, ok := indexByName[nd.Parent]
			if !ok {
				return nil, nil, &ConfigError{Node: nd.Name, Reason: "parent " + nd.Parent + " not found"}
			}
			parent = idx
		} else {
			if worldIdx != -1 {
				return nil, nil, &ConfigError{Node: nd.Name, Reason: "more than one node has no parent"}
			}
			worldIdx = i
		}

		var mat *material.Material
		if nd.Material != "" {
			m, ok := materials[nd.Material]
			if !ok {
				return nil, nil, &ConfigError{Node: nd.Name, Reason: "material " + nd.Material + " not found"}
			}
			mat = m
		}

		shape, err := buildShape(nd.Shape, assets)
		if err != nil {
			return nil, nil, &ConfigError{Node: nd.Name, Reason: err.Error()}
		}

		transform := geom.Transform{
			Translation: r3.Vec{X: nd.Translation[0], Y: nd.Translation[1], Z: nd.Translation[2]},
			Rotation:    r3.IdentityMat3x3(),
		}
		if nd.RotationAngle != 0 {
			axis := r3.Vec{X: nd.RotationAxis[0], Y: nd.RotationAxis[1], Z: nd.RotationAxis[2]}
			if axis.IsZero() {
				axis = r3.Vec{Z: 1}
			}
			transform.Rotation = r3.RotationMatrixAxisAngle(axis, nd.RotationAngle)
		}

		var source *lightsource.Source
		if nd.Light != nil {
			s, err := buildLight(nd.Name, *nd.Light)
			if err != nil {
				return nil, nil, err
			}
			source = s
			sources = append(sources, s)
		}

		nodes[i] = scenegraph.Node{
			Name:   nd.Name,
			Parent: parent,
			Local:  transform,
			Shape:  shape,
			Mat:    mat,
			Light:  source,
		}
	}
	for i, nd := range doc.Nodes {
		if nd.Parent == "" {
			continue
		}
		parent := indexByName[nd.Parent]
		nodes[parent].Children = append(nodes[parent].Children, i)
	}

	if worldIdx == -1 {
		return nil, nil, &ConfigError{Reason: "document has no root node (every node has a parent)"}
	}

	scene, err := scenegraph.NewScene(nodes, worldIdx)
	if err != nil {
		return nil, nil, &ConfigError{Reason: err.Error()}
	}
	return scene, sources, nil
}

func buildShape(sd ShapeDoc, assets fs.FS) (geom.Geometry, error) {
	switch sd.Type {
	case "", "none":
		return nil, nil
	case "sphere":
		return geom.Sphere{Center: r3.Point{}, Radius: geom.Distance(sd.Radius)}, nil
	case "box":
		return geom.Box{Center: r3.Point{}, Size: r3.Vec{X: sd.Size[0], Y: sd.Size[1], Z: sd.Size[2]}}, nil
	case "cylinder":
		return geom.Cylinder{Origin: r3.Point{}, Direction: r3.Vec{Z: 1}, Radius: geom.Distance(sd.Radius), Height: geom.Distance(sd.Height)}, nil
	case "mesh":
		return buildMesh(sd.File, assets)
	default:
		return nil, &ConfigError{Reason: "unsupported shape type " + sd.Type}
	}
}

// buildMesh loads a Wavefront OBJ file and triangulates it into a
// *geom.Mesh. Vertex positions are taken as-is, in the node's local frame,
// the same way the primitive shapes (sphere/box/cylinder) are specified
// centered on the node's local origin.
func buildMesh(file string, assets fs.FS) (geom.Geometry, error) {
	if file == "" {
		return nil, &ConfigError{Reason: "mesh shape requires a file"}
	}
	if assets == nil {
		return nil, &ConfigError{Reason: "mesh shape requires an asset filesystem but none was provided"}
	}
	object, err := obj.ParseFS(assets, file)
	if err != nil {
		return nil, &ConfigError{Reason: "mesh " + file + ": " + err.Error()}
	}
	triples := object.Triangles()
	if len(triples) == 0 {
		return nil, &ConfigError{Reason: "mesh " + file + " contains no triangles"}
	}
	triangles := make([]geom.Triangle, len(triples))
	for i, t := range triples {
		triangles[i] = geom.Triangle{
			V0: r3.Point{X: t[0].X, Y: t[0].Y, Z: t[0].Z},
			V1: r3.Point{X: t[1].X, Y: t[1].Y, Z: t[1].Z},
			V2: r3.Point{X: t[2].X, Y: t[2].Y, Z: t[2].Z},
		}
	}
	mesh, err := geom.NewMesh(triangles)
	if err != nil {
		return nil, &ConfigError{Reason: "mesh " + file + ": " + err.Error()}
	}
	return mesh, nil
}

func buildMaterial(name string, md MaterialDoc) (*material.Material, error) {
	n := md.RefractiveIndex
	if n <= 0 {
		n = 1
	}
	mat := &material.Material{Name: name, RefractiveIndex: material.Constant(n)}
	for _, cd := range md.Components {
		comp, err := buildComponent(cd)
		if err != nil {
			return nil, &ConfigError{Node: name, Reason: err.Error()}
		}
		mat.Components = append(mat.Components, comp)
	}
	if err := mat.Validate(); err != nil {
		return nil, &ConfigError{Node: name, Reason: err.Error()}
	}
	return mat, nil
}

func buildComponent(cd ComponentDoc) (material.Component, error) {
	var phase material.PhaseFunction
	if cd.AsymmetryG != 0 {
		phase = material.HGPhaseFunction(cd.AsymmetryG)
	}
	coeff := material.FlatCoefficient(cd.Coefficient)
	switch cd.Kind {
	case "absorber":
		return material.AbsorberComponent{ComponentName: cd.Name, Coefficient: coeff}, nil
	case "scatterer":
		return material.ScattererComponent{ComponentName: cd.Name, Coefficient: coeff, Phase: phase}, nil
	case "luminophore":
		return material.LuminophoreComponent{
			ComponentName: cd.Name,
			Coefficient:   coeff,
			Emission:      material.MonochromaticEmission(cd.EmissionNM),
			QY:            cd.QuantumYield,
			Phase:         phase,
		}, nil
	case "reactor":
		return material.ReactorComponent{ComponentName: cd.Name, Coefficient: coeff}, nil
	default:
		return nil, &ConfigError{Reason: "unsupported component kind " + cd.Kind}
	}
}

func buildLight(nodeName string, ld LightDoc) (*lightsource.Source, error) {
	pos, err := buildPositionDelegate(ld.Position)
	if err != nil {
		return nil, &ConfigError{Node: nodeName, Reason: err.Error()}
	}
	dir, err := buildDirectionDelegate(ld.Direction)
	if err != nil {
		return nil, &ConfigError{Node: nodeName, Reason: err.Error()}
	}
	wave, err := buildWavelengthDelegate(ld.Wavelength)
	if err != nil {
		return nil, &ConfigError{Node: nodeName, Reason: err.Error()}
	}
	src := &lightsource.Source{
		Name:       nodeName,
		N:          ld.N,
		Position:   pos,
		Direction:  dir,
		Wavelength: wave,
	}
	if err := src.Validate(); err != nil {
		return nil, &ConfigError{Node: nodeName, Reason: err.Error()}
	}
	return src, nil
}

func buildPositionDelegate(d DelegateDoc) (lightsource.PositionDelegate, error) {
	switch d.Type {
	case "", "point":
		return lightsource.PointPosition{}, nil
	case "square":
		return lightsource.SquareMaskPosition{Width: d.Width, Height: d.Height}, nil
	case "circle":
		return lightsource.CircleMaskPosition{Radius: d.Radius}, nil
	default:
		return nil, &ConfigError{Reason: "unsupported position delegate type " + d.Type}
	}
}

func buildDirectionDelegate(d DelegateDoc) (lightsource.DirectionDelegate, error) {
	switch d.Type {
	case "", "collimated":
		return lightsource.CollimatedDirection{}, nil
	case "cone":
		return lightsource.ConeDirection{HalfAngleRadians: d.HalfAngleDeg * math.Pi / 180}, nil
	case "lambertian":
		return lightsource.LambertianDirection{}, nil
	default:
		return nil, &ConfigError{Reason: "unsupported direction delegate type " + d.Type}
	}
}

func buildWavelengthDelegate(d DelegateDoc) (lightsource.WavelengthDelegate, error) {
	switch d.Type {
	case "", "monochromatic":
		return lightsource.MonochromaticWavelength{WavelengthNM: d.ValueNM}, nil
	case "histogram":
		return &lightsource.HistogramWavelength{BinsNM: d.BinsNM, Weights: d.Weights}, nil
	default:
		return nil, &ConfigError{Reason: "unsupported wavelength delegate type " + d.Type}
	}
}
