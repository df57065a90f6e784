// Package obj parses the geometry-bearing subset of Wavefront OBJ files —
// vertex positions and face windings — as source data for mesh-shaped
// regions of a scene. A closed OBJ mesh becomes the boundary of a volume
// that a material can be assigned to, the same way a sphere or box shape
// can. OBJ's texture coordinate, normal, and MTL material directives carry
// no meaning for a statistical photon tracer (geom.Mesh derives its own
// face normals from vertex winding, and volume optics come from the scene
// document's material, never from an MTL file), so this parser only
// recognizes the "v" and "f" directives and ignores everything else.
package obj

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// Vertex represents a 3D point in space.
type Vertex struct {
	X, Y, Z float64
}

// Face is a polygonal face, defined by 1-based indices into Object.Vertices.
// Negative (relative) indices are resolved to positive ones during parsing.
type Face struct {
	VertexIndices []int
}

// Object is the vertex/face geometry parsed from an OBJ file.
type Object struct {
	Vertices []Vertex
	Faces    []Face
}

// ParseError represents a parsing error with contextual information.
type ParseError struct {
	Filename string
	Line     int
	LineText string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: %s\n    %s", e.Filename, e.Line, e.Msg, e.LineText)
	}
	return fmt.Sprintf("line %d: %s\n    %s", e.Line, e.Msg, e.LineText)
}

// ParseFS reads and parses an OBJ file's vertex and face directives from
// the provided filesystem.
func ParseFS(fsys fs.FS, pattern string) (*Object, error) {
	data, err := fs.ReadFile(fsys, path.Clean(pattern))
	if err != nil {
		return nil, &ParseError{
			Filename: path.Base(pattern),
			Msg:      fmt.Sprintf("failed to read file '%s': %v", pattern, err),
		}
	}
	p := &parser{
		reader:   bufio.NewReader(bytes.NewReader(data)),
		obj:      &Object{},
		filename: path.Base(pattern),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.obj, nil
}

type parser struct {
	reader     *bufio.Reader
	obj        *Object
	lineNumber int
	lineText   string
	filename   string
}

func (p *parser) parse() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return &ParseError{
				Filename: p.filename,
				Line:     p.lineNumber,
				Msg:      fmt.Sprintf("error reading OBJ data: %v", err),
			}
		}
		if err == io.EOF && len(line) == 0 {
			break
		}
		p.lineNumber++
		p.lineText = strings.TrimSpace(line)
		if parseErr := p.parseLine(p.lineText); parseErr != nil {
			return parseErr
		}
		if err == io.EOF {
			break
		}
	}
	return nil
}

// parseLine recognizes only "v" and "f"; every other directive (vt, vn,
// mtllib, usemtl, o, g, s, ...) is geometry-irrelevant here and skipped.
func (p *parser) parseLine(line string) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	firstSpace := strings.IndexByte(line, ' ')
	if firstSpace == -1 {
		return nil
	}
	directive := line[:firstSpace]
	rest := line[firstSpace+1:]

	switch directive {
	case "v":
		return p.parseVertex(rest)
	case "f":
		return p.parseFace(rest)
	default:
		return nil
	}
}

func (p *parser) parseVertex(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return p.newError("invalid vertex data: expected at least 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return p.newError("invalid vertex X coordinate: %v", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return p.newError("invalid vertex Y coordinate: %v", err)
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return p.newError("invalid vertex Z coordinate: %v", err)
	}
	p.obj.Vertices = append(p.obj.Vertices, Vertex{X: x, Y: y, Z: z})
	return nil
}

// parseFace parses a face's vertex indices, discarding any /vt/vn suffix on
// each index token (e.g. "3/12/7" keeps only 3) since texture coordinates
// and normals are never used by a mesh shape.
func (p *parser) parseFace(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return p.newError("face definition error: a face must have at least 3 vertices, got %d", len(fields))
	}
	indices := make([]int, 0, len(fields))
	for _, field := range fields {
		token := field
		if slash := strings.IndexByte(field, '/'); slash != -1 {
			token = field[:slash]
		}
		v, err := strconv.Atoi(token)
		if err != nil {
			return p.newError("invalid face index '%s': %v", field, err)
		}
		idx, err := resolveIndex(v, len(p.obj.Vertices))
		if err != nil {
			return p.newError("invalid face index '%s': %v", field, err)
		}
		indices = append(indices, idx)
	}
	p.obj.Faces = append(p.obj.Faces, Face{VertexIndices: indices})
	return nil
}

// resolveIndex resolves a 1-based (or negative, relative-to-end) OBJ index
// against size and checks it is in range.
func resolveIndex(val, size int) (int, error) {
	if val < 0 {
		val = size + val + 1
	}
	if val < 1 || val > size {
		return 0, fmt.Errorf("index %d out of range (1 to %d)", val, size)
	}
	return val, nil
}

func (p *parser) newError(format string, args ...interface{}) error {
	return &ParseError{
		Filename: p.filename,
		Line:     p.lineNumber,
		LineText: p.lineText,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// Triangles flattens every face into triangles by fan triangulation (vertex
// 0, i, i+1 for i in [1, len(VertexIndices)-2]), the triangulation a mesh
// shape needs from faces of 3 or more vertices; faces are assumed planar
// and convex, same as any OBJ-consuming renderer assumes.
func (o *Object) Triangles() [][3]Vertex {
	var tris [][3]Vertex
	for _, face := range o.Faces {
		if len(face.VertexIndices) < 3 {
			continue
		}
		v0 := o.Vertices[face.VertexIndices[0]-1]
		for i := 1; i < len(face.VertexIndices)-1; i++ {
			v1 := o.Vertices[face.VertexIndices[i]-1]
			v2 := o.Vertices[face.VertexIndices[i+1]-1]
			tris = append(tris, [3]Vertex{v0, v1, v2})
		}
	}
	return tris
}
