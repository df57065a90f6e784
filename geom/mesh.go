package geom

import (
	"math"
	"sort"

	"github.com/scottlawsonbc/pvtrace/r3"
)

// Triangle is one face of a Mesh.
type Triangle struct {
	V0, V1, V2 r3.Point
}

func (tr Triangle) bounds() AABB {
	min := r3.Point{
		X: math.Min(math.Min(tr.V0.X, tr.V1.X), tr.V2.X),
		Y: math.Min(math.Min(tr.V0.Y, tr.V1.Y), tr.V2.Y),
		Z: math.Min(math.Min(tr.V0.Z, tr.V1.Z), tr.V2.Z),
	}
	max := r3.Point{
		X: math.Max(math.Max(tr.V0.X, tr.V1.X), tr.V2.X),
		Y: math.Max(math.Max(tr.V0.Y, tr.V1.Y), tr.V2.Y),
		Z: math.Max(math.Max(tr.V0.Z, tr.V1.Z), tr.V2.Z),
	}
	return AABB{Min: min, Max: max}
}

func (tr Triangle) normal() r3.Vec {
	return tr.V1.Sub(tr.V0).Cross(tr.V2.Sub(tr.V0)).Unit()
}

// intersect implements the Möller-Trumbore ray/triangle intersection test,
// returning the t root (if any, of either sign) ignoring tmin/tmax clipping;
// the caller drops non-positive roots and applies Eps filtering via
// positiveRoots.
func (tr Triangle) intersect(r Ray) (t float64, ok bool) {
	edge1 := tr.V1.Sub(tr.V0)
	edge2 := tr.V2.Sub(tr.V0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -1e-12 && a < 1e-12 {
		return 0, false
	}
	f := 1 / a
	s := r.Origin.Sub(tr.V0)
	u := f * s.Dot(h)
	if u < -1e-9 || u > 1+1e-9 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < -1e-9 || u+v > 1+1e-9 {
		return 0, false
	}
	return f * edge2.Dot(q), true
}

// Mesh is a closed triangle mesh. Closedness (every edge shared by exactly
// two triangles) is the caller's responsibility to guarantee at
// construction; Validate only checks for degenerate triangles, matching
// spec.md §4.1's "closed mesh required" as a precondition rather than
// something Mesh can verify cheaply at runtime.
type Mesh struct {
	Triangles []Triangle
	bvh       *meshBVH
}

var _ Geometry = (*Mesh)(nil)

// NewMesh builds a Mesh and its bounding volume hierarchy.
func NewMesh(triangles []Triangle) (*Mesh, error) {
	m := &Mesh{Triangles: triangles}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.bvh = newMeshBVH(triangles)
	return m, nil
}

func (m *Mesh) Validate() error {
	if len(m.Triangles) == 0 {
		return newGeometryError("Mesh", "must contain at least one triangle")
	}
	for i, tr := range m.Triangles {
		area := tr.V1.Sub(tr.V0).Cross(tr.V2.Sub(tr.V0)).Length() * 0.5
		if area < 1e-12 {
			return newGeometryError("Mesh", "triangle %d is degenerate (near-zero area)", i)
		}
	}
	return nil
}

func (m *Mesh) Bounds() AABB {
	if m.bvh != nil {
		return m.bvh.bounds
	}
	b := m.Triangles[0].bounds()
	for _, tr := range m.Triangles[1:] {
		b = b.Union(tr.bounds())
	}
	return b
}

// Intersections returns every positive root across all triangles, ascending,
// with roots within Eps of each other (a ray through an edge or vertex that
// several triangles share) reported once.
// It is accelerated by the mesh's BVH, which prunes subtrees whose bounding
// box the ray misses, but (unlike a renderer's nearest-hit BVH) always
// descends into both children of a hit node since every root is needed, not
// just the closest one.
func (m *Mesh) Intersections(r Ray) []float64 {
	if m.bvh == nil {
		return nil
	}
	var roots []float64
	m.bvh.collect(r, &roots)
	sorted := positiveRoots(roots...)
	out := sorted[:0]
	for _, t := range sorted {
		if len(out) == 0 || t-out[len(out)-1] > Eps {
			out = append(out, t)
		}
	}
	return out
}

// Contains uses the parity of intersection counts along a fixed ray cast
// from p: an odd number of crossings means p is inside.
func (m *Mesh) Contains(p r3.Point) Containment {
	const onSurfaceTol = 1e-6
	for _, tr := range m.Triangles {
		// Distance from p to the triangle's plane; if very close and p
		// projects inside the triangle, treat as on-surface.
		n := tr.normal()
		d := p.Sub(tr.V0).Dot(n)
		if math.Abs(d) < onSurfaceTol && pointInTriangle(p, tr) {
			return OnSurface
		}
	}
	castDir := r3.Vec{X: 0.6123398901, Y: 0.5199792163, Z: 0.5950210803}.Unit()
	ray := Ray{Origin: p, Direction: castDir}
	crossings := 0
	for _, tr := range m.Triangles {
		if t, ok := tr.intersect(ray); ok && t > Eps {
			crossings++
		}
	}
	if crossings%2 == 1 {
		return Inside
	}
	return Outside
}

func pointInTriangle(p r3.Point, tr Triangle) bool {
	edge1 := tr.V1.Sub(tr.V0)
	edge2 := tr.V2.Sub(tr.V0)
	w := p.Sub(tr.V0)
	d00 := edge1.Dot(edge1)
	d01 := edge1.Dot(edge2)
	d11 := edge2.Dot(edge2)
	d20 := w.Dot(edge1)
	d21 := w.Dot(edge2)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-15 {
		return false
	}
	v := (d11*d20 - d01*d21) / denom
	wgt := (d00*d21 - d01*d20) / denom
	u := 1 - v - wgt
	const tol = 1e-6
	return u >= -tol && v >= -tol && wgt >= -tol
}

// Normal returns the geometric normal of whichever triangle p lies nearest
// to (by plane distance).
func (m *Mesh) Normal(p r3.Point) r3.Vec {
	best := math.MaxFloat64
	var normal r3.Vec
	for _, tr := range m.Triangles {
		n := tr.normal()
		d := math.Abs(p.Sub(tr.V0).Dot(n))
		if d < best {
			best = d
			normal = n
		}
	}
	return normal
}

// meshBVH is a simple median-split bounding volume hierarchy over a mesh's
// triangles, adapted from a nearest-hit renderer BVH into a collect-all
// structure: every subtree whose bounds the ray crosses is descended,
// rather than stopping at the first hit.
type meshBVH struct {
	bounds      AABB
	left, right *meshBVH
	leaf        []Triangle
}

const meshBVHLeafSize = 4

func newMeshBVH(triangles []Triangle) *meshBVH {
	if len(triangles) == 0 {
		return nil
	}
	b := triangles[0].bounds()
	for _, tr := range triangles[1:] {
		b = b.Union(tr.bounds())
	}
	if len(triangles) <= meshBVHLeafSize {
		return &meshBVH{bounds: b, leaf: triangles}
	}
	axis := b.LongestAxis()
	sorted := make([]Triangle, len(triangles))
	copy(sorted, triangles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].bounds().Center().Get(axis) < sorted[j].bounds().Center().Get(axis)
	})
	mid := len(sorted) / 2
	return &meshBVH{
		bounds: b,
		left:   newMeshBVH(sorted[:mid]),
		right:  newMeshBVH(sorted[mid:]),
	}
}

func (n *meshBVH) collect(r Ray, roots *[]float64) {
	if n == nil || !n.bounds.Hit(r, -math.MaxFloat64, math.MaxFloat64) {
		return
	}
	for _, tr := range n.leaf {
		if t, ok := tr.intersect(r); ok {
			*roots = append(*roots, t)
		}
	}
	n.left.collect(r, roots)
	n.right.collect(r, roots)
}
