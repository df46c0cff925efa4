package pinview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is three vertices in counter-clockwise winding.
type Triangle [3]mgl64.Vec3

// Normal returns the unit face normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max mgl64.Vec3
}

// emptyBox returns a box that any point expands.
func emptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{Min: mgl64.Vec3{inf, inf, inf}, Max: mgl64.Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to include p.
func (b *Box3) ExpandByPoint(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Union returns the smallest box containing b and o.
func (b Box3) Union(o Box3) Box3 {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
	return b
}

// Size returns the box extents.
func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectRay reports whether the ray crosses the box (slab test).
func (b Box3) IntersectRay(r Ray) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t0 := (b.Min[i] - r.Origin[i]) * inv
		t1 := (b.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// Mesh is a triangle surface of the model, defined in pivot-local space.
type Mesh struct {
	Name      string
	Color     Color
	Visible   bool
	Triangles []Triangle

	pivot        *Pivot
	worldTris    []Triangle
	worldBox     Box3
	worldVersion uint64
	worldValid   bool
}

// NewMesh creates a visible mesh from local-space triangles.
func NewMesh(name string, tris []Triangle, c Color) *Mesh {
	return &Mesh{Name: name, Color: c, Visible: true, Triangles: tris}
}

// Invalidate marks the cached world-space triangles stale. Call this after
// modifying Triangles.
func (m *Mesh) Invalidate() {
	m.worldValid = false
}

// LocalBounds returns the bounding box of the local-space triangles.
func (m *Mesh) LocalBounds() Box3 {
	b := emptyBox()
	for _, t := range m.Triangles {
		for _, v := range t {
			b.ExpandByPoint(v)
		}
	}
	return b
}

// WorldTriangles returns the triangles transformed by the mesh's pivot.
// The result is cached until the pivot moves; it must not be mutated.
func (m *Mesh) WorldTriangles() []Triangle {
	if m.pivot == nil {
		if !m.worldValid {
			m.worldBox = m.LocalBounds()
			m.worldValid = true
		}
		return m.Triangles
	}
	ver := m.pivot.Version()
	if m.worldValid && ver == m.worldVersion && len(m.worldTris) == len(m.Triangles) {
		return m.worldTris
	}
	if cap(m.worldTris) < len(m.Triangles) {
		m.worldTris = make([]Triangle, len(m.Triangles))
	}
	m.worldTris = m.worldTris[:len(m.Triangles)]
	mat := m.pivot.Matrix()
	box := emptyBox()
	for i, t := range m.Triangles {
		for j, v := range t {
			w := mgl64.TransformCoordinate(v, mat)
			m.worldTris[i][j] = w
			box.ExpandByPoint(w)
		}
	}
	m.worldBox = box
	m.worldVersion = ver
	m.worldValid = true
	return m.worldTris
}

// WorldBounds returns the bounding box of the world-space triangles.
func (m *Mesh) WorldBounds() Box3 {
	m.WorldTriangles()
	return m.worldBox
}

// Raycast returns the nearest triangle index and ray parameter where r
// meets the mesh. Both faces are hit.
func (m *Mesh) Raycast(r Ray) (int, float64, bool) {
	tris := m.WorldTriangles()
	if len(tris) == 0 || !m.worldBox.IntersectRay(r) {
		return -1, 0, false
	}
	best, bestT := -1, math.Inf(1)
	for i := range tris {
		if t, ok := intersectTriangle(r, &tris[i]); ok && t < bestT {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, bestT, true
}

// intersectTriangle is the Möller–Trumbore ray/triangle test.
func intersectTriangle(r Ray, t *Triangle) (float64, bool) {
	const eps = 1e-12
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(t[0])
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	d := e2.Dot(q) * inv
	if d < 0 {
		return 0, false
	}
	return d, true
}

// --- Builders ---

// NewBoxMesh creates an axis-aligned box of the given size centred on the
// origin.
func NewBoxMesh(name string, w, h, d float64, c Color) *Mesh {
	x, y, z := w/2, h/2, d/2
	v := [8]mgl64.Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}, // front
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z}, // back
	}
	quad := func(a, b, cc, dd int) [2]Triangle {
		return [2]Triangle{{v[a], v[b], v[cc]}, {v[a], v[cc], v[dd]}}
	}
	faces := [][2]Triangle{
		quad(0, 1, 2, 3), // +Z
		quad(5, 4, 7, 6), // -Z
		quad(1, 5, 6, 2), // +X
		quad(4, 0, 3, 7), // -X
		quad(3, 2, 6, 7), // +Y
		quad(4, 5, 1, 0), // -Y
	}
	tris := make([]Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris, f[0], f[1])
	}
	return NewMesh(name, tris, c)
}

// NewSphereMesh creates a UV sphere centred on the origin. rings and
// segments are clamped to at least 3.
func NewSphereMesh(name string, radius float64, rings, segments int, c Color) *Mesh {
	rings = max(rings, 3)
	segments = max(segments, 3)
	point := func(ring, seg int) mgl64.Vec3 {
		phi := math.Pi * float64(ring) / float64(rings)
		theta := 2 * math.Pi * float64(seg) / float64(segments)
		sp, cp := math.Sincos(phi)
		st, ct := math.Sincos(theta)
		return mgl64.Vec3{radius * sp * st, radius * cp, radius * sp * ct}
	}
	tris := make([]Triangle, 0, rings*segments*2)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := point(r, s)
			b := point(r+1, s)
			cc := point(r+1, s+1)
			d := point(r, s+1)
			if r != 0 {
				tris = append(tris, Triangle{a, b, d})
			}
			if r != rings-1 {
				tris = append(tris, Triangle{b, cc, d})
			}
		}
	}
	return NewMesh(name, tris, c)
}
