package pinview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in world space. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere returns the nearest non-negative ray parameter at which
// the ray meets the sphere. A ray starting inside the sphere hits its far
// side.
func (r Ray) IntersectSphere(center mgl64.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// MeshHit describes the nearest intersection of a pick ray with model geometry.
type MeshHit struct {
	Mesh     *Mesh
	Triangle int
	Distance float64
	Point    mgl64.Vec3
}

// Picker converts pointer positions into rays and intersects them with
// marker proxies or model meshes. It never mutates what it inspects.
type Picker struct {
	host     SceneHost
	registry *Registry
}

func newPicker(host SceneHost, registry *Registry) *Picker {
	return &Picker{host: host, registry: registry}
}

// ToNDC maps client coordinates to normalized device coordinates relative
// to bounds. Returns false when bounds has no area.
func ToNDC(clientX, clientY float64, bounds Rect) (mgl64.Vec2, bool) {
	if bounds.Empty() {
		return mgl64.Vec2{}, false
	}
	px := clientX - bounds.X
	py := clientY - bounds.Y
	return mgl64.Vec2{
		(px/bounds.Width)*2 - 1,
		-(py/bounds.Height)*2 + 1,
	}, true
}

// RayFromNDC unprojects an NDC point through cam. The ray starts on the
// near plane and points toward the far plane. Returns false if the
// view-projection matrix is singular.
func RayFromNDC(cam Camera, ndc mgl64.Vec2, aspect float64) (Ray, bool) {
	vp := cam.ViewProjection(aspect)
	if math.Abs(vp.Det()) < 1e-18 {
		return Ray{}, false
	}
	inv := vp.Inv()
	near := inv.Mul4x1(mgl64.Vec4{ndc[0], ndc[1], -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndc[0], ndc[1], 1, 1})
	if near[3] == 0 || far[3] == 0 {
		return Ray{}, false
	}
	n := near.Vec3().Mul(1 / near[3])
	f := far.Vec3().Mul(1 / far[3])
	dir := f.Sub(n)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: n, Dir: dir.Normalize()}, true
}

// rayFor builds the pick ray for a pointer event, or reports false when no
// pick is possible.
func (p *Picker) rayFor(ev PointerEvent) (Ray, bool) {
	cam := p.host.ActiveCamera()
	if cam == nil {
		return Ray{}, false
	}
	bounds := p.host.RenderSurfaceBounds()
	ndc, ok := ToNDC(ev.ClientX, ev.ClientY, bounds)
	if !ok {
		return Ray{}, false
	}
	return RayFromNDC(cam, ndc, bounds.Aspect())
}

// Pick returns the nearest marker whose proxy sphere the pointer ray
// crosses, or nil. Equal distances resolve to the earlier-inserted marker.
func (p *Picker) Pick(ev PointerEvent) *Marker {
	if p.registry.Len() == 0 {
		return nil
	}
	ray, ok := p.rayFor(ev)
	if !ok {
		return nil
	}

	var best *Marker
	bestT := math.Inf(1)
	for _, m := range p.registry.Markers() {
		center := p.host.MarkerWorldPosition(m)
		t, hit := ray.IntersectSphere(center, m.ProxyRadius())
		if !hit {
			continue
		}
		if t < bestT {
			best, bestT = m, t
		}
	}
	return best
}

// PickMesh intersects the pointer ray with the host's model meshes and
// returns the nearest triangle hit.
func (p *Picker) PickMesh(ev PointerEvent) (MeshHit, bool) {
	meshes := p.host.ModelMeshCandidates()
	if len(meshes) == 0 {
		return MeshHit{}, false
	}
	ray, ok := p.rayFor(ev)
	if !ok {
		return MeshHit{}, false
	}

	var best MeshHit
	found := false
	for _, mesh := range meshes {
		if mesh == nil || !mesh.Visible {
			continue
		}
		tri, t, hit := mesh.Raycast(ray)
		if !hit {
			continue
		}
		if !found || t < best.Distance {
			best = MeshHit{Mesh: mesh, Triangle: tri, Distance: t, Point: ray.At(t)}
			found = true
		}
	}
	return best, found
}
