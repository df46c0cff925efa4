package pinview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// testHost is a minimal SceneHost: an orbit camera at (0, 0, 3) looking at
// the origin, an 800x600 surface and an identity pivot.
type testHost struct {
	cam     Camera
	bounds  Rect
	pivot   *Pivot
	meshes  []*Mesh
	proxies []*Marker
	size    float64
}

func newTestHost() *testHost {
	return &testHost{
		cam:    NewOrbitCamera(),
		bounds: Rect{Width: 800, Height: 600},
		pivot:  NewPivot(),
	}
}

func (h *testHost) ActiveCamera() Camera { return h.cam }
func (h *testHost) RenderSurfaceBounds() Rect { return h.bounds }
func (h *testHost) ModelMeshCandidates() []*Mesh { return h.meshes }
func (h *testHost) ModelSize() float64 { return h.size }

func (h *testHost) MarkerWorldPosition(m *Marker) mgl64.Vec3 {
	return h.pivot.LocalToWorld(m.LocalPosition())
}

func (h *testHost) RegisterPickableProxy(m *Marker) {
	h.proxies = append(h.proxies, m)
}

func (h *testHost) UnregisterPickableProxy(m *Marker) {
	for i, p := range h.proxies {
		if p == m {
			h.proxies = append(h.proxies[:i], h.proxies[i+1:]...)
			return
		}
	}
}

func (h *testHost) addMesh(m *Mesh) {
	m.pivot = h.pivot
	m.Invalidate()
	h.meshes = append(h.meshes, m)
}

// screenOf returns the client pixel a world point projects to.
func (h *testHost) screenOf(t *testing.T, world mgl64.Vec3) Vec2 {
	t.Helper()
	ndc, ok := ProjectToNDC(h.cam, world, h.bounds.Aspect())
	if !ok {
		t.Fatalf("point %v does not project", world)
	}
	return NDCToScreen(ndc, h.bounds)
}

// recordingOverlay counts overlay calls made by the animator.
type recordingOverlay struct {
	shows, hides, locks, unlocks int
	last                         *Marker
}

func (o *recordingOverlay) Show(m *Marker) { o.shows++; o.last = m }
func (o *recordingOverlay) Hide() { o.hides++ }
func (o *recordingOverlay) Lock(m *Marker) { o.locks++; o.last = m }
func (o *recordingOverlay) Unlock() { o.unlocks++ }

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, 1e-9) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVecNear(t *testing.T, name string, got, want mgl64.Vec3, eps float64) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func ptr[T any](v T) *T { return &v }

func pointerAt(p Vec2) PointerEvent {
	return PointerEvent{ClientX: p.X, ClientY: p.Y, Button: MouseButtonLeft}
}
