package pinview

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// Scene is the default SceneHost: an orbit camera looking at a model pivot
// that carries meshes and marker proxies. It owns a Viewer session and
// drives it from Update.
type Scene struct {
	// ClearColor fills the screen before drawing.
	ClearColor Color
	// OccludeMarkers hides markers that sit behind model geometry.
	OccludeMarkers bool
	// ScreenshotDir is where labelled screenshots are written.
	ScreenshotDir string
	// OnMarkerClick runs when a press locks a marker.
	OnMarkerClick func(*Marker)

	camera   *OrbitCamera
	pivot    *Pivot
	meshes   []*Mesh
	proxies  []*Marker
	viewport Rect
	viewer   *Viewer
	log      zerolog.Logger
	debug    bool

	// Render state
	tris       []drawTri
	vertices   []ebiten.Vertex
	indices    []uint16
	whitePixel *ebiten.Image
	panelImg   *ebiten.Image
	labelImg   *ebiten.Image

	// Input state
	pointer      pointerState
	dragDeadZone float64
	orbitSpeed   float64
	injectQueue  []injectedPointer

	testRunner      *TestRunner
	screenshotQueue []string
}

// NewScene creates a scene with a default camera and an empty pivot, and a
// Viewer bound to it with the given config.
func NewScene(cfg Config, opts ...Option) *Scene {
	s := &Scene{
		ClearColor:     Color{R: 1, G: 0.91, B: 0.91, A: 1}, // #ffe8e8
		OccludeMarkers: true,
		ScreenshotDir:  "screenshots",
		camera:         NewOrbitCamera(),
		pivot:          NewPivot(),
		dragDeadZone:   defaultDragDeadZone,
		orbitSpeed:     defaultOrbitSpeed,
		log:            zerolog.Nop(),
	}
	s.viewer = NewViewer(s, cfg, opts...)
	s.log = s.viewer.log
	return s
}

// Viewer returns the scene's hotspot session.
func (s *Scene) Viewer() *Viewer { return s.viewer }

// Camera returns the orbit camera.
func (s *Scene) Camera() *OrbitCamera { return s.camera }

// Pivot returns the model pivot.
func (s *Scene) Pivot() *Pivot { return s.pivot }

// SetViewport sets the render surface rectangle in client pixels.
func (s *Scene) SetViewport(r Rect) {
	s.viewport = r
}

// AddMesh parents m under the model pivot.
func (s *Scene) AddMesh(m *Mesh) {
	m.pivot = s.pivot
	m.Invalidate()
	s.meshes = append(s.meshes, m)
}

// RemoveMesh detaches m from the pivot.
func (s *Scene) RemoveMesh(m *Mesh) {
	for i, cur := range s.meshes {
		if cur == m {
			s.meshes = append(s.meshes[:i], s.meshes[i+1:]...)
			m.pivot = nil
			m.Invalidate()
			return
		}
	}
}

// Meshes returns the model meshes. The returned slice MUST NOT be mutated.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// FrameModel centres the model on the origin and pulls the camera back so
// the whole model is visible.
func (s *Scene) FrameModel() {
	b := s.localBounds()
	if b.IsEmpty() {
		return
	}
	size := b.Size()
	maxDim := max(size[0], size[1], size[2]) * s.pivot.Scale
	s.pivot.SetPosition(b.Center().Mul(-s.pivot.Scale))
	s.camera.Target = mgl64.Vec3{}
	s.camera.Frame(maxDim)
	s.camera.Snap()
}

func (s *Scene) localBounds() Box3 {
	b := emptyBox()
	for _, m := range s.meshes {
		b = b.Union(m.LocalBounds())
	}
	return b
}

// --- SceneHost ---

// ActiveCamera implements SceneHost.
func (s *Scene) ActiveCamera() Camera {
	if s.camera == nil {
		return nil
	}
	return s.camera
}

// RenderSurfaceBounds implements SceneHost.
func (s *Scene) RenderSurfaceBounds() Rect {
	return s.viewport
}

// MarkerWorldPosition implements SceneHost.
func (s *Scene) MarkerWorldPosition(m *Marker) mgl64.Vec3 {
	return s.pivot.LocalToWorld(m.LocalPosition())
}

// RegisterPickableProxy implements SceneHost.
func (s *Scene) RegisterPickableProxy(m *Marker) {
	s.proxies = append(s.proxies, m)
	if s.debug {
		debugCheckMarkerCount(s.log, len(s.proxies))
	}
}

// UnregisterPickableProxy implements SceneHost.
func (s *Scene) UnregisterPickableProxy(m *Marker) {
	for i, p := range s.proxies {
		if p == m {
			copy(s.proxies[i:], s.proxies[i+1:])
			s.proxies[len(s.proxies)-1] = nil
			s.proxies = s.proxies[:len(s.proxies)-1]
			return
		}
	}
}

// ModelMeshCandidates implements SceneHost.
func (s *Scene) ModelMeshCandidates() []*Mesh {
	return s.meshes
}

// ModelSize implements SceneHost.
func (s *Scene) ModelSize() float64 {
	b := s.localBounds()
	if b.IsEmpty() {
		return 0
	}
	size := b.Size()
	return max(size[0], size[1], size[2]) * s.pivot.Scale
}

// Proxies returns the registered marker proxies in registration order.
func (s *Scene) Proxies() []*Marker {
	return s.proxies
}

// --- Frame loop ---

// Update advances the camera and pivot, processes pointer input and ticks
// the viewer. Call once per frame.
func (s *Scene) Update() {
	s.update(1.0 / float64(ebiten.TPS()))
}

func (s *Scene) update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	s.camera.update(float32(dt))
	s.pivot.update(dt)
	s.processInput()
	s.viewer.TickDelta(dt)

	if s.debug {
		state, active := s.viewer.HoverState()
		ev := s.log.Debug().Dur("update", time.Since(t0)).Str("state", state.String())
		if active != nil {
			ev = ev.Uint32("marker", uint32(active.ID))
		}
		ev.Msg("frame")
	}
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing and hover state are logged at debug level and marker count
// warnings are emitted.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}
