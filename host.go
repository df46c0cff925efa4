package pinview

import "github.com/go-gl/mathgl/mgl64"

// Camera supplies the combined view-projection transform used for ray
// casting and screen projection. Implementations may change every frame;
// the viewer never caches the matrix between calls.
type Camera interface {
	ViewProjection(aspect float64) mgl64.Mat4
}

// SceneHost is the collaborator that owns rendering, the model pivot and the
// camera. A Viewer queries it on every pick and every tick.
type SceneHost interface {
	// ActiveCamera returns the current camera, or nil if none is active.
	ActiveCamera() Camera
	// RenderSurfaceBounds returns the interactive viewport in client pixels.
	RenderSurfaceBounds() Rect
	// MarkerWorldPosition returns m's position after the pivot transform.
	MarkerWorldPosition(m *Marker) mgl64.Vec3
	// RegisterPickableProxy adds m's visual representation under the pivot.
	RegisterPickableProxy(m *Marker)
	// UnregisterPickableProxy removes m's visual representation.
	UnregisterPickableProxy(m *Marker)
	// ModelMeshCandidates returns the model surfaces for mesh hover picking.
	ModelMeshCandidates() []*Mesh
	// ModelSize returns the largest model dimension in world units, or 0
	// when no model is loaded.
	ModelSize() float64
}
