package pinview

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// Tooltip is the single overlay panel of a viewer session. It follows one
// marker's projected screen position while visible and can be locked open.
type Tooltip struct {
	host SceneHost
	cfg  *Config

	visible  bool
	locked   bool
	anchor   *Marker
	content  TooltipContent
	screen   Vec2
	onScreen bool

	opacity float64
	fade    *TweenGroup
}

func newTooltip(host SceneHost, cfg *Config) *Tooltip {
	return &Tooltip{host: host, cfg: cfg}
}

// Show anchors the tooltip to m and makes it visible. Ignored while locked
// to a different marker.
func (t *Tooltip) Show(m *Marker) {
	if t.locked && t.anchor != m {
		return
	}
	t.anchor = m
	t.content = m.content()
	t.visible = true
	t.fadeTo(1)
	t.Update()
}

// Hide hides the tooltip and clears its anchor. Ignored while locked.
func (t *Tooltip) Hide() {
	if t.locked {
		return
	}
	t.visible = false
	t.anchor = nil
	t.fadeTo(0)
}

// Lock pins the tooltip open on m, replacing any previous lock.
func (t *Tooltip) Lock(m *Marker) {
	t.anchor = m
	t.content = m.content()
	t.locked = true
	t.visible = true
	t.fadeTo(1)
	t.Update()
}

// Unlock releases the lock and hides the tooltip.
func (t *Tooltip) Unlock() {
	t.locked = false
	t.Hide()
}

// reset hides and unlocks immediately, skipping the fade.
func (t *Tooltip) reset() {
	t.locked = false
	t.visible = false
	t.anchor = nil
	t.onScreen = false
	t.opacity = 0
	t.fade = nil
}

// IsLocked reports whether the tooltip is pinned open.
func (t *Tooltip) IsLocked() bool { return t.locked }

// Visible reports whether the tooltip is shown.
func (t *Tooltip) Visible() bool { return t.visible }

// Anchor returns the marker the tooltip tracks, or nil.
func (t *Tooltip) Anchor() *Marker { return t.anchor }

// Content returns the content built for the current anchor.
func (t *Tooltip) Content() TooltipContent { return t.content }

// ScreenPosition returns the anchor point in client pixels as of the last
// Update.
func (t *Tooltip) ScreenPosition() Vec2 { return t.screen }

// OnScreen reports whether the anchor projected in front of the camera and
// within the depth range at the last Update.
func (t *Tooltip) OnScreen() bool { return t.onScreen }

// Opacity returns the faded panel opacity in [0, 1].
func (t *Tooltip) Opacity() float64 { return t.opacity }

func (t *Tooltip) fadeTo(target float64) {
	t.fade = TweenValue(&t.opacity, target, float32(t.cfg.Tooltip.FadeSeconds), ease.OutQuad)
}

// Advance moves the opacity fade forward by dt seconds.
func (t *Tooltip) Advance(dt float64) {
	if t.fade == nil {
		return
	}
	t.fade.Update(float32(dt))
	if t.fade.Done {
		t.fade = nil
	}
}

// Update re-projects the anchor marker through the active camera. No-op
// while hidden.
func (t *Tooltip) Update() {
	if !t.visible || t.anchor == nil {
		return
	}
	cam := t.host.ActiveCamera()
	rect := t.host.RenderSurfaceBounds()
	if cam == nil || rect.Empty() {
		t.onScreen = false
		return
	}

	world := t.host.MarkerWorldPosition(t.anchor)
	ndc, ok := ProjectToNDC(cam, world, rect.Aspect())
	if !ok {
		t.onScreen = false
		return
	}
	t.screen = NDCToScreen(ndc, rect)
	t.onScreen = true
}

// PanelRect returns the panel rectangle, horizontally centred on the
// anchor point and lifted above it.
func (t *Tooltip) PanelRect() Rect {
	st := t.cfg.Tooltip
	lines := 1 + len(t.content.Links)
	h := 2*st.Padding + st.LineHeight*float64(lines)
	return Rect{
		X:      t.screen.X - st.Width/2,
		Y:      t.screen.Y - h*st.LiftRatio,
		Width:  st.Width,
		Height: h,
	}
}

// CloseRect returns the close button's hit rectangle in the panel's
// top-right corner.
func (t *Tooltip) CloseRect() Rect {
	st := t.cfg.Tooltip
	p := t.PanelRect()
	size := st.LineHeight
	return Rect{X: p.X + p.Width - st.Padding - size, Y: p.Y + st.Padding, Width: size, Height: size}
}

// ProjectToNDC projects a world point through cam. Returns false when the
// point is behind the camera or outside the depth range.
func ProjectToNDC(cam Camera, world mgl64.Vec3, aspect float64) (mgl64.Vec3, bool) {
	return projectNDC(cam.ViewProjection(aspect), world)
}

func projectNDC(vp mgl64.Mat4, world mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := vp.Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if ndc[2] < -1 || ndc[2] > 1 {
		return ndc, false
	}
	return ndc, true
}

// NDCToScreen maps normalized device coordinates to client pixels within rect.
func NDCToScreen(ndc mgl64.Vec3, rect Rect) Vec2 {
	return Vec2{
		X: rect.X + (ndc[0]*0.5+0.5)*rect.Width,
		Y: rect.Y + (-ndc[1]*0.5+0.5)*rect.Height,
	}
}
