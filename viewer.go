package pinview

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// HotspotEvent carries one hover, lock, mesh or clear notification.
type HotspotEvent struct {
	Type     EventType
	Marker   *Marker // nil for mesh and clear events
	MarkerID MarkerID
	Label    string
	Mesh     *Mesh // set for mesh events
}

// EventSink receives every HotspotEvent, e.g. an ECS bridge.
type EventSink interface {
	EmitEvent(event HotspotEvent)
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(HotspotEvent)
}

type handlerRegistry struct {
	byType [eventTypeCount][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. It is safe to
// call from inside the callback itself.
func (h CallbackHandle) Remove() {
	if h.reg == nil || int(h.event) >= len(h.reg.byType) {
		return
	}
	cur := h.reg.byType[h.event]
	for i := range cur {
		if cur[i].id != h.id {
			continue
		}
		// Build a new slice; fire may be ranging over the old one.
		next := make([]eventHandler, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		h.reg.byType[h.event] = next
		return
	}
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Viewer) { v.log = l }
}

// WithEventSink forwards every event to sink.
func WithEventSink(sink EventSink) Option {
	return func(v *Viewer) { v.sink = sink }
}

// Viewer is one hotspot session: a marker registry, picker, hover animator
// and tooltip bound to a SceneHost. Sessions share no state.
type Viewer struct {
	host     SceneHost
	cfg      Config
	registry *Registry
	picker   *Picker
	animator *Animator
	tooltip  *Tooltip

	handlers    handlerRegistry
	sink        EventSink
	hoveredMesh *Mesh
	log         zerolog.Logger
}

// NewViewer creates a session bound to host. cfg must be valid; use
// DefaultConfig as a starting point. It panics on an invalid config.
func NewViewer(host SceneHost, cfg Config, opts ...Option) *Viewer {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	v := &Viewer{host: host, cfg: cfg, log: zerolog.Nop()}
	v.registry = newRegistry(host, &v.cfg)
	v.picker = newPicker(host, v.registry)
	v.tooltip = newTooltip(host, &v.cfg)
	v.animator = newAnimator(v.registry, &v.cfg, v.tooltip)
	v.animator.notify = v.markerEvent
	v.registry.onRemove = v.beforeRemove
	for _, o := range opts {
		o(v)
	}
	return v
}

// Registry returns the session's marker registry.
func (v *Viewer) Registry() *Registry { return v.registry }

// Picker returns the session's picking engine.
func (v *Viewer) Picker() *Picker { return v.picker }

// Animator returns the session's hover animator.
func (v *Viewer) Animator() *Animator { return v.animator }

// Tooltip returns the session's tooltip overlay.
func (v *Viewer) Tooltip() *Tooltip { return v.tooltip }

// Config returns a copy of the active configuration.
func (v *Viewer) Config() Config { return v.cfg }

// HoverState returns the current hover state and active marker.
func (v *Viewer) HoverState() (HoverState, *Marker) { return v.animator.State() }

// HoveredMesh returns the model mesh under the pointer, or nil.
func (v *Viewer) HoveredMesh() *Mesh { return v.hoveredMesh }

// Markers returns the markers in insertion order. Must not be mutated.
func (v *Viewer) Markers() []*Marker { return v.registry.Markers() }

// AddHotspot adds a marker at a model-local position.
func (v *Viewer) AddHotspot(local mgl64.Vec3, opts MarkerOptions) *Marker {
	m := v.registry.Add(local, opts)
	v.log.Debug().Uint32("marker", uint32(m.ID)).Str("label", m.Label).
		Float64("scale", m.baseScale).Msg("hotspot added")
	return m
}

// AddHotspots adds every definition in order and returns the new markers.
func (v *Viewer) AddHotspots(defs []HotspotDef) []*Marker {
	out := make([]*Marker, 0, len(defs))
	for _, d := range defs {
		out = append(out, v.AddHotspot(d.Position.Vec3(), d.options()))
	}
	return out
}

// RemoveHotspot removes a single marker. Returns false if it is unknown.
func (v *Viewer) RemoveHotspot(m *Marker) bool {
	return v.registry.Remove(m)
}

// ClearHotspots removes every marker and returns hover and tooltip state to
// idle.
func (v *Viewer) ClearHotspots() {
	v.registry.Clear()
}

// beforeRemove drops references into the registry before markers go away.
// A single removal of the active marker reports the hover leave or unlock
// it implies, then EventRemove.
func (v *Viewer) beforeRemove(m *Marker, all bool) {
	if all {
		v.animator.Reset()
		v.tooltip.reset()
		v.log.Debug().Int("count", v.registry.Len()).Msg("hotspots cleared")
		v.fire(HotspotEvent{Type: EventClear})
		return
	}
	if _, active := v.animator.State(); active == m {
		v.animator.Drop(m)
		v.tooltip.reset()
	} else if v.tooltip.Anchor() == m {
		v.tooltip.reset()
	}
	v.log.Debug().Uint32("marker", uint32(m.ID)).Str("label", m.Label).Msg("hotspot removed")
	v.fire(HotspotEvent{Type: EventRemove, Marker: m, MarkerID: m.ID, Label: m.Label})
}

// OnPointerMove picks the marker under the pointer and drives hover
// transitions. The mesh hover stream runs independently, including while a
// marker is locked. Returns the marker hit, or nil.
func (v *Viewer) OnPointerMove(ev PointerEvent) *Marker {
	hit := v.picker.Pick(ev)
	v.animator.Hover(hit)
	v.updateMeshHover(ev)
	return hit
}

// OnPointerDown locks the marker under the pointer and passes it to cb.
// A press on the close button of a locked tooltip unlocks it instead.
func (v *Viewer) OnPointerDown(ev PointerEvent, cb func(*Marker)) *Marker {
	if v.tooltip.IsLocked() && v.tooltip.OnScreen() &&
		v.tooltip.CloseRect().Contains(ev.ClientX, ev.ClientY) {
		v.Unlock()
		return nil
	}
	hit := v.picker.Pick(ev)
	if hit == nil {
		return nil
	}
	v.animator.Lock(hit)
	if cb != nil {
		cb(hit)
	}
	return hit
}

// Unlock releases a pinned tooltip.
func (v *Viewer) Unlock() {
	v.animator.Unlock()
}

// Tick advances one rendered frame of 1/FrameRate seconds: marker easing,
// tooltip fade and tooltip re-projection.
func (v *Viewer) Tick() {
	v.TickDelta(1 / v.cfg.FrameRate)
}

// TickDelta is Tick for a host that measures its own frame time. Marker
// easing still steps once per call; the tooltip fade advances by dt
// seconds.
func (v *Viewer) TickDelta(dt float64) {
	v.animator.Tick()
	v.tooltip.Advance(dt)
	v.tooltip.Update()
}

// SetConfig applies a partial configuration. Invalid patches are rejected
// as a whole and leave the configuration unchanged.
func (v *Viewer) SetConfig(p ConfigPatch) error {
	next, err := p.Apply(v.cfg)
	if err != nil {
		v.log.Warn().Err(err).Msg("config rejected")
		return err
	}
	v.cfg = next
	v.animator.retargetAll()
	for _, m := range v.registry.Markers() {
		m.proxyRadius = v.cfg.ProxyRadius
	}
	v.log.Debug().Float64("hoverScaleMultiplier", next.HoverScaleMultiplier).
		Float64("hoverLerpFactor", next.HoverLerpFactor).Msg("config applied")
	return nil
}

func (v *Viewer) updateMeshHover(ev PointerEvent) {
	var mesh *Mesh
	if hit, ok := v.picker.PickMesh(ev); ok {
		mesh = hit.Mesh
	}
	if mesh == v.hoveredMesh {
		return
	}
	if v.hoveredMesh != nil {
		v.fire(HotspotEvent{Type: EventMeshLeave, Mesh: v.hoveredMesh})
	}
	v.hoveredMesh = mesh
	if mesh != nil {
		v.fire(HotspotEvent{Type: EventMeshEnter, Mesh: mesh})
	}
}

// markerEvent is the animator's notification hook.
func (v *Viewer) markerEvent(e EventType, m *Marker) {
	ev := HotspotEvent{Type: e, Marker: m}
	if m != nil {
		ev.MarkerID = m.ID
		ev.Label = m.Label
	}
	v.log.Debug().Str("event", e.String()).Uint32("marker", uint32(ev.MarkerID)).
		Str("state", v.animator.state.String()).Msg("hover transition")
	v.fire(ev)
}

func (v *Viewer) fire(ev HotspotEvent) {
	for _, h := range v.handlers.byType[ev.Type] {
		if h.fn != nil {
			h.fn(ev)
		}
	}
	if v.sink != nil {
		v.sink.EmitEvent(ev)
	}
}

// On registers a callback for one event type.
func (v *Viewer) On(event EventType, fn func(HotspotEvent)) CallbackHandle {
	if event >= eventTypeCount || fn == nil {
		return CallbackHandle{}
	}
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.byType[event] = append(v.handlers.byType[event], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: event}
}

// SetEventSink sets the optional event bridge.
func (v *Viewer) SetEventSink(sink EventSink) {
	v.sink = sink
}
