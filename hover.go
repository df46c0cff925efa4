package pinview

import "math"

// HoverState is the interaction state of a viewer session.
type HoverState uint8

const (
	HoverIdle     HoverState = iota // nothing hovered, nothing locked
	HoverHovering                   // pointer over a marker, no lock
	HoverLocked                     // a marker's tooltip is pinned open
)

// String returns the lowercase name of the state.
func (s HoverState) String() string {
	switch s {
	case HoverIdle:
		return "idle"
	case HoverHovering:
		return "hovering"
	case HoverLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// overlay is the part of the tooltip the animator drives.
type overlay interface {
	Show(m *Marker)
	Hide()
	Lock(m *Marker)
	Unlock()
}

// Animator tracks hover and lock transitions and eases every marker's scale
// and opacity toward its target once per frame. It is the only writer of
// Marker.currentScale and Marker.targetScale after creation.
type Animator struct {
	registry *Registry
	cfg      *Config
	overlay  overlay
	notify   func(EventType, *Marker)

	state  HoverState
	active *Marker
}

func newAnimator(registry *Registry, cfg *Config, ov overlay) *Animator {
	return &Animator{registry: registry, cfg: cfg, overlay: ov}
}

// State returns the current state and the hovered or locked marker.
func (a *Animator) State() (HoverState, *Marker) {
	return a.state, a.active
}

// retarget sets m's target scale and opacity for the active or idle look.
func (a *Animator) retarget(m *Marker, active bool) {
	if active {
		m.targetScale = m.baseScale * a.cfg.HoverScaleMultiplier
		m.targetOpacity = a.cfg.HoverOpacity
		return
	}
	m.targetScale = m.baseScale
	m.targetOpacity = a.cfg.MarkerOpacity
}

func (a *Animator) emit(e EventType, m *Marker) {
	if a.notify != nil {
		a.notify(e, m)
	}
}

// Hover feeds the latest marker pick result (nil for none). Transitions fire
// their side effects once; repeating the same result is a no-op. While
// locked, marker picks are ignored.
func (a *Animator) Hover(m *Marker) {
	switch a.state {
	case HoverLocked:
		return
	case HoverIdle:
		if m == nil {
			return
		}
		a.state = HoverHovering
		a.active = m
		a.retarget(m, true)
		a.emit(EventHoverEnter, m)
		a.overlay.Show(m)
	case HoverHovering:
		if m == a.active {
			return
		}
		prev := a.active
		a.retarget(prev, false)
		a.emit(EventHoverLeave, prev)
		if m != nil {
			a.active = m
			a.retarget(m, true)
			a.emit(EventHoverEnter, m)
			a.overlay.Show(m)
			return
		}
		a.state = HoverIdle
		a.active = nil
		a.overlay.Hide()
	}
}

// Lock pins m: its tooltip stays open and its scale stays raised until
// Unlock. Locking overrides any previous lock.
func (a *Animator) Lock(m *Marker) {
	if m == nil {
		return
	}
	if a.active != nil && a.active != m {
		a.retarget(a.active, false)
		if a.state == HoverHovering {
			a.emit(EventHoverLeave, a.active)
		}
	}
	a.state = HoverLocked
	a.active = m
	a.retarget(m, true)
	a.overlay.Lock(m)
	a.emit(EventLock, m)
}

// Unlock releases a lock and returns to idle. No-op unless locked.
func (a *Animator) Unlock() {
	if a.state != HoverLocked {
		return
	}
	m := a.active
	a.retarget(m, false)
	a.state = HoverIdle
	a.active = nil
	a.overlay.Unlock()
	a.emit(EventUnlock, m)
}

// Drop returns to idle when m is the active marker, emitting
// EventHoverLeave or EventUnlock to match the state it leaves. The overlay
// is left to the caller. Used when m leaves the registry.
func (a *Animator) Drop(m *Marker) {
	if m == nil || a.active != m {
		return
	}
	leave := EventHoverLeave
	if a.state == HoverLocked {
		leave = EventUnlock
	}
	a.retarget(m, false)
	a.state = HoverIdle
	a.active = nil
	a.emit(leave, m)
}

// Reset returns to idle without touching the overlay or emitting events.
// Used when the registry is cleared.
func (a *Animator) Reset() {
	if a.active != nil {
		a.retarget(a.active, false)
	}
	a.state = HoverIdle
	a.active = nil
}

// retargetAll recomputes every marker's targets, e.g. after a config change.
func (a *Animator) retargetAll() {
	for _, m := range a.registry.Markers() {
		a.retarget(m, m == a.active)
	}
}

// Tick advances every marker one frame toward its targets using a damped
// approach: current += (target - current) * HoverLerpFactor. Values within
// SnapEpsilon of the target snap to it.
func (a *Animator) Tick() {
	f := a.cfg.HoverLerpFactor
	eps := a.cfg.SnapEpsilon
	for _, m := range a.registry.Markers() {
		m.currentScale = approach(m.currentScale, m.targetScale, f, eps)
		m.opacity = approach(m.opacity, m.targetOpacity, f, eps)
	}
}

// approach moves cur a fraction f of the way to target, snapping when the
// remaining distance is below eps.
func approach(cur, target, f, eps float64) float64 {
	if cur == target {
		return cur
	}
	next := cur + (target-cur)*f
	if math.Abs(target-next) < eps {
		return target
	}
	return next
}
