package pinview

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// WithAlpha returns c with A multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for screen positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in screen pixels. The coordinate system
// has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Aspect returns Width/Height, or 1 for an empty rectangle.
func (r Rect) Aspect() float64 {
	if r.Empty() {
		return 1
	}
	return r.Width / r.Height
}

// isFiniteVec reports whether every component of v is finite.
func isFiniteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// EventType identifies a kind of hotspot event.
type EventType uint8

const (
	EventHoverEnter EventType = iota // pointer moved onto a marker
	EventHoverLeave                  // pointer left the hovered marker
	EventLock                        // a marker's tooltip was pinned open
	EventUnlock                      // the pinned tooltip was released
	EventMeshEnter                   // pointer moved onto a model mesh
	EventMeshLeave                   // pointer left the hovered model mesh
	EventClear                       // all markers were removed
	EventRemove                      // a single marker was removed

	eventTypeCount = EventRemove + 1
)

// String returns the lowercase name of the event type.
func (e EventType) String() string {
	switch e {
	case EventHoverEnter:
		return "hover-enter"
	case EventHoverLeave:
		return "hover-leave"
	case EventLock:
		return "lock"
	case EventUnlock:
		return "unlock"
	case EventMeshEnter:
		return "mesh-enter"
	case EventMeshLeave:
		return "mesh-leave"
	case EventClear:
		return "clear"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// PointerEvent is a pointer sample in client (window) pixel coordinates.
type PointerEvent struct {
	ClientX, ClientY float64
	Button           MouseButton
	Modifiers        KeyModifiers
}
