package pinview

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	defaultDragDeadZone = 4.0   // pixels
	defaultOrbitSpeed   = 0.008 // radians per pixel
	wheelZoomStep       = 0.9
)

// --- Per-pointer state ---

type pointerState struct {
	seen     bool
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hit      *Marker // marker locked by the current press, if any
	dragging bool
	button   MouseButton // button captured at press time
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts
// orbiting the camera.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// SetOrbitSpeed sets the camera rotation per dragged pixel, in radians.
func (s *Scene) SetOrbitSpeed(radiansPerPixel float64) {
	s.orbitSpeed = radiansPerPixel
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Scene.Update() to handle pointer input.
// Injected events take precedence over the real mouse for their frame.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	s.processMousePointer(readModifiers())
}

// processMousePointer handles the mouse and wheel.
func (s *Scene) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		s.camera.Zoom(math.Pow(wheelZoomStep, wy))
	}

	s.processPointer(PointerEvent{
		ClientX:   float64(mx),
		ClientY:   float64(my),
		Button:    button,
		Modifiers: mods,
	}, pressed)
}

// processPointer runs the pointer state machine. Hover picking runs on
// movement while no drag is in progress; a press locks the marker under the
// pointer; a press on empty space that moves past the dead zone orbits the
// camera.
func (s *Scene) processPointer(ev PointerEvent, pressed bool) {
	ps := &s.pointer
	x, y, button := ev.ClientX, ev.ClientY, ev.Button
	moved := !ps.seen || x != ps.lastX || y != ps.lastY
	ps.seen = true

	if pressed && !ps.down {
		// Just pressed: capture button for the duration of this interaction.
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		ps.hit = nil
		if button == MouseButtonLeft {
			ps.hit = s.viewer.OnPointerDown(ev, s.OnMarkerClick)
		}
		return
	}

	if !pressed && ps.down {
		ps.down = false
		ps.dragging = false
		ps.hit = nil
		ps.lastX, ps.lastY = x, y
		s.viewer.OnPointerMove(ev)
		return
	}

	if pressed && ps.down {
		if moved && ps.hit == nil {
			if !ps.dragging {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
				}
			}
			if ps.dragging {
				s.camera.Rotate(-(x-ps.lastX)*s.orbitSpeed, (y-ps.lastY)*s.orbitSpeed)
			}
		}
		ps.lastX, ps.lastY = x, y
		return
	}

	// Hover move.
	if moved {
		s.viewer.OnPointerMove(ev)
		ps.lastX, ps.lastY = x, y
	}
}
