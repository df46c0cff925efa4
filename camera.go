package pinview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

const (
	defaultFovY    = 45.0 // degrees
	defaultDamping = 0.08
	maxPitch       = math.Pi/2 - 0.01
	framingPadding = 1.6
)

// OrbitCamera is a perspective camera orbiting a target point. Yaw, Pitch
// and Distance are goal values; the rendered pose eases toward them by
// Damping each update, like orbit controls with damping enabled.
type OrbitCamera struct {
	// Target is the world-space point the camera looks at.
	Target mgl64.Vec3
	// Yaw is the rotation around the world Y axis in radians. Zero looks
	// down -Z from the +Z side.
	Yaw float64
	// Pitch is the elevation in radians, clamped to just under ±π/2.
	Pitch float64
	// Distance from Target, clamped to [MinDistance, MaxDistance].
	Distance float64
	// FovY is the vertical field of view in degrees.
	FovY      float64
	Near, Far float64
	// Damping is the per-update approach fraction; 1 snaps immediately.
	Damping float64

	MinDistance, MaxDistance float64

	yaw, pitch, distance float64
	view                 mgl64.Mat4
	dirty                bool

	orbit *TweenGroup
}

// NewOrbitCamera creates a camera 3 units in front of the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:    3,
		FovY:        defaultFovY,
		Near:        0.01,
		Far:         1000,
		Damping:     defaultDamping,
		MinDistance: 1e-3,
		MaxDistance: 1e6,
	}
	c.Snap()
	return c
}

// Position returns the current (damped) eye position.
func (c *OrbitCamera) Position() mgl64.Vec3 {
	sy, cy := math.Sincos(c.yaw)
	sp, cp := math.Sincos(c.pitch)
	return c.Target.Add(mgl64.Vec3{
		c.distance * cp * sy,
		c.distance * sp,
		c.distance * cp * cy,
	})
}

// Snap jumps the rendered pose to the goal values.
func (c *OrbitCamera) Snap() {
	c.clampGoals()
	c.yaw, c.pitch, c.distance = c.Yaw, c.Pitch, c.Distance
	c.dirty = true
}

// MarkDirty forces a recomputation of the view matrix.
func (c *OrbitCamera) MarkDirty() {
	c.dirty = true
}

// Rotate adds to the goal yaw and pitch.
func (c *OrbitCamera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	c.clampGoals()
}

// Zoom multiplies the goal distance by factor.
func (c *OrbitCamera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance *= factor
	c.clampGoals()
}

// OrbitTo animates the goal pose over duration seconds.
func (c *OrbitCamera) OrbitTo(yaw, pitch, distance float64, duration float32, easeFn ease.TweenFunc) {
	c.orbit = TweenOrbit(c, yaw, pitch, distance, duration, easeFn)
}

// Frame places the camera so an object of the given largest dimension,
// centred on Target, fills the view with some padding, and adjusts the
// clip planes to its scale.
func (c *OrbitCamera) Frame(maxDim float64) {
	if !(maxDim > 0) || math.IsInf(maxDim, 0) {
		return
	}
	fov := mgl64.DegToRad(c.FovY)
	c.Distance = (maxDim / 2) / math.Tan(fov/2) * framingPadding
	c.Near = math.Max(maxDim/1000, 0.001)
	c.Far = math.Max(maxDim*2000, 10)
	c.clampGoals()
	c.dirty = true
}

func (c *OrbitCamera) clampGoals() {
	c.Pitch = mgl64.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.Distance = mgl64.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// update advances the orbit tween and damping. Called from Scene.Update().
func (c *OrbitCamera) update(dt float32) {
	if c.orbit != nil {
		c.orbit.Update(dt)
		if c.orbit.Done {
			c.orbit = nil
		}
		c.clampGoals()
	}

	prevYaw, prevPitch, prevDist := c.yaw, c.pitch, c.distance
	c.yaw += (c.Yaw - c.yaw) * c.Damping
	c.pitch += (c.Pitch - c.pitch) * c.Damping
	c.distance += (c.Distance - c.distance) * c.Damping

	if c.yaw != prevYaw || c.pitch != prevPitch || c.distance != prevDist {
		c.dirty = true
	}
}

// View returns the view matrix, recomputing it if dirty.
func (c *OrbitCamera) View() mgl64.Mat4 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false
	c.view = mgl64.LookAtV(c.Position(), c.Target, mgl64.Vec3{0, 1, 0})
	return c.view
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// ViewProjection implements Camera.
func (c *OrbitCamera) ViewProjection(aspect float64) mgl64.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// PixelsPerUnit returns how many screen pixels one world unit spans at
// the given distance from the eye, for a viewport of the given height.
func (c *OrbitCamera) PixelsPerUnit(dist, viewportHeight float64) float64 {
	if dist <= 0 {
		return 0
	}
	return viewportHeight / 2 / (dist * math.Tan(mgl64.DegToRad(c.FovY)/2))
}
