package pinview

import "github.com/go-gl/mathgl/mgl64"

// Pivot is the model's rotation pivot. Meshes and marker proxies hang under
// it, so its transform carries them along without markers ever changing
// their local positions.
type Pivot struct {
	// Position is the world-space translation.
	Position mgl64.Vec3
	// Rotation holds Euler angles in radians, applied Z, then X, then Y.
	Rotation mgl64.Vec3
	// Scale is a uniform scale factor.
	Scale float64
	// AutoRotate spins the pivot around Y, in radians per second.
	AutoRotate float64

	matrix  mgl64.Mat4
	inverse mgl64.Mat4
	dirty   bool
	version uint64 // bumped each time matrix is recomputed
}

// NewPivot returns an identity pivot.
func NewPivot() *Pivot {
	return &Pivot{Scale: 1, dirty: true}
}

// SetPosition sets the translation and marks the pivot dirty.
func (p *Pivot) SetPosition(v mgl64.Vec3) {
	p.Position = v
	p.dirty = true
}

// SetRotation sets the Euler rotation and marks the pivot dirty.
func (p *Pivot) SetRotation(v mgl64.Vec3) {
	p.Rotation = v
	p.dirty = true
}

// SetScale sets the uniform scale and marks the pivot dirty.
func (p *Pivot) SetScale(s float64) {
	p.Scale = s
	p.dirty = true
}

// MarkDirty forces recomputation on the next Matrix call. Useful after
// bulk-setting fields directly.
func (p *Pivot) MarkDirty() {
	p.dirty = true
}

// update applies auto-rotation. Called from Scene.Update().
func (p *Pivot) update(dt float64) {
	if p.AutoRotate != 0 {
		p.Rotation[1] += p.AutoRotate * dt
		p.dirty = true
	}
}

// Matrix returns the model matrix:
//
//	Translate(Position) * RotY * RotX * RotZ * Scale
func (p *Pivot) Matrix() mgl64.Mat4 {
	if !p.dirty {
		return p.matrix
	}
	p.dirty = false
	p.matrix = mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).
		Mul4(mgl64.HomogRotate3DY(p.Rotation[1])).
		Mul4(mgl64.HomogRotate3DX(p.Rotation[0])).
		Mul4(mgl64.HomogRotate3DZ(p.Rotation[2])).
		Mul4(mgl64.Scale3D(p.Scale, p.Scale, p.Scale))
	p.inverse = p.matrix.Inv()
	p.version++
	return p.matrix
}

// Version returns a counter that changes whenever the matrix changes.
func (p *Pivot) Version() uint64 {
	p.Matrix()
	return p.version
}

// LocalToWorld converts a pivot-local point to world space.
func (p *Pivot) LocalToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(v, p.Matrix())
}

// WorldToLocal converts a world-space point to pivot-local space.
func (p *Pivot) WorldToLocal(v mgl64.Vec3) mgl64.Vec3 {
	p.Matrix()
	return mgl64.TransformCoordinate(v, p.inverse)
}
