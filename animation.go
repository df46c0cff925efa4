package pinview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors and call Update(dt) each frame. The group
// writes values straight into the target fields and runs onUpdate after
// every step.
//
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	tweens   [4]*gween.Tween
	count    int
	fields   [4]*float64
	onUpdate func()
	Done     bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g == nil || g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.onUpdate != nil {
		g.onUpdate()
	}
}

// add appends one field animation to the group.
func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenValue creates a TweenGroup that animates a single field to the
// target value over duration seconds. A zero duration completes on the
// first Update.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(field, to, duration, fn)
	return g
}

// TweenOrbit creates a TweenGroup that animates the camera's goal yaw,
// pitch and distance.
func TweenOrbit(cam *OrbitCamera, yaw, pitch, distance float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{onUpdate: cam.MarkDirty}
	g.add(&cam.Yaw, yaw, duration, fn)
	g.add(&cam.Pitch, pitch, duration, fn)
	g.add(&cam.Distance, distance, duration, fn)
	return g
}
