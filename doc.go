// Package pinview is the hotspot core of a 3D model viewer for [Ebitengine].
//
// Pinview places clickable markers on a model, picks them with rays cast from
// the pointer, animates their hover state and anchors a tooltip panel to the
// active marker as the camera moves.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop around the default [Scene]:
//
//	scene := pinview.NewScene(pinview.DefaultConfig())
//	scene.AddMesh(pinview.NewBoxMesh("crate", 1, 1, 1, pinview.ColorWhite))
//	scene.FrameModel()
//	scene.Viewer().AddHotspot(mgl64.Vec3{0, 0.5, 0}, pinview.MarkerOptions{Label: "Lid"})
//	pinview.Run(scene, pinview.RunConfig{
//		Title: "Viewer", Width: 960, Height: 640,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly, setting the viewport from Layout.
//
// # Sessions and hosts
//
// A [Viewer] is one hotspot session: a [Registry] of markers, a [Picker], an
// [Animator] running the Idle/Hovering/Locked state machine and a [Tooltip].
// It talks to its surroundings only through the [SceneHost] interface, so a
// renderer other than [Scene] can drive it by implementing that interface
// and forwarding pointer events to [Viewer.OnPointerMove] and
// [Viewer.OnPointerDown].
//
// Every session owns its state; several viewers can run side by side.
//
// # Events
//
// Hover, lock, mesh hover, removal and clear transitions are delivered to handlers
// registered with [Viewer.On] and to an optional [EventSink]. The
// pinview/ecs module provides a [Donburi] sink.
//
// # Configuration
//
// [DefaultConfig] returns the stock tuning. [ParseConfig] reads YAML on top
// of the defaults and [Viewer.SetConfig] applies a validated [ConfigPatch] to
// a live session.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package pinview
