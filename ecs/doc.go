// Package ecs provides ECS adapters for pinview's hotspot event stream.
//
// The primary adapter is [NewDonburiStore], which bridges hotspot events
// (hover enter/leave, lock, unlock, mesh hover, clear) into a [Donburi]
// world as typed events and mirrors each marker's hover and lock state on an
// entity carrying [MarkerComponent].
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.Viewer().SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
