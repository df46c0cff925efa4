// Package ecs provides ECS adapters for pinview.
package ecs

import (
	"github.com/phanxgames/pinview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// HotspotEventType is the Donburi event type for pinview hotspot events.
// Subscribe to this in your ECS systems to receive hover, lock, mesh hover
// and clear notifications.
var HotspotEventType = events.NewEventType[pinview.HotspotEvent]()

// MarkerState mirrors a marker's interaction state on a Donburi entity.
type MarkerState struct {
	ID      pinview.MarkerID
	Label   string
	Hovered bool
	Locked  bool
}

// MarkerComponent is the component type holding MarkerState.
var MarkerComponent = donburi.NewComponentType[MarkerState]()

type donburiStore struct {
	world    donburi.World
	entities map[pinview.MarkerID]donburi.Entity
}

// NewDonburiStore creates an EventSink backed by a Donburi world. Events are
// published to HotspotEventType and can be consumed with events.Subscribe
// and ProcessEvents. Markers that take part in an event get an entity
// carrying MarkerComponent, kept in step with hover and lock transitions;
// EventRemove deletes a marker's entity and EventClear removes them all.
func NewDonburiStore(world donburi.World) pinview.EventSink {
	return &donburiStore{world: world, entities: make(map[pinview.MarkerID]donburi.Entity)}
}

func (s *donburiStore) EmitEvent(event pinview.HotspotEvent) {
	s.mirror(event)
	HotspotEventType.Publish(s.world, event)
}

func (s *donburiStore) mirror(event pinview.HotspotEvent) {
	switch event.Type {
	case pinview.EventClear:
		for id, e := range s.entities {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, id)
		}
		return
	case pinview.EventRemove:
		if e, ok := s.entities[event.MarkerID]; ok {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, event.MarkerID)
		}
		return
	case pinview.EventMeshEnter, pinview.EventMeshLeave:
		return
	}
	if event.Marker == nil {
		return
	}

	st := s.state(event.MarkerID, event.Label)
	switch event.Type {
	case pinview.EventHoverEnter:
		st.Hovered = true
	case pinview.EventHoverLeave:
		st.Hovered = false
	case pinview.EventLock:
		st.Hovered = false
		st.Locked = true
	case pinview.EventUnlock:
		st.Locked = false
	}
}

// state returns the MarkerState for id, creating its entity on first use.
func (s *donburiStore) state(id pinview.MarkerID, label string) *MarkerState {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		e = s.world.Create(MarkerComponent)
		s.entities[id] = e
		MarkerComponent.SetValue(s.world.Entry(e), MarkerState{ID: id, Label: label})
	}
	return MarkerComponent.Get(s.world.Entry(e))
}
