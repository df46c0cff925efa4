package pinview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// eventLog records every event a viewer fires.
type eventLog struct {
	events []HotspotEvent
}

func (l *eventLog) EmitEvent(ev HotspotEvent) { l.events = append(l.events, ev) }

func (l *eventLog) count(e EventType) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == e {
			n++
		}
	}
	return n
}

// newTestViewer lays out three markers 0.5 apart on the X axis.
func newTestViewer(t *testing.T) (*Viewer, *testHost, *eventLog, []*Marker) {
	t.Helper()
	h := newTestHost()
	log := &eventLog{}
	v := NewViewer(h, DefaultConfig(), WithEventSink(log))
	markers := []*Marker{
		v.AddHotspot(mgl64.Vec3{-0.5, 0, 0}, MarkerOptions{Label: "one"}),
		v.AddHotspot(mgl64.Vec3{0, 0, 0}, MarkerOptions{Label: "two"}),
		v.AddHotspot(mgl64.Vec3{0.5, 0, 0}, MarkerOptions{Label: "three"}),
	}
	return v, h, log, markers
}

func (h *testHost) pointerOver(t *testing.T, m *Marker) PointerEvent {
	t.Helper()
	return pointerAt(h.screenOf(t, h.MarkerWorldPosition(m)))
}

var emptySpace = PointerEvent{ClientX: 5, ClientY: 5}

func TestNewViewerInvalidConfigPanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HoverLerpFactor = 0
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("recovered %v, want ErrInvalidConfig", r)
		}
	}()
	NewViewer(newTestHost(), cfg)
}

func TestViewerHoverShowsOnce(t *testing.T) {
	v, h, log, m := newTestViewer(t)

	if got := v.OnPointerMove(h.pointerOver(t, m[1])); got != m[1] {
		t.Fatalf("OnPointerMove = %v, want marker two", got)
	}
	v.OnPointerMove(h.pointerOver(t, m[1]))

	if n := log.count(EventHoverEnter); n != 1 {
		t.Errorf("hover enter fired %d times, want 1", n)
	}
	if v.Tooltip().Anchor() != m[1] || !v.Tooltip().Visible() {
		t.Errorf("tooltip anchor = %v visible = %v", v.Tooltip().Anchor(), v.Tooltip().Visible())
	}
	if st, active := v.HoverState(); st != HoverHovering || active != m[1] {
		t.Errorf("state = %v/%v", st, active)
	}

	v.OnPointerMove(emptySpace)
	if v.Tooltip().Visible() || log.count(EventHoverLeave) != 1 {
		t.Errorf("leaving: visible=%v leaves=%d", v.Tooltip().Visible(), log.count(EventHoverLeave))
	}
}

func TestViewerTickDeltaDrivesFade(t *testing.T) {
	tests := []struct {
		name string
		tick func(v *Viewer)
		done bool
	}{
		{"one default frame", func(v *Viewer) { v.Tick() }, false},
		{"fade duration", func(v *Viewer) { v.TickDelta(v.Config().Tooltip.FadeSeconds) }, true},
		{"zero", func(v *Viewer) { v.TickDelta(0) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, h, _, m := newTestViewer(t)
			v.OnPointerMove(h.pointerOver(t, m[0]))
			tt.tick(v)
			if done := v.Tooltip().Opacity() == 1; done != tt.done {
				t.Errorf("opacity = %v, want faded in = %v", v.Tooltip().Opacity(), tt.done)
			}
		})
	}
}

func TestViewerHoverScaleConverges(t *testing.T) {
	h := newTestHost()
	v := NewViewer(h, DefaultConfig())
	m := v.AddHotspot(mgl64.Vec3{}, MarkerOptions{Scale: 1})

	v.OnPointerMove(PointerEvent{ClientX: 400, ClientY: 300})
	for i := 0; i < 20; i++ {
		v.Tick()
	}
	if !approxEqual(m.CurrentScale(), 1.25, 0.01) {
		t.Errorf("scale after 20 ticks = %v, want within 0.01 of 1.25", m.CurrentScale())
	}
	assertNear(t, "tooltip opacity", v.Tooltip().Opacity(), 1)
}

func TestViewerLockHoldsAgainstHover(t *testing.T) {
	v, h, log, m := newTestViewer(t)

	var clicked *Marker
	if got := v.OnPointerDown(h.pointerOver(t, m[0]), func(mk *Marker) { clicked = mk }); got != m[0] {
		t.Fatalf("OnPointerDown = %v, want marker one", got)
	}
	if clicked != m[0] {
		t.Errorf("callback got %v", clicked)
	}

	v.OnPointerMove(h.pointerOver(t, m[2]))
	v.OnPointerMove(emptySpace)
	if v.Tooltip().Anchor() != m[0] || v.Tooltip().Content().Title != "one" || !v.Tooltip().Visible() {
		t.Fatalf("tooltip moved off the locked marker: %v", v.Tooltip().Anchor())
	}
	if log.count(EventHoverEnter) != 0 {
		t.Errorf("hover events fired while locked")
	}

	v.Unlock()
	if v.Tooltip().Visible() || v.Tooltip().IsLocked() {
		t.Errorf("tooltip visible=%v locked=%v after Unlock", v.Tooltip().Visible(), v.Tooltip().IsLocked())
	}
	if st, _ := v.HoverState(); st != HoverIdle {
		t.Errorf("state = %v, want idle", st)
	}
	if log.count(EventLock) != 1 || log.count(EventUnlock) != 1 {
		t.Errorf("lock/unlock events = %d/%d", log.count(EventLock), log.count(EventUnlock))
	}
}

func TestViewerPointerDownMiss(t *testing.T) {
	v, _, log, _ := newTestViewer(t)
	called := false
	if got := v.OnPointerDown(emptySpace, func(*Marker) { called = true }); got != nil {
		t.Errorf("OnPointerDown = %v, want nil", got)
	}
	if called || log.count(EventLock) != 0 {
		t.Error("miss locked something")
	}
}

func TestViewerCloseButtonUnlocks(t *testing.T) {
	v, h, _, m := newTestViewer(t)
	v.OnPointerDown(h.pointerOver(t, m[1]), nil)

	c := v.Tooltip().CloseRect()
	ev := PointerEvent{ClientX: c.X + c.Width/2, ClientY: c.Y + c.Height/2}
	if got := v.OnPointerDown(ev, nil); got != nil {
		t.Errorf("close press returned %v", got)
	}
	if v.Tooltip().IsLocked() {
		t.Error("close press did not unlock")
	}
}

func TestViewerClearResetsDependents(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, v *Viewer, h *testHost, m []*Marker)
	}{
		{"hovering", func(t *testing.T, v *Viewer, h *testHost, m []*Marker) {
			v.OnPointerMove(h.pointerOver(t, m[0]))
		}},
		{"locked", func(t *testing.T, v *Viewer, h *testHost, m []*Marker) {
			v.OnPointerDown(h.pointerOver(t, m[2]), nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, h, log, m := newTestViewer(t)
			tt.setup(t, v, h, m)
			if st, _ := v.HoverState(); st == HoverIdle {
				t.Fatal("setup left the viewer idle")
			}

			v.ClearHotspots()
			if st, active := v.HoverState(); st != HoverIdle || active != nil {
				t.Errorf("state = %v/%v, want idle", st, active)
			}
			tip := v.Tooltip()
			if tip.Visible() || tip.IsLocked() || tip.Anchor() != nil || tip.Opacity() != 0 {
				t.Errorf("tooltip visible=%v locked=%v anchor=%v", tip.Visible(), tip.IsLocked(), tip.Anchor())
			}
			if len(h.proxies) != 0 || len(v.Markers()) != 0 {
				t.Errorf("proxies=%d markers=%d", len(h.proxies), len(v.Markers()))
			}
			if log.count(EventClear) != 1 {
				t.Errorf("clear events = %d", log.count(EventClear))
			}
			v.Tick()
		})
	}
}

func TestViewerClearEmpty(t *testing.T) {
	log := &eventLog{}
	v := NewViewer(newTestHost(), DefaultConfig(), WithEventSink(log))
	v.ClearHotspots()
	v.Tick()
	if len(log.events) != 0 {
		t.Errorf("events = %v, want none", log.events)
	}
	if st, _ := v.HoverState(); st != HoverIdle {
		t.Errorf("state = %v", st)
	}
}

func TestViewerRemoveActive(t *testing.T) {
	v, h, log, m := newTestViewer(t)
	v.OnPointerDown(h.pointerOver(t, m[1]), nil)
	log.events = nil

	if !v.RemoveHotspot(m[1]) {
		t.Fatal("RemoveHotspot = false")
	}
	if st, _ := v.HoverState(); st != HoverIdle {
		t.Errorf("state = %v, want idle", st)
	}
	if v.Tooltip().IsLocked() || v.Tooltip().Anchor() != nil {
		t.Error("tooltip still bound to removed marker")
	}
	if len(log.events) != 2 ||
		log.events[0].Type != EventUnlock || log.events[0].MarkerID != m[1].ID ||
		log.events[1].Type != EventRemove || log.events[1].MarkerID != m[1].ID {
		t.Errorf("events = %+v, want unlock then remove", log.events)
	}
	if got := v.OnPointerMove(h.pointerOver(t, m[1])); got != nil {
		t.Errorf("removed marker still pickable: %v", got)
	}
}

func TestViewerRemoveHovered(t *testing.T) {
	v, h, log, m := newTestViewer(t)
	v.OnPointerMove(h.pointerOver(t, m[0]))
	log.events = nil

	v.RemoveHotspot(m[0])
	if st, _ := v.HoverState(); st != HoverIdle {
		t.Errorf("state = %v, want idle", st)
	}
	if v.Tooltip().Visible() {
		t.Error("tooltip still visible for removed marker")
	}
	want := []EventType{EventHoverLeave, EventRemove}
	if len(log.events) != len(want) {
		t.Fatalf("events = %+v, want %v", log.events, want)
	}
	for i, e := range want {
		if log.events[i].Type != e || log.events[i].Marker != m[0] {
			t.Errorf("event %d = %+v, want %v for marker one", i, log.events[i], e)
		}
	}
}

func TestViewerRemoveInactive(t *testing.T) {
	v, h, log, m := newTestViewer(t)
	v.OnPointerMove(h.pointerOver(t, m[0]))
	log.events = nil

	v.RemoveHotspot(m[2])
	if st, active := v.HoverState(); st != HoverHovering || active != m[0] {
		t.Errorf("state = %v/%v, want hovering one", st, active)
	}
	if len(log.events) != 1 || log.events[0].Type != EventRemove || log.events[0].Label != "three" {
		t.Errorf("events = %+v, want a single remove", log.events)
	}
	if v.RemoveHotspot(m[2]) {
		t.Error("second RemoveHotspot = true")
	}
	if log.count(EventRemove) != 1 {
		t.Error("unknown marker removal fired an event")
	}
}

func TestViewerMeshHoverIndependentOfLock(t *testing.T) {
	h := newTestHost()
	box := NewBoxMesh("box", 1, 1, 1, ColorWhite)
	h.addMesh(box)
	log := &eventLog{}
	v := NewViewer(h, DefaultConfig(), WithEventSink(log))
	m := v.AddHotspot(mgl64.Vec3{0, 0, 0.5}, MarkerOptions{})

	v.OnPointerDown(h.pointerOver(t, m), nil)
	v.OnPointerMove(h.pointerOver(t, m))
	if v.HoveredMesh() != box || log.count(EventMeshEnter) != 1 {
		t.Fatalf("mesh hover = %v enters = %d", v.HoveredMesh(), log.count(EventMeshEnter))
	}
	v.OnPointerMove(emptySpace)
	if v.HoveredMesh() != nil || log.count(EventMeshLeave) != 1 {
		t.Errorf("mesh hover = %v leaves = %d", v.HoveredMesh(), log.count(EventMeshLeave))
	}
	if st, _ := v.HoverState(); st != HoverLocked {
		t.Errorf("mesh hover changed marker state to %v", st)
	}
}

func TestViewerSetConfig(t *testing.T) {
	v, h, _, m := newTestViewer(t)
	v.OnPointerMove(h.pointerOver(t, m[0]))

	if err := v.SetConfig(ConfigPatch{HoverScaleMultiplier: ptr(2.0), ProxyRadius: ptr(3.0)}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	assertNear(t, "active target", m[0].TargetScale(), m[0].BaseScale()*2)
	assertNear(t, "idle target", m[1].TargetScale(), m[1].BaseScale())
	assertNear(t, "proxy", m[1].ProxyRadius(), 3*m[1].CurrentScale())

	before := v.Config()
	if err := v.SetConfig(ConfigPatch{HoverLerpFactor: ptr(-1.0)}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("SetConfig = %v, want ErrInvalidConfig", err)
	}
	if v.Config() != before {
		t.Error("rejected patch changed the config")
	}
}

func TestViewerHandlers(t *testing.T) {
	v, h, _, m := newTestViewer(t)
	var labels []string
	handle := v.On(EventHoverEnter, func(ev HotspotEvent) {
		labels = append(labels, ev.Label)
		if ev.Marker == nil || ev.MarkerID != ev.Marker.ID {
			t.Errorf("event marker fields inconsistent: %+v", ev)
		}
	})

	v.OnPointerMove(h.pointerOver(t, m[0]))
	v.OnPointerMove(h.pointerOver(t, m[2]))
	handle.Remove()
	v.OnPointerMove(h.pointerOver(t, m[1]))

	if strings.Join(labels, ",") != "one,three" {
		t.Errorf("labels = %v, want one,three", labels)
	}
	handle.Remove()
	CallbackHandle{}.Remove()
}

func TestViewerHandlerRemovesItself(t *testing.T) {
	v, h, _, m := newTestViewer(t)

	var once, after int
	var handle CallbackHandle
	handle = v.On(EventHoverEnter, func(HotspotEvent) {
		once++
		handle.Remove()
	})
	v.On(EventHoverEnter, func(HotspotEvent) { after++ })

	v.OnPointerMove(h.pointerOver(t, m[0]))
	v.OnPointerMove(h.pointerOver(t, m[1]))

	if once != 1 {
		t.Errorf("self-removing handler ran %d times, want 1", once)
	}
	if after != 2 {
		t.Errorf("second handler ran %d times, want 2", after)
	}
}

func TestViewerHandlerRemovesAnother(t *testing.T) {
	v, h, _, m := newTestViewer(t)

	var calls []string
	var second CallbackHandle
	v.On(EventHoverEnter, func(HotspotEvent) {
		calls = append(calls, "first")
		second.Remove()
	})
	second = v.On(EventHoverEnter, func(HotspotEvent) { calls = append(calls, "second") })
	v.On(EventHoverEnter, func(HotspotEvent) { calls = append(calls, "third") })

	v.OnPointerMove(h.pointerOver(t, m[0]))
	v.OnPointerMove(h.pointerOver(t, m[1]))

	want := "first,second,third,first,third"
	if got := strings.Join(calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestViewerOnInvalid(t *testing.T) {
	v, _, _, _ := newTestViewer(t)
	v.On(eventTypeCount, func(HotspotEvent) {}).Remove()
	v.On(EventLock, nil).Remove()
}

func TestViewerSessionsIndependent(t *testing.T) {
	v1, h1, _, m1 := newTestViewer(t)
	v2, _, _, m2 := newTestViewer(t)

	v1.OnPointerDown(h1.pointerOver(t, m1[0]), nil)
	v2.ClearHotspots()

	if st, active := v1.HoverState(); st != HoverLocked || active != m1[0] {
		t.Errorf("session 1 state = %v/%v", st, active)
	}
	if st, _ := v2.HoverState(); st != HoverIdle {
		t.Errorf("session 2 state = %v", st)
	}
	if m1[0].ID != m2[0].ID {
		t.Errorf("IDs differ across sessions: %d vs %d", m1[0].ID, m2[0].ID)
	}
	if !m2[0].Removed() || m1[0].Removed() {
		t.Error("clear leaked across sessions")
	}
}

func TestViewerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	v := NewViewer(newTestHost(), DefaultConfig(), WithLogger(logger))
	v.AddHotspot(mgl64.Vec3{}, MarkerOptions{Label: "logged"})
	v.OnPointerMove(PointerEvent{ClientX: 400, ClientY: 300})

	out := buf.String()
	for _, want := range []string{`"message":"hotspot added"`, `"label":"logged"`, `"message":"hover transition"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	for e := EventHoverEnter; e < eventTypeCount; e++ {
		if s := e.String(); s == "" || s == "unknown" {
			t.Errorf("EventType(%d).String() = %q", e, s)
		}
	}
}
