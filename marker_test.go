package pinview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestRegistry() (*Registry, *testHost) {
	cfg := DefaultConfig()
	h := newTestHost()
	return newRegistry(h, &cfg), h
}

func TestRegistryAdd(t *testing.T) {
	r, h := newTestRegistry()
	a := r.Add(mgl64.Vec3{1, 2, 3}, MarkerOptions{Label: "a"})
	b := r.Add(mgl64.Vec3{}, MarkerOptions{Label: "b"})

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d; want 1, 2", a.ID, b.ID)
	}
	if a.index != 0 || b.index != 1 {
		t.Errorf("indices = %d, %d; want 0, 1", a.index, b.index)
	}
	if r.Len() != 2 || len(h.proxies) != 2 {
		t.Errorf("Len = %d proxies = %d, want 2, 2", r.Len(), len(h.proxies))
	}
	if a.LocalPosition() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("LocalPosition = %v", a.LocalPosition())
	}
	if r.Get(2) != b || r.Get(99) != nil {
		t.Error("Get returned the wrong marker")
	}
}

func TestRegistryAddDefaults(t *testing.T) {
	r, _ := newTestRegistry()
	m := r.Add(mgl64.Vec3{}, MarkerOptions{})
	cfg := DefaultConfig()

	if m.Color != cfg.MarkerColor {
		t.Errorf("Color = %+v, want %+v", m.Color, cfg.MarkerColor)
	}
	assertNear(t, "opacity", m.Opacity(), cfg.MarkerOpacity)
	assertNear(t, "current", m.CurrentScale(), m.BaseScale())
	assertNear(t, "target", m.TargetScale(), m.BaseScale())
	assertNear(t, "proxy", m.ProxyRadius(), cfg.ProxyRadius*m.BaseScale())
}

func TestRegistryBaseScale(t *testing.T) {
	tests := []struct {
		name      string
		modelSize float64
		scale     float64
		want      float64
	}{
		{"explicit", 4, 0.5, 0.5},
		{"from model size", 4, 0, 0.02 * 4},
		{"no model", 0, 0, 0.02},
		{"negative ignored", 2, -1, 0.02 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, h := newTestRegistry()
			h.size = tt.modelSize
			m := r.Add(mgl64.Vec3{}, MarkerOptions{Scale: tt.scale})
			assertNear(t, "base", m.BaseScale(), tt.want)
		})
	}
}

func TestRegistryAddColor(t *testing.T) {
	r, _ := newTestRegistry()
	blue := Color{R: 0, G: 0, B: 1, A: 1}
	if m := r.Add(mgl64.Vec3{}, MarkerOptions{Color: blue}); m.Color != blue {
		t.Errorf("Color = %+v, want %+v", m.Color, blue)
	}
}

func TestRegistryAddNonFinitePanics(t *testing.T) {
	for _, v := range []mgl64.Vec3{
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
		{0, 0, math.Inf(-1)},
	} {
		t.Run("", func(t *testing.T) {
			r, h := newTestRegistry()
			defer func() {
				if recover() == nil {
					t.Errorf("Add(%v) did not panic", v)
				}
				if r.Len() != 0 || len(h.proxies) != 0 {
					t.Errorf("rejected marker was registered")
				}
			}()
			r.Add(v, MarkerOptions{})
		})
	}
}

func TestRegistryRemove(t *testing.T) {
	r, h := newTestRegistry()
	a := r.Add(mgl64.Vec3{}, MarkerOptions{})
	b := r.Add(mgl64.Vec3{}, MarkerOptions{})
	c := r.Add(mgl64.Vec3{}, MarkerOptions{})

	var removed []*Marker
	r.onRemove = func(m *Marker, all bool) {
		if all {
			t.Error("Remove reported all")
		}
		removed = append(removed, m)
	}

	if !r.Remove(b) {
		t.Fatal("Remove(b) = false")
	}
	if !b.Removed() || len(removed) != 1 || removed[0] != b {
		t.Errorf("removed=%v hook=%v", b.Removed(), removed)
	}
	if got := r.Markers(); len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Markers = %v", got)
	}
	if c.index != 1 {
		t.Errorf("c.index = %d, want 1", c.index)
	}
	if len(h.proxies) != 2 {
		t.Errorf("proxies = %d, want 2", len(h.proxies))
	}
	if r.Remove(b) {
		t.Error("second Remove(b) = true")
	}

	d := r.Add(mgl64.Vec3{}, MarkerOptions{})
	if d.ID != 4 {
		t.Errorf("new ID = %d, want 4 (IDs are not reused)", d.ID)
	}
}

func TestRegistryClear(t *testing.T) {
	r, h := newTestRegistry()
	a := r.Add(mgl64.Vec3{}, MarkerOptions{})
	b := r.Add(mgl64.Vec3{}, MarkerOptions{})

	calls := 0
	r.onRemove = func(m *Marker, all bool) {
		calls++
		if !all || m != nil {
			t.Errorf("hook(%v, %v), want (nil, true)", m, all)
		}
	}
	r.Clear()

	if r.Len() != 0 || len(h.proxies) != 0 {
		t.Errorf("Len = %d proxies = %d after Clear", r.Len(), len(h.proxies))
	}
	if !a.Removed() || !b.Removed() {
		t.Error("cleared markers not flagged removed")
	}
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1", calls)
	}
}

func TestRegistryClearEmpty(t *testing.T) {
	r, h := newTestRegistry()
	calls := 0
	r.onRemove = func(*Marker, bool) { calls++ }

	r.Clear()
	r.Clear()

	if calls != 0 || r.Len() != 0 || len(h.proxies) != 0 {
		t.Errorf("Clear on empty registry had side effects: hook calls %d", calls)
	}
}
