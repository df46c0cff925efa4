package pinview

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// MarkerID identifies a marker within one Viewer. IDs are never reused.
type MarkerID uint32

// Link is one entry in a tooltip's link list.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// TooltipContent is the structured content shown in the tooltip panel.
type TooltipContent struct {
	Title string `yaml:"title" json:"title"`
	Links []Link `yaml:"links" json:"links"`
}

// MarkerOptions configures a marker at creation time.
type MarkerOptions struct {
	// Label is the display string. Used as the tooltip title when Tooltip is nil.
	Label string
	// Tooltip is optional structured content.
	Tooltip *TooltipContent
	// Scale overrides the computed base scale when positive.
	Scale float64
	// Color overrides the configured marker color when its alpha is non-zero.
	Color Color
}

// Marker is a point of interest attached to the model pivot. Markers are
// created and destroyed only by a Registry; the Hover Animator owns the
// animated fields.
type Marker struct {
	ID      MarkerID
	Label   string
	Tooltip *TooltipContent
	Color   Color

	localPosition mgl64.Vec3
	baseScale     float64
	currentScale  float64
	targetScale   float64
	opacity       float64
	targetOpacity float64
	proxyRadius   float64
	index         int // insertion order, used for tie-breaking
	removed       bool
}

// LocalPosition returns the marker position in model-local space.
func (m *Marker) LocalPosition() mgl64.Vec3 { return m.localPosition }

// BaseScale returns the resting visual scale.
func (m *Marker) BaseScale() float64 { return m.baseScale }

// CurrentScale returns the animated visual scale.
func (m *Marker) CurrentScale() float64 { return m.currentScale }

// TargetScale returns the scale the marker is converging toward.
func (m *Marker) TargetScale() float64 { return m.targetScale }

// Opacity returns the animated opacity.
func (m *Marker) Opacity() float64 { return m.opacity }

// ProxyRadius returns the hit-test sphere radius in world units.
func (m *Marker) ProxyRadius() float64 { return m.proxyRadius * m.currentScale }

// Removed reports whether the marker has been removed from its registry.
func (m *Marker) Removed() bool { return m.removed }

// content returns the tooltip content, falling back to a label-only panel.
func (m *Marker) content() TooltipContent {
	if m.Tooltip != nil {
		return *m.Tooltip
	}
	title := m.Label
	if title == "" {
		title = "Info"
	}
	return TooltipContent{Title: title}
}

// Registry owns the set of markers of one viewer session.
type Registry struct {
	host    SceneHost
	cfg     *Config
	markers []*Marker
	nextID  MarkerID

	// onRemove runs before markers leave the registry so dependents can
	// drop their references. all is true for Clear.
	onRemove func(m *Marker, all bool)
}

func newRegistry(host SceneHost, cfg *Config) *Registry {
	return &Registry{host: host, cfg: cfg}
}

// Add constructs a marker at the given model-local position and registers
// its proxy with the host. It panics if any coordinate is not finite.
func (r *Registry) Add(local mgl64.Vec3, opts MarkerOptions) *Marker {
	if !isFiniteVec(local) {
		panic(fmt.Sprintf("pinview: marker %q has non-finite position %v", opts.Label, local))
	}

	base := opts.Scale
	if base <= 0 {
		base = r.cfg.MarkerSize
		if size := r.host.ModelSize(); size > 0 {
			base *= size
		}
	}

	c := opts.Color
	if c.A == 0 {
		c = r.cfg.MarkerColor
	}

	r.nextID++
	m := &Marker{
		ID:            r.nextID,
		Label:         opts.Label,
		Tooltip:       opts.Tooltip,
		Color:         c,
		localPosition: local,
		baseScale:     base,
		currentScale:  base,
		targetScale:   base,
		opacity:       r.cfg.MarkerOpacity,
		targetOpacity: r.cfg.MarkerOpacity,
		proxyRadius:   r.cfg.ProxyRadius,
		index:         len(r.markers),
	}
	r.markers = append(r.markers, m)
	r.host.RegisterPickableProxy(m)
	return m
}

// Remove takes a single marker out of the registry. Returns false if m is
// not registered here.
func (r *Registry) Remove(m *Marker) bool {
	for i, cur := range r.markers {
		if cur != m {
			continue
		}
		if r.onRemove != nil {
			r.onRemove(m, false)
		}
		r.host.UnregisterPickableProxy(m)
		m.removed = true
		copy(r.markers[i:], r.markers[i+1:])
		r.markers[len(r.markers)-1] = nil
		r.markers = r.markers[:len(r.markers)-1]
		for j := i; j < len(r.markers); j++ {
			r.markers[j].index = j
		}
		return true
	}
	return false
}

// Clear removes every marker from the host and empties the registry.
// Calling Clear on an empty registry has no side effects.
func (r *Registry) Clear() {
	if len(r.markers) == 0 {
		return
	}
	if r.onRemove != nil {
		r.onRemove(nil, true)
	}
	for i, m := range r.markers {
		r.host.UnregisterPickableProxy(m)
		m.removed = true
		r.markers[i] = nil
	}
	r.markers = r.markers[:0]
}

// Markers returns the markers in insertion order. The returned slice MUST
// NOT be mutated.
func (r *Registry) Markers() []*Marker {
	return r.markers
}

// Len returns the number of registered markers.
func (r *Registry) Len() int {
	return len(r.markers)
}

// Get returns the marker with the given ID, or nil.
func (r *Registry) Get(id MarkerID) *Marker {
	for _, m := range r.markers {
		if m.ID == id {
			return m
		}
	}
	return nil
}
