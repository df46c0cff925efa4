package pinview

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Point3 is a model-local position written as a three-element list.
type Point3 [3]float64

// Vec3 converts to an mgl64 vector.
func (p Point3) Vec3() mgl64.Vec3 { return mgl64.Vec3(p) }

// HotspotDef describes one marker in a hotspot file.
type HotspotDef struct {
	Label    string          `yaml:"label"`
	Position Point3          `yaml:"position"`
	Scale    float64         `yaml:"scale"`
	Color    *Color          `yaml:"color"`
	Tooltip  *TooltipContent `yaml:"tooltip"`
}

func (d HotspotDef) options() MarkerOptions {
	opts := MarkerOptions{Label: d.Label, Tooltip: d.Tooltip, Scale: d.Scale}
	if d.Color != nil {
		opts.Color = *d.Color
	}
	return opts
}

type hotspotFile struct {
	Hotspots []HotspotDef `yaml:"hotspots"`
}

// LoadHotspots parses a YAML hotspot file:
//
//	hotspots:
//	  - label: Valve
//	    position: [0.1, 0.4, 0]
//	    tooltip:
//	      title: Mitral valve
//	      links:
//	        - {label: Thuisarts, url: "https://www.thuisarts.nl"}
//
// Positions must be finite.
func LoadHotspots(data []byte) ([]HotspotDef, error) {
	var f hotspotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse hotspots: %w", err)
	}
	for i, d := range f.Hotspots {
		if !isFiniteVec(d.Position.Vec3()) {
			return nil, fmt.Errorf("parse hotspots: entry %d (%q): non-finite position", i, d.Label)
		}
	}
	return f.Hotspots, nil
}
