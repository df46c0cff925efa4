package pinview

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	ambientLight   = 0.35
	hoverTint      = 0.25 // mix toward white for the hovered mesh
	markerSegments = 20
	debugGlyphW    = 6 // ebitenutil debug font cell
	debugGlyphH    = 16
	maxBatchVerts  = math.MaxUint16 - 3
)

// drawTri is a projected, shaded model triangle waiting for the painter sort.
type drawTri struct {
	pts   [3]Vec2
	color Color
	depth float64
}

// ensureWhitePixel returns the scene's 1x1 white image used as the source
// texture for solid-colour triangles.
func (s *Scene) ensureWhitePixel() *ebiten.Image {
	if s.whitePixel == nil {
		s.whitePixel = ebiten.NewImage(1, 1)
		s.whitePixel.Fill(ColorWhite.toRGBA())
	}
	return s.whitePixel
}

// Draw renders the model, markers and tooltip to screen. Call once per
// frame after Update.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())

	rect := s.viewport
	if rect.Empty() {
		b := screen.Bounds()
		rect = Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	if rect.Empty() || s.camera == nil {
		s.flushScreenshots(screen)
		return
	}

	var stats debugStats
	vp := s.camera.ViewProjection(rect.Aspect())
	s.drawMeshes(screen, vp, rect, &stats)
	s.drawMarkers(screen, vp, rect, &stats)
	s.drawTooltip(screen)
	s.debugLog(stats)

	s.flushScreenshots(screen)
}

// drawMeshes paints the collected model triangles far to near.
func (s *Scene) drawMeshes(screen *ebiten.Image, vp mgl64.Mat4, rect Rect, stats *debugStats) {
	s.collectTriangles(vp, rect, stats)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for i := range s.tris {
		if len(s.vertices)+3 > maxBatchVerts {
			s.flushTriangles(screen, stats)
		}
		t := &s.tris[i]
		s.appendTriangle(t.pts[0], t.pts[1], t.pts[2], t.color)
	}
	s.flushTriangles(screen, stats)
}

// collectTriangles projects every visible triangle into s.tris, culls back
// faces, applies a headlight Lambert term and sorts far to near.
func (s *Scene) collectTriangles(vp mgl64.Mat4, rect Rect, stats *debugStats) {
	eye := s.camera.Position()
	hovered := s.viewer.HoveredMesh()
	s.tris = s.tris[:0]

	for _, m := range s.meshes {
		if !m.Visible {
			continue
		}
		base := m.Color
		if m == hovered {
			base = mixColor(base, ColorWhite, hoverTint)
		}
		for _, tri := range m.WorldTriangles() {
			stats.triangles++
			n := tri.Normal()
			centroid := tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3)
			toEye := eye.Sub(centroid)
			if n.Dot(toEye) <= 0 {
				stats.culled++
				continue
			}
			var dt drawTri
			visible := true
			var depth float64
			for i, p := range tri {
				ndc, ok := projectNDC(vp, p)
				if !ok {
					visible = false
					break
				}
				dt.pts[i] = NDCToScreen(ndc, rect)
				depth += ndc[2]
			}
			if !visible {
				stats.culled++
				continue
			}
			lambert := math.Max(0, n.Dot(toEye.Normalize()))
			shade := ambientLight + (1-ambientLight)*lambert
			dt.color = Color{R: base.R * shade, G: base.G * shade, B: base.B * shade, A: base.A}
			dt.depth = depth / 3
			s.tris = append(s.tris, dt)
		}
	}

	sort.SliceStable(s.tris, func(i, j int) bool {
		return s.tris[i].depth > s.tris[j].depth
	})
}

// drawMarkers draws each marker as a screen-space disc sized from its
// current scale. With OccludeMarkers set, markers behind model geometry are
// skipped.
func (s *Scene) drawMarkers(screen *ebiten.Image, vp mgl64.Mat4, rect Rect, stats *debugStats) {
	eye := s.camera.Position()
	for _, m := range s.viewer.Markers() {
		world := s.MarkerWorldPosition(m)
		ndc, ok := projectNDC(vp, world)
		if !ok {
			continue
		}
		dist := world.Sub(eye).Len()
		if s.OccludeMarkers && s.occluded(eye, world, dist) {
			stats.occluded++
			continue
		}
		stats.markers++
		center := NDCToScreen(ndc, rect)
		radius := m.CurrentScale() * s.camera.PixelsPerUnit(dist, rect.Height)
		radius = math.Max(radius, 2)
		c := m.Color.WithAlpha(m.Opacity())

		if len(s.vertices)+markerSegments*3 > maxBatchVerts {
			s.flushTriangles(screen, stats)
		}
		s.appendDisc(center, radius, c)
	}
	s.flushTriangles(screen, stats)
}

// occluded reports whether any mesh triangle lies between eye and p.
func (s *Scene) occluded(eye, p mgl64.Vec3, dist float64) bool {
	if dist <= 0 {
		return false
	}
	r := Ray{Origin: eye, Dir: p.Sub(eye).Mul(1 / dist)}
	// Tolerance keeps markers sitting on a surface visible.
	limit := dist * 0.995
	for _, m := range s.meshes {
		if !m.Visible {
			continue
		}
		if _, t, ok := m.Raycast(r); ok && t < limit {
			return true
		}
	}
	return false
}

// drawTooltip renders the panel into an offscreen image and composites it
// at the faded opacity.
func (s *Scene) drawTooltip(screen *ebiten.Image) {
	tt := s.viewer.Tooltip()
	if tt.Opacity() <= 0 || !tt.OnScreen() {
		return
	}
	panel := tt.PanelRect()
	w, h := int(math.Ceil(panel.Width)), int(math.Ceil(panel.Height))
	if w <= 0 || h <= 0 {
		return
	}
	if s.panelImg == nil || s.panelImg.Bounds().Dx() != w || s.panelImg.Bounds().Dy() != h {
		if s.panelImg != nil {
			s.panelImg.Deallocate()
		}
		s.panelImg = ebiten.NewImage(w, h)
	}
	img := s.panelImg
	st := s.viewer.Config().Tooltip
	img.Clear()
	img.Fill(st.Background.toRGBA())

	content := tt.Content()
	pad := int(st.Padding)
	line := int(st.LineHeight)
	s.drawLabel(img, content.Title, pad, pad, st.TextColor)
	for i, l := range content.Links {
		text := l.Label
		if text == "" {
			text = l.URL
		}
		s.drawLabel(img, "> "+text, pad, pad+line*(i+1), st.LinkColor)
	}
	if tt.IsLocked() {
		cr := tt.CloseRect()
		x := int(cr.X-panel.X+cr.Width/2) - debugGlyphW/2
		y := int(cr.Y-panel.Y+cr.Height/2) - debugGlyphH/2
		s.drawLabel(img, "x", x, y, st.TextColor)
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(math.Round(panel.X), math.Round(panel.Y))
	op.ColorScale.ScaleAlpha(float32(tt.Opacity()))
	screen.DrawImage(img, &op)
}

// drawLabel prints str with the debug font in colour c. The debug font
// only draws white, so glyphs go to a scratch image first and are tinted
// on the way to dst.
func (s *Scene) drawLabel(dst *ebiten.Image, str string, x, y int, c Color) {
	if str == "" {
		return
	}
	w := debugGlyphW * len(str)
	if s.labelImg == nil || s.labelImg.Bounds().Dx() < w {
		if s.labelImg != nil {
			s.labelImg.Deallocate()
		}
		s.labelImg = ebiten.NewImage(max(w, 256), debugGlyphH)
	}
	s.labelImg.Clear()
	ebitenutil.DebugPrint(s.labelImg, str)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c.toRGBA())
	dst.DrawImage(s.labelImg, &op)
}

// --- Vertex helpers ---

func (s *Scene) appendTriangle(a, b, c Vec2, col Color) {
	base := uint16(len(s.vertices))
	s.vertices = append(s.vertices,
		solidVertex(a, col), solidVertex(b, col), solidVertex(c, col))
	s.indices = append(s.indices, base, base+1, base+2)
}

func (s *Scene) appendDisc(center Vec2, radius float64, col Color) {
	base := uint16(len(s.vertices))
	s.vertices = append(s.vertices, solidVertex(center, col))
	for i := 0; i < markerSegments; i++ {
		a := 2 * math.Pi * float64(i) / markerSegments
		s.vertices = append(s.vertices, solidVertex(Vec2{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}, col))
	}
	for i := 0; i < markerSegments; i++ {
		next := (i+1)%markerSegments + 1
		s.indices = append(s.indices, base, base+uint16(i)+1, base+uint16(next))
	}
}

func (s *Scene) flushTriangles(screen *ebiten.Image, stats *debugStats) {
	if len(s.indices) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	screen.DrawTriangles(s.vertices, s.indices, s.ensureWhitePixel(), &op)
	stats.drawCalls++
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// solidVertex builds a vertex sampling the white pixel with a premultiplied
// colour scale.
func solidVertex(p Vec2, c Color) ebiten.Vertex {
	a := float32(clamp01(c.A))
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(clamp01(c.R)) * a,
		ColorG: float32(clamp01(c.G)) * a,
		ColorB: float32(clamp01(c.B)) * a,
		ColorA: a,
	}
}

func mixColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
