package pinview

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Resizable lets the user resize the window; the viewport follows.
	Resizable bool
	// BeforeUpdate, if set, runs at the start of every tick before the
	// scene updates. A non-nil error stops the loop and is returned by Run.
	BeforeUpdate func() error
}

// errTestRunnerDone ends the game loop once a scripted run has finished.
var errTestRunnerDone = errors.New("test runner done")

// game adapts a Scene to ebiten.Game, keeps the viewport in step with the
// window layout and stops once an attached test runner has finished.
type game struct {
	scene        *Scene
	showFPS      bool
	beforeUpdate func() error
}

func (g *game) Update() error {
	if g.beforeUpdate != nil {
		if err := g.beforeUpdate(); err != nil {
			return err
		}
	}
	g.scene.Update()
	if tr := g.scene.testRunner; tr != nil && tr.Done() && len(g.scene.screenshotQueue) == 0 {
		return errTestRunnerDone
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 4)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	r := Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if r != g.scene.viewport {
		g.scene.SetViewport(r)
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window is closed, the
// test runner finishes or BeforeUpdate fails.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.SetViewport(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})

	g := &game{scene: scene, showFPS: cfg.ShowFPS, beforeUpdate: cfg.BeforeUpdate}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errTestRunnerDone) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
