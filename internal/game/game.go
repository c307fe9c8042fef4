// Package game hosts the overlay in an ebiten window.
package game

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/overlay-it/internal/driver"
)

// Game draws the background, the compositor's visible layer and an optional
// HUD. Update and Draw run on ebiten's main loop, which is also the only
// goroutine touching the driver.
type Game struct {
	loop       *driver.Loop
	background *ebiten.Image
	width      int
	height     int
	hud        bool

	// layer caches the rasterized visible batch for layerVersion.
	layer        *ebiten.Image
	layerVersion uint64

	keys []ebiten.Key
}

func New(bg image.Image, loop *driver.Loop, hud bool) *Game {
	b := bg.Bounds()
	return &Game{
		loop:       loop,
		background: ebiten.NewImageFromImage(bg),
		width:      b.Dx(),
		height:     b.Dy(),
		hud:        hud,
	}
}

// Run opens a fixed-size window and blocks until the user presses a key or
// closes it.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	g.loop.Start(time.Now())
	defer g.loop.Stop()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	if len(g.keys) > 0 {
		g.loop.Stop()
		return ebiten.Termination
	}

	g.loop.Update(time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.background, nil)

	comp := g.loop.Compositor()
	if b, ok := comp.Visible(); ok {
		if g.layer == nil || g.layerVersion != comp.Version() {
			g.rasterize(b.Shapes)
			g.layerVersion = comp.Version()
		}
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(comp.Opacity()))
		screen.DrawImage(g.layer, op)
	}

	if g.hud {
		g.drawHUD(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.loop.Stats()
	status := fmt.Sprintf("batch #%d  ok %d  skipped %d  failed %d  gen %s  up %s",
		st.LastSeq, st.Batches, st.Skips, st.Failures, formatMillis(st.MeanDuration), formatDuration(st.Uptime))
	if st.LastErr != nil {
		status += " | Error: " + st.LastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}
