package lightbringer

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// driver adapts an Engine to ebiten.Game. Ebitengine calls Update once per
// display frame; each call advances the engine's loop to the current time,
// which may run zero or several ticks.
type driver struct {
	e *Engine
}

func (d *driver) Update() error {
	if d.e.ebitenSrc != nil {
		d.e.ebitenSrc.beginFrame()
	}
	if _, _, err := d.e.loop.Step(d.e.now()); err != nil {
		return err
	}
	if d.e.loop.Stopped() {
		return ebiten.Termination
	}
	return nil
}

func (d *driver) Draw(screen *ebiten.Image) {
	screen.DrawImage(d.e.back.Image(), nil)
	d.e.flushScreenshots(screen)
	if d.e.Config.Debug {
		d.e.Diagnostics.DrawOverlay(screen)
	}
}

func (d *driver) Layout(_, _ int) (int, int) {
	return d.e.Config.Width, d.e.Config.Height
}

// Run opens a window and drives g until the loop stops, a tick fails or the
// window is closed. The engine is closed on return.
func Run(e *Engine, g Game) error {
	if err := e.load(g); err != nil {
		return errors.Join(err, e.Close())
	}
	ebiten.SetWindowSize(e.Config.Width, e.Config.Height)
	ebiten.SetWindowTitle(e.Config.Title)
	// The loop keeps its own fixed timestep, so Update runs once per frame.
	ebiten.SetTPS(ebiten.SyncWithFPS)

	err := ebiten.RunGame(&driver{e: e})
	return errors.Join(err, e.Close())
}
