package lightbringer

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Diagnostics keeps the last per-second loop report and publishes it to
// the window title and the debug log.
type Diagnostics struct {
	title string
	last  LoopStats
	// setTitle is ebiten.SetWindowTitle outside of tests.
	setTitle func(string)
}

// NewDiagnostics creates a reporter for a window titled title.
func NewDiagnostics(title string) *Diagnostics {
	return &Diagnostics{title: title, setTitle: ebiten.SetWindowTitle}
}

// Report records stats and updates the title. It is registered with
// Loop.OnReport.
func (d *Diagnostics) Report(stats LoopStats) {
	d.last = stats
	logger.Debug("loop", "fps", stats.Frames, "ticks", stats.Ticks)
	if d.setTitle != nil {
		d.setTitle(d.Title())
	}
}

// Last returns the most recent report.
func (d *Diagnostics) Last() LoopStats {
	return d.last
}

// Title formats the window title with the last report.
func (d *Diagnostics) Title() string {
	return fmt.Sprintf("%s | %d fps | %d ticks", d.title, d.last.Frames, d.last.Ticks)
}

// DrawOverlay prints the last report and Ebitengine's own frame and update
// rates in the top-left corner of screen.
func (d *Diagnostics) DrawOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %d  TICKS: %d\nENGINE FPS: %.1f  TPS: %.1f",
		d.last.Frames, d.last.Ticks, ebiten.ActualFPS(), ebiten.ActualTPS()))
}
