package lightbringer

import "testing"

func TestDiagnosticsReport(t *testing.T) {
	d := NewDiagnostics("Game")
	var titles []string
	d.setTitle = func(s string) { titles = append(titles, s) }

	if got, want := d.Title(), "Game | 0 fps | 0 ticks"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}

	d.Report(LoopStats{Frames: 58, Ticks: 60})
	if d.Last() != (LoopStats{Frames: 58, Ticks: 60}) {
		t.Errorf("Last() = %+v", d.Last())
	}
	if len(titles) != 1 || titles[0] != "Game | 58 fps | 60 ticks" {
		t.Errorf("titles = %q", titles)
	}
}

func TestDiagnosticsWithoutWindow(t *testing.T) {
	d := NewDiagnostics("Game")
	d.setTitle = nil
	d.Report(LoopStats{Frames: 1, Ticks: 2})
	if d.Last().Ticks != 2 {
		t.Error("report should still be recorded without a window")
	}
}
