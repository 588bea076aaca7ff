package lightbringer

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// manualClock is a wall clock that only moves when told to.
type manualClock struct {
	t time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type loopCounter struct {
	ticks, renders int
}

func (c *loopCounter) tick() error {
	c.ticks++
	return nil
}

func (c *loopCounter) render() { c.renders++ }

func TestLoopFirstStepOnlyStarts(t *testing.T) {
	clk := newManualClock()
	var n loopCounter
	l := NewLoop(LoopConfig{TPS: 60, Now: clk.now}, n.tick, n.render)

	ticks, rendered, err := l.Step(clk.now())
	if err != nil || ticks != 0 || rendered {
		t.Errorf("first Step = (%d, %v, %v), want (0, false, nil)", ticks, rendered, err)
	}
}

func TestLoopTenTicksOneRender(t *testing.T) {
	clk := newManualClock()
	var n loopCounter
	l := NewLoop(LoopConfig{TPS: 60, Now: clk.now}, n.tick, n.render)
	l.Step(clk.now())

	ns := float64(time.Second) / 60
	clk.advance(time.Duration(math.Ceil(10 * ns)))
	ticks, rendered, err := l.Step(clk.now())
	if err != nil {
		t.Fatal(err)
	}
	if ticks != 10 || n.ticks != 10 {
		t.Errorf("ticks = %d (counted %d), want 10", ticks, n.ticks)
	}
	if !rendered || n.renders != 1 {
		t.Errorf("renders = %d, want 1", n.renders)
	}
}

func TestLoopNoRenderWithoutTick(t *testing.T) {
	clk := newManualClock()
	var n loopCounter
	l := NewLoop(LoopConfig{TPS: 50, Now: clk.now}, n.tick, n.render)
	l.Step(clk.now())

	clk.advance(10 * time.Millisecond) // half a tick
	if ticks, rendered, _ := l.Step(clk.now()); ticks != 0 || rendered {
		t.Errorf("Step = (%d, %v), want (0, false)", ticks, rendered)
	}
	clk.advance(10 * time.Millisecond) // the other half
	if ticks, rendered, _ := l.Step(clk.now()); ticks != 1 || !rendered {
		t.Errorf("Step = (%d, %v), want (1, true)", ticks, rendered)
	}
}

func TestLoopBacklogClamp(t *testing.T) {
	buf := captureLog(t)
	clk := newManualClock()
	var n loopCounter
	l := NewLoop(LoopConfig{TPS: 60, Now: clk.now}, n.tick, n.render)
	l.Step(clk.now())

	clk.advance(20 * time.Second)
	ticks, _, err := l.Step(clk.now())
	if err != nil {
		t.Fatal(err)
	}
	if ticks != 300 {
		t.Errorf("ticks = %d, want 300", ticks)
	}
	if n.renders != 1 {
		t.Errorf("renders = %d, want 1", n.renders)
	}
	out := buf.String()
	if !strings.Contains(out, "skipping ticks") || !strings.Contains(out, "dropped=") {
		t.Errorf("expected an overload warning with the dropped count, got %q", out)
	}

	// The dropped time is gone, not owed.
	clk.advance(time.Duration(math.Ceil(float64(time.Second) / 60)))
	if ticks, _, _ := l.Step(clk.now()); ticks != 1 {
		t.Errorf("ticks after recovery = %d, want 1", ticks)
	}
}

func TestLoopReport(t *testing.T) {
	clk := newManualClock()
	var n loopCounter
	l := NewLoop(LoopConfig{TPS: 50, Now: clk.now}, n.tick, n.render)
	var reports []LoopStats
	l.OnReport(func(s LoopStats) { reports = append(reports, s) })

	l.Step(clk.now())
	for i := 0; i < 10; i++ {
		clk.advance(100 * time.Millisecond) // 5 ticks per step
		l.Step(clk.now())
	}

	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if want := (LoopStats{Frames: 10, Ticks: 50}); reports[0] != want {
		t.Errorf("report = %+v, want %+v", reports[0], want)
	}

	clk.advance(time.Second)
	l.Step(clk.now())
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if want := (LoopStats{Frames: 1, Ticks: 50}); reports[1] != want {
		t.Errorf("second report = %+v, want %+v", reports[1], want)
	}
}

func TestLoopDefaults(t *testing.T) {
	l := NewLoop(LoopConfig{}, nil, nil)
	if l.TPS() != DefaultTPS {
		t.Errorf("TPS() = %d, want %d", l.TPS(), DefaultTPS)
	}
	l = NewLoop(LoopConfig{TPS: 50}, nil, nil)
	if l.TickDuration() != 20*time.Millisecond {
		t.Errorf("TickDuration() = %v, want 20ms", l.TickDuration())
	}
}

// runLoop builds a loop whose sleeps advance a manual clock.
func runLoop(tick func(l *Loop) error) (*Loop, *loopCounter) {
	clk := newManualClock()
	var n loopCounter
	var l *Loop
	l = NewLoop(LoopConfig{
		TPS:       50,
		Sleep:     5 * time.Millisecond,
		Now:       clk.now,
		SleepFunc: clk.advance,
	}, func() error {
		n.ticks++
		return tick(l)
	}, n.render)
	return l, &n
}

func TestLoopRunUntilStop(t *testing.T) {
	var count int
	l, n := runLoop(func(l *Loop) error {
		count++
		if count == 5 {
			l.Stop()
		}
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.ticks != 5 {
		t.Errorf("ticks = %d, want 5", n.ticks)
	}
	if n.renders == 0 {
		t.Error("Run should render after ticking")
	}
	if !l.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
}

func TestLoopRunTickError(t *testing.T) {
	boom := errors.New("boom")
	var count int
	l, _ := runLoop(func(l *Loop) error {
		count++
		if count == 3 {
			return boom
		}
		return nil
	})

	err := l.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run err = %v, want boom", err)
	}
	if !l.Stopped() {
		t.Error("a failing tick should stop the loop")
	}
	if count != 3 {
		t.Errorf("ticks = %d, want 3", count)
	}
}

func TestLoopRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var count int
	l, _ := runLoop(func(l *Loop) error {
		count++
		if count == 2 {
			cancel()
		}
		return nil
	})

	err := l.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
}

func TestLoopRunAlreadyStopped(t *testing.T) {
	l, n := runLoop(func(l *Loop) error { return nil })
	l.Stop()
	if err := l.Run(context.Background()); err != nil {
		t.Errorf("Run err = %v, want nil", err)
	}
	if n.ticks != 0 {
		t.Errorf("ticks = %d, want 0", n.ticks)
	}
}
