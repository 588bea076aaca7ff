package lightbringer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// newTestEngine builds an engine at 50 TPS on a fake input source and a
// manual clock, with no assets and no audio.
func newTestEngine(t *testing.T, edit func(*RunConfig)) (*Engine, *fakeSource, *manualClock) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Manifest = ""
	cfg.TPS = 50
	cfg.SleepMillis = 5
	if edit != nil {
		edit(&cfg)
	}
	src := &fakeSource{}
	clk := newManualClock()
	e, err := NewEngine(cfg, Options{Source: src, Now: clk.now, Sleep: clk.advance})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, src, clk
}

// testGame records what it saw on every tick.
type testGame struct {
	loaded  bool
	ticks   int
	clicks  int
	draws   int
	stopAt  int
	tickErr error
	loadErr error
}

func (g *testGame) Load(e *Engine) error {
	g.loaded = true
	return g.loadErr
}

func (g *testGame) Tick(e *Engine) error {
	g.ticks++
	if k := e.Input.Key("test"); k != nil && k.Clicked() {
		g.clicks++
	}
	if g.tickErr != nil && g.ticks == 3 {
		return g.tickErr
	}
	if g.ticks == g.stopAt {
		e.Stop()
	}
	return nil
}

func (g *testGame) Draw(e *Engine, s Surface) { g.draws++ }

func TestNewEngineKeysAndVolumes(t *testing.T) {
	e, _, _ := newTestEngine(t, func(c *RunConfig) {
		c.Volumes = map[string]int{"music": 30, "sfxVolume": 70}
	})

	test := e.Input.Key("test")
	if test == nil {
		t.Fatal("test key not registered")
	}
	if want := []ebiten.Key{ebiten.KeyA, ebiten.KeySpace}; !reflect.DeepEqual(test.Codes(), want) {
		t.Errorf("test codes = %v, want %v", test.Codes(), want)
	}
	if e.Input.Key("exit") == nil {
		t.Error("exit key not registered")
	}
	if e.Sounds.Volume(SoundMusic) != 30 || e.Sounds.Volume(SoundSFX) != 70 {
		t.Errorf("volumes = %d, %d", e.Sounds.Volume(SoundMusic), e.Sounds.Volume(SoundSFX))
	}
	if e.Sounds.Volume(SoundVoice) != DefaultVolume {
		t.Error("unset volume should stay at the default")
	}
	if e.Font != nil {
		t.Error("Font should be nil without a font sheet")
	}
	if w, h := e.Surface().Size(); w != 1024 || h != 640 {
		t.Errorf("back buffer = %dx%d", w, h)
	}
	if e.Loop().TPS() != 50 {
		t.Errorf("loop TPS = %d, want 50", e.Loop().TPS())
	}
}

func TestNewEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TPS = 0
	if _, err := NewEngine(cfg, Options{Source: &fakeSource{}}); err == nil {
		t.Error("NewEngine should reject an invalid config")
	}
}

func TestEngineTickOrder(t *testing.T) {
	e, src, _ := newTestEngine(t, nil)
	g := &testGame{}
	e.SetGame(g)

	src.push(down(ebiten.KeyA))
	if err := e.tick(); err != nil {
		t.Fatal(err)
	}
	if g.clicks != 1 {
		t.Errorf("game saw %d clicks, want 1 (input is polled before the game ticks)", g.clicks)
	}
	if e.Input.Key("test").Clicked() {
		t.Error("click should be consumed at the end of the tick")
	}

	e.tick()
	if g.clicks != 1 || e.Ticks() != 2 {
		t.Errorf("clicks = %d, ticks = %d, want 1 and 2", g.clicks, e.Ticks())
	}

	e.render()
	if g.draws != 1 {
		t.Errorf("draws = %d, want 1", g.draws)
	}
}

func TestEngineAnimateAndTween(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	a, err := NewAnimation(testFrames(3), AnimationConfig{TicksPerFrame: 1, Loop: true, AutoStart: true})
	if err != nil {
		t.Fatal(err)
	}
	e.Animate(a)
	e.Animate(a)

	v := 0.0
	e.AddTween(TweenValue(&v, 10, 0.04, ease.Linear)) // two ticks at 50 TPS

	e.tick()
	if a.Frame() != 1 {
		t.Errorf("Frame() = %d after one tick, want 1", a.Frame())
	}
	e.tick()
	if a.Frame() != 2 {
		t.Errorf("Animate twice should still tick once per tick, Frame() = %d", a.Frame())
	}
	if v < 9.9 || len(e.tweens) != 0 {
		t.Errorf("tween v = %f, live tweens = %d, want ~10 and 0", v, len(e.tweens))
	}

	e.Unanimate(a)
	e.tick()
	if a.Frame() != 2 {
		t.Error("Unanimate should stop ticking the animation")
	}
}

func TestRunHeadlessUntilStop(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	g := &testGame{stopAt: 5}

	if err := e.RunHeadless(context.Background(), g); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if !g.loaded {
		t.Error("Load was not called")
	}
	if g.ticks != 5 || e.Ticks() != 5 {
		t.Errorf("ticks = %d (engine %d), want 5", g.ticks, e.Ticks())
	}
	if g.draws == 0 {
		t.Error("game was never drawn")
	}
}

func TestRunHeadlessErrors(t *testing.T) {
	boom := errors.New("boom")

	e, _, _ := newTestEngine(t, nil)
	err := e.RunHeadless(context.Background(), &testGame{loadErr: boom})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "load game") {
		t.Errorf("load err = %v, want a wrapped boom", err)
	}

	e, _, _ = newTestEngine(t, nil)
	g := &testGame{tickErr: boom}
	if err := e.RunHeadless(context.Background(), g); !errors.Is(err, boom) {
		t.Errorf("tick err = %v, want boom", err)
	}
	if g.ticks != 3 {
		t.Errorf("ticks = %d, want 3", g.ticks)
	}
}

func TestRunHeadlessContext(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.RunHeadless(ctx, &testGame{}); err != nil {
		t.Errorf("canceled run err = %v, want nil", err)
	}

	e, _, _ = newTestEngine(t, nil)
	ctx, cancel = context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	if err := e.RunHeadless(ctx, &testGame{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expired run err = %v, want DeadlineExceeded", err)
	}
}

func TestRunHeadlessScript(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	r, err := LoadScript([]byte(`
steps:
  - {action: key, key: test}
  - {action: stop}
`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetScript(r)
	g := &testGame{}

	if err := e.RunHeadless(context.Background(), g); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if g.clicks != 1 {
		t.Errorf("clicks = %d, want 1", g.clicks)
	}
	// Press, release, stop.
	if g.ticks != 3 {
		t.Errorf("ticks = %d, want 3", g.ticks)
	}
	if !r.Done() {
		t.Error("script should be done")
	}
}

func TestRunHeadlessDropsScreenshots(t *testing.T) {
	buf := captureLog(t)
	e, _, _ := newTestEngine(t, nil)
	r, err := LoadScript([]byte(`
steps:
  - {action: screenshot, label: start}
  - {action: stop}
`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetScript(r)

	if err := e.RunHeadless(context.Background(), &testGame{}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if !strings.Contains(buf.String(), "screenshots need a window") {
		t.Errorf("expected a dropped-screenshot warning, got %q", buf.String())
	}
	if len(e.shots) != 0 {
		t.Errorf("queue = %v, want empty", e.shots)
	}
}
