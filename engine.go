package lightbringer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"slices"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game is the game-specific part driven by an Engine.
type Game interface {
	// Tick advances game logic by one fixed step. Returning an error stops
	// the loop.
	Tick(e *Engine) error
	// Draw renders the current state into s.
	Draw(e *Engine, s Surface)
}

// Loader is implemented by games that build state from the catalog before
// the first tick.
type Loader interface {
	Load(e *Engine) error
}

// Options supplies the engine's collaborators. Zero fields pick the
// Ebitengine implementations, except Audio: without a device the engine
// runs silent.
type Options struct {
	Source InputSource
	Audio  AudioDevice
	// Assets is the file system the manifest and its assets are read from.
	Assets fs.FS
	// Now replaces the wall clock.
	Now func() time.Time
	// Sleep replaces time.Sleep in RunHeadless.
	Sleep func(time.Duration)
}

// Engine ties the loop, input, sound, assets and back buffer together. It
// is passed to every Game call; nothing in the package is process-global
// apart from the logger.
type Engine struct {
	Config      RunConfig
	Catalog     *Catalog
	Input       *Input
	Sounds      *SoundHandler
	Diagnostics *Diagnostics
	// Font is the catalog's "font" sheet when the manifest has one.
	Font *Font

	loop       *Loop
	back       *ImageSurface
	background Color
	ebitenSrc  *EbitenSource
	now        func() time.Time

	game       Game
	animations []*Animation
	tweens     []*TweenGroup
	script     *ScriptRunner
	shots      []string
	headless   bool
	tickDT     float32
	ticks      uint64
}

// NewEngine validates cfg and builds an engine. Asset problems are logged
// and leave blanks; only an invalid configuration is an error.
func NewEngine(cfg RunConfig, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	SetDebug(cfg.Debug)

	e := &Engine{
		Config:      cfg,
		Diagnostics: NewDiagnostics(cfg.Title),
		back:        NewOffscreenSurface(cfg.Width, cfg.Height),
		background:  ColorWhite,
		now:         opts.Now,
		tickDT:      1 / float32(cfg.TPS),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if cfg.Background != "" {
		c, err := ParseColor(cfg.Background)
		if err != nil {
			return nil, fmt.Errorf("lightbringer: background: %w", err)
		}
		e.background = c
	}

	src := opts.Source
	if src == nil {
		e.ebitenSrc = NewEbitenSource()
		src = e.ebitenSrc
	}
	e.Input = NewInput(src)
	names := make([]string, 0, len(cfg.Keys))
	for n := range cfg.Keys {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		var codes []ebiten.Key
		for _, kn := range cfg.Keys[n] {
			if k, ok := ParseKey(kn); ok {
				codes = append(codes, k)
			}
		}
		e.Input.NewKey(n, codes...)
	}

	e.Sounds = NewSoundHandler(opts.Audio)
	for n, v := range cfg.Volumes {
		if t, ok := ParseSoundType(n); ok {
			e.Sounds.SetVolume(t, v)
		}
	}

	e.Catalog = NewCatalog(e.Sounds)
	if opts.Assets != nil && cfg.Manifest != "" {
		if err := e.Catalog.LoadManifest(opts.Assets, cfg.Manifest); err != nil {
			logger.Warn("assets incomplete", "manifest", cfg.Manifest, "err", err)
		}
	}
	if ss, ok := e.Catalog.sheets["font"]; ok {
		e.Font = NewFont(ss)
	}

	lc := cfg.LoopConfig()
	lc.Now = e.now
	lc.SleepFunc = opts.Sleep
	e.loop = NewLoop(lc, e.tick, e.render)
	e.loop.OnReport(e.Diagnostics.Report)
	return e, nil
}

// Loop returns the engine's game loop.
func (e *Engine) Loop() *Loop { return e.loop }

// Surface returns the back buffer games draw into.
func (e *Engine) Surface() *ImageSurface { return e.back }

// Ticks returns the number of ticks run so far.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Stop ends the loop after the current tick.
func (e *Engine) Stop() { e.loop.Stop() }

// Animate ticks a every engine tick until Unanimate is called.
func (e *Engine) Animate(a *Animation) {
	if !slices.Contains(e.animations, a) {
		e.animations = append(e.animations, a)
	}
}

// Unanimate stops ticking a.
func (e *Engine) Unanimate(a *Animation) {
	e.animations = slices.DeleteFunc(e.animations, func(x *Animation) bool { return x == a })
}

// AddTween updates g every tick, one tick's worth of seconds at a time,
// until it is done.
func (e *Engine) AddTween(g *TweenGroup) {
	e.tweens = append(e.tweens, g)
}

// SetScript attaches an input script that runs one step per tick, before
// input is polled. Nil detaches it.
func (e *Engine) SetScript(r *ScriptRunner) {
	e.script = r
}

// SetGame sets the game driven by the engine.
func (e *Engine) SetGame(g Game) {
	e.game = g
}

func (e *Engine) tick() error {
	if e.script != nil {
		e.script.step(e)
	}
	e.Input.Poll()
	e.Sounds.Tick()
	for _, a := range e.animations {
		a.Tick()
	}
	for _, g := range e.tweens {
		g.Update(e.tickDT)
	}
	e.tweens = slices.DeleteFunc(e.tweens, func(g *TweenGroup) bool { return g.Done })
	if e.game != nil {
		if err := e.game.Tick(e); err != nil {
			return err
		}
	}
	e.Input.Tick()
	e.ticks++
	return nil
}

func (e *Engine) render() {
	w, h := e.back.Size()
	e.back.Fill(image.Rect(0, 0, w, h), e.background, BlendCopy)
	if e.game != nil {
		e.game.Draw(e, e.back)
	}
	if e.headless {
		e.dropScreenshots()
	}
}

func (e *Engine) load(g Game) error {
	e.game = g
	if l, ok := g.(Loader); ok {
		if err := l.Load(e); err != nil {
			return fmt.Errorf("lightbringer: load game: %w", err)
		}
	}
	return nil
}

// RunHeadless drives g with the engine's own loop and no window until the
// loop stops or ctx is done, then closes the engine.
func (e *Engine) RunHeadless(ctx context.Context, g Game) error {
	e.Diagnostics.setTitle = nil
	e.headless = true
	if err := e.load(g); err != nil {
		return errors.Join(err, e.Close())
	}
	err := e.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, e.Close())
}

// Close stops all sounds and waits for the audio workers.
func (e *Engine) Close() error {
	return e.Sounds.Close()
}
