package lightbringer

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultTicksPerFrame is used when AnimationConfig.TicksPerFrame is zero.
const DefaultTicksPerFrame = 15

// ErrInvalidAnimation is returned by NewAnimation for inconsistent configs.
var ErrInvalidAnimation = errors.New("lightbringer: invalid animation")

// AnimationConfig describes how an Animation steps through its frames.
type AnimationConfig struct {
	// TicksPerFrame is the uniform frame duration. Zero means
	// DefaultTicksPerFrame.
	TicksPerFrame int
	// FrameTicks overrides the duration of each frame. When set it must
	// have at least one entry per frame.
	FrameTicks []int

	Loop bool
	// LoopDelay holds the animation on the start frame for this many extra
	// ticks each time it wraps around.
	LoopDelay int
	// RandomLoopDelay picks a delay in [0, LoopDelay) on every wrap instead.
	RandomLoopDelay bool

	StartFrame   int
	DefaultFrame int
	AutoStart    bool

	// Rand is used for random loop delays. Nil uses a private source.
	Rand *rand.Rand
}

// Animation steps through a list of frames, one tick at a time. It is
// drawn through the proxy sprite returned by AsSprite, which always resolves
// to the current frame, or to the default frame while stopped.
type Animation struct {
	frames     []*Sprite
	frameTicks []int
	uniform    int

	loop        bool
	loopDelay   int
	randomDelay bool
	rng         *rand.Rand

	startFrame   int
	defaultFrame int

	running bool
	counter int
	current int

	proxy *Sprite
}

// NewAnimation validates cfg against frames and returns a stopped animation
// positioned on the start frame, or a running one if cfg.AutoStart is set.
func NewAnimation(frames []*Sprite, cfg AnimationConfig) (*Animation, error) {
	n := len(frames)
	if n == 0 {
		return nil, fmt.Errorf("lightbringer: animation has no frames: %w", ErrInvalidAnimation)
	}
	if cfg.TicksPerFrame < 0 {
		return nil, fmt.Errorf("lightbringer: ticks per frame %d: %w", cfg.TicksPerFrame, ErrInvalidAnimation)
	}
	if cfg.FrameTicks != nil && len(cfg.FrameTicks) < n {
		return nil, fmt.Errorf("lightbringer: %d frame durations for %d frames: %w",
			len(cfg.FrameTicks), n, ErrInvalidAnimation)
	}
	for i, d := range cfg.FrameTicks {
		if d < 0 {
			return nil, fmt.Errorf("lightbringer: frame %d duration %d: %w", i, d, ErrInvalidAnimation)
		}
	}
	if cfg.LoopDelay < 0 {
		return nil, fmt.Errorf("lightbringer: loop delay %d: %w", cfg.LoopDelay, ErrInvalidAnimation)
	}
	if cfg.StartFrame < 0 || cfg.StartFrame >= n {
		return nil, fmt.Errorf("lightbringer: start frame %d of %d: %w", cfg.StartFrame, n, ErrInvalidAnimation)
	}
	if cfg.DefaultFrame < 0 || cfg.DefaultFrame >= n {
		return nil, fmt.Errorf("lightbringer: default frame %d of %d: %w", cfg.DefaultFrame, n, ErrInvalidAnimation)
	}

	a := &Animation{
		frames:       make([]*Sprite, n),
		uniform:      cfg.TicksPerFrame,
		loop:         cfg.Loop,
		loopDelay:    cfg.LoopDelay,
		randomDelay:  cfg.RandomLoopDelay,
		rng:          cfg.Rand,
		startFrame:   cfg.StartFrame,
		defaultFrame: cfg.DefaultFrame,
		current:      cfg.StartFrame,
		running:      cfg.AutoStart,
	}
	if a.uniform == 0 {
		a.uniform = DefaultTicksPerFrame
	}
	if cfg.FrameTicks != nil {
		a.frameTicks = append([]int(nil), cfg.FrameTicks[:n]...)
	}
	for i, f := range frames {
		if f == nil {
			f = EmptySprite
		}
		a.frames[i] = f
	}
	if a.rng == nil && a.randomDelay {
		a.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	a.proxy = NewProxySprite(a)
	return a, nil
}

// AsSprite returns the proxy sprite that draws the current frame.
func (a *Animation) AsSprite() *Sprite {
	return a.proxy
}

// CurrentSprite implements SpriteSource.
func (a *Animation) CurrentSprite() *Sprite {
	if !a.running {
		return a.frames[a.defaultFrame]
	}
	return a.frames[a.current]
}

// Width and Height report the size of frame 0, whatever frame is showing.
func (a *Animation) Width() int  { return a.frames[0].Width() }
func (a *Animation) Height() int { return a.frames[0].Height() }

// Start resumes the animation from its current position.
func (a *Animation) Start() { a.running = true }

// Pause stops the animation without moving it.
func (a *Animation) Pause() { a.running = false }

// Stop halts the animation and rewinds it to the start frame.
func (a *Animation) Stop() {
	a.running = false
	a.Reset()
}

// Reset rewinds to the start frame without changing the running state.
func (a *Animation) Reset() {
	a.current = a.startFrame
	a.counter = 0
}

// Running reports whether the animation advances on Tick.
func (a *Animation) Running() bool { return a.running }

// Frame returns the index of the frame the animation is positioned on.
func (a *Animation) Frame() int { return a.current }

// FrameCount returns the number of frames.
func (a *Animation) FrameCount() int { return len(a.frames) }

// SetFrame jumps to frame i. Out-of-range indexes are ignored.
func (a *Animation) SetFrame(i int) {
	if i < 0 || i >= len(a.frames) {
		return
	}
	a.current = i
	a.counter = 0
}

func (a *Animation) duration(i int) int {
	if a.frameTicks != nil {
		return a.frameTicks[i]
	}
	return a.uniform
}

// Tick advances the animation by one game tick. It does nothing while the
// animation is stopped.
func (a *Animation) Tick() {
	if !a.running {
		return
	}
	a.counter++
	if a.counter < a.duration(a.current) {
		return
	}
	a.counter = 0
	a.current++
	if a.current < len(a.frames) {
		return
	}
	if !a.loop {
		a.current = a.defaultFrame
		a.running = false
		return
	}
	a.current = a.startFrame
	if a.loopDelay > 0 {
		if a.randomDelay {
			a.counter = -a.rng.Intn(a.loopDelay)
		} else {
			a.counter = -a.loopDelay
		}
	}
}
