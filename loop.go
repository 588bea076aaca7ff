package lightbringer

import (
	"context"
	"sync/atomic"
	"time"
)

// Loop defaults.
const (
	DefaultTPS        = 60
	DefaultSleep      = 2 * time.Millisecond
	DefaultMaxBacklog = 5 * time.Second
)

// LoopConfig configures a Loop. Zero fields take the defaults above.
type LoopConfig struct {
	// TPS is the target number of ticks per second.
	TPS int
	// Sleep is the pause between iterations of Run.
	Sleep time.Duration
	// MaxBacklog caps how far behind the loop may fall. Ticks beyond it
	// are dropped and logged.
	MaxBacklog time.Duration

	// Now and SleepFunc replace the wall clock, mainly for tests.
	Now       func() time.Time
	SleepFunc func(time.Duration)
}

// LoopStats are the counters reported once per second.
type LoopStats struct {
	Frames int
	Ticks  int
}

// Loop is a fixed-timestep game loop. Elapsed real time is converted into
// whole ticks; each iteration runs every pending tick and then renders once
// if any tick ran, so the simulation rate does not depend on the render rate.
//
// Loop is driven either by Run, or by calling Step from an outer frame
// callback (see the Ebitengine driver in run.go). It is not safe for
// concurrent use except for Stop.
type Loop struct {
	tick   func() error
	render func()
	report func(LoopStats)

	tps        int
	nsPerTick  float64
	maxTicks   float64
	sleepFor   time.Duration
	now        func() time.Time
	sleep      func(time.Duration)
	started    bool
	last       time.Time
	lastReport time.Time

	unprocessed float64
	frames      int
	ticks       int

	stopped atomic.Bool
}

// NewLoop creates a loop calling tick once per simulation step and render
// once per iteration that ticked.
func NewLoop(cfg LoopConfig, tick func() error, render func()) *Loop {
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultTPS
	}
	if cfg.Sleep <= 0 {
		cfg.Sleep = DefaultSleep
	}
	if cfg.MaxBacklog <= 0 {
		cfg.MaxBacklog = DefaultMaxBacklog
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SleepFunc == nil {
		cfg.SleepFunc = time.Sleep
	}
	if tick == nil {
		tick = func() error { return nil }
	}
	if render == nil {
		render = func() {}
	}
	ns := float64(time.Second) / float64(cfg.TPS)
	return &Loop{
		tick:      tick,
		render:    render,
		tps:       cfg.TPS,
		nsPerTick: ns,
		maxTicks:  cfg.MaxBacklog.Seconds() * float64(cfg.TPS),
		sleepFor:  cfg.Sleep,
		now:       cfg.Now,
		sleep:     cfg.SleepFunc,
	}
}

// OnReport registers fn to receive the frame and tick counts once per
// second of loop time.
func (l *Loop) OnReport(fn func(LoopStats)) {
	l.report = fn
}

// TPS returns the target tick rate.
func (l *Loop) TPS() int { return l.tps }

// TickDuration returns the length of one tick.
func (l *Loop) TickDuration() time.Duration {
	return time.Duration(l.nsPerTick)
}

// Stop ends Run after the current iteration. Safe to call from any
// goroutine, including from inside the tick callback.
func (l *Loop) Stop() { l.stopped.Store(true) }

// Stopped reports whether Stop has been called or a tick failed.
func (l *Loop) Stopped() bool { return l.stopped.Load() }

// Step advances the loop to now. The first call only records the start
// time. It returns the number of ticks run and whether a render happened.
// A tick error stops the loop and is returned straight away.
func (l *Loop) Step(now time.Time) (ticks int, rendered bool, err error) {
	if !l.started {
		l.started = true
		l.last = now
		l.lastReport = now
		return 0, false, nil
	}

	l.unprocessed += float64(now.Sub(l.last)) / l.nsPerTick
	l.last = now
	if l.unprocessed > l.maxTicks {
		dropped := int(l.unprocessed - l.maxTicks)
		logger.Warn("skipping ticks, is the system overloaded?", "dropped", dropped)
		l.unprocessed = l.maxTicks
	}

	for l.unprocessed >= 1 && !l.stopped.Load() {
		l.unprocessed--
		if err := l.tick(); err != nil {
			l.stopped.Store(true)
			return ticks, false, err
		}
		ticks++
		l.ticks++
	}

	if ticks > 0 {
		l.render()
		l.frames++
		rendered = true
	}

	if now.Sub(l.lastReport) >= time.Second {
		l.lastReport = l.lastReport.Add(time.Second)
		if l.report != nil {
			l.report(LoopStats{Frames: l.frames, Ticks: l.ticks})
		}
		l.frames = 0
		l.ticks = 0
	}
	return ticks, rendered, nil
}

// Run steps the loop until Stop is called, a tick fails or ctx is done,
// sleeping briefly between iterations.
func (l *Loop) Run(ctx context.Context) error {
	for !l.stopped.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := l.Step(l.now()); err != nil {
			return err
		}
		l.sleep(l.sleepFor)
	}
	return nil
}
