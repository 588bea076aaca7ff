package lightbringer

import (
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"golang.org/x/sync/errgroup"
)

// Voice pool sizing.
const (
	voiceWorkers   = 3
	voiceQueueSize = 256
)

// AudioDevice opens playback voices.
type AudioDevice interface {
	// SampleRate is the rate voices are played at; sounds recorded at
	// another rate are resampled.
	SampleRate() int
	// NewVoice opens a paused voice reading float32 stereo PCM from src.
	NewVoice(src io.Reader) (Voice, error)
}

// Voice is one playing stream on an AudioDevice.
type Voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
}

// EbitenAudio is an AudioDevice backed by an Ebitengine audio context.
type EbitenAudio struct {
	ctx *audio.Context
}

// NewEbitenAudio returns a device on the process's audio context, creating
// it at sampleRate if none exists yet.
func NewEbitenAudio(sampleRate int) *EbitenAudio {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &EbitenAudio{ctx: ctx}
}

// SampleRate implements AudioDevice.
func (d *EbitenAudio) SampleRate() int {
	return d.ctx.SampleRate()
}

// NewVoice implements AudioDevice.
func (d *EbitenAudio) NewVoice(src io.Reader) (Voice, error) {
	p, err := d.ctx.NewPlayerF32(src)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// volumeGain maps a 0..100 volume onto a 0..1 gain on a log curve: 10 and
// below are silent, 100 is full.
func volumeGain(volume int) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Max(0, math.Log10(float64(volume))-1)
}

// soundClip is one playback of a SoundData. It is created on the tick
// goroutine and opened on a pool worker; the mutex covers the hand-over.
type soundClip struct {
	data  *SoundData
	typ   SoundType
	times int
	level bool

	mu     sync.Mutex
	voice  Voice
	stream *pcmStream
	gain   float64
	inited bool
	failed bool
	paused bool
	closed bool
}

// open builds the stream for the requested loop count, resampled to the
// device rate, and starts a voice on it unless the clip was paused or
// closed while it waited in the queue.
func (c *soundClip) open(dev AudioDevice) {
	c.mu.Lock()
	if c.closed || c.inited {
		c.mu.Unlock()
		return
	}
	var s beep.Streamer
	seeker := c.data.buf.Streamer(0, c.data.buf.Len())
	switch {
	case c.times == LoopForever:
		s = beep.Loop(-1, seeker)
	case c.times > 0:
		s = beep.Loop(c.times+1, seeker)
	default:
		s = seeker
	}
	c.mu.Unlock()

	if from, to := c.data.buf.Format().SampleRate, beep.SampleRate(dev.SampleRate()); from != to {
		s = beep.Resample(4, from, to, s)
	}

	// The device call runs unlocked so a hung device only blocks this
	// worker.
	stream := newPCMStream(s)
	v, err := dev.NewVoice(stream)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		logger.Error("could not open voice", "type", c.typ, "err", err)
		c.failed = true
		return
	}
	c.voice = v
	c.stream = stream
	c.inited = true
	v.SetVolume(c.gain)
	if c.closed {
		stream.Close()
		return
	}
	if !c.paused {
		v.Play()
	}
}

func (c *soundClip) setGain(g float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gain = g
	if c.inited {
		c.voice.SetVolume(g)
	}
}

func (c *soundClip) pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	if c.inited && c.voice.IsPlaying() {
		c.voice.Pause()
	}
}

func (c *soundClip) resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	if c.inited && !c.closed && !c.voice.IsPlaying() {
		c.voice.Play()
	}
}

func (c *soundClip) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.inited {
		c.voice.Pause()
		c.stream.Close()
	}
}

// done reports whether the clip can be dropped: it failed to open, was
// closed, or finished playing. Paused clips are kept.
func (c *soundClip) done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed || c.closed {
		return true
	}
	return c.inited && !c.paused && !c.voice.IsPlaying()
}

// voicePool opens clips on a fixed set of workers so a slow device never
// stalls the tick goroutine.
type voicePool struct {
	dev  AudioDevice
	jobs chan *soundClip
	g    errgroup.Group

	mu     sync.RWMutex
	closed bool
}

func newVoicePool(dev AudioDevice, workers, queue int) *voicePool {
	p := &voicePool{dev: dev, jobs: make(chan *soundClip, queue)}
	for range workers {
		p.g.Go(func() error {
			for c := range p.jobs {
				c.open(p.dev)
			}
			return nil
		})
	}
	return p
}

// submit queues c without blocking. It reports false when the queue is
// full or the pool is closed.
func (p *voicePool) submit(c *soundClip) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- c:
		return true
	default:
		return false
	}
}

// close stops accepting work and waits for the workers to drain the queue.
func (p *voicePool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	return p.g.Wait()
}
