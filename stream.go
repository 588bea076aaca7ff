package lightbringer

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep"
)

const (
	// bytesPerFrame is one stereo frame of little-endian float32 samples.
	bytesPerFrame = 8
	maxReadFrames = 1024
)

// pcmStream adapts a beep.Streamer to the io.Reader of interleaved
// little-endian float32 stereo samples that an Ebitengine player consumes.
// It reports io.EOF once the streamer is drained or the stream is closed.
type pcmStream struct {
	mu      sync.Mutex
	src     beep.Streamer
	samples [][2]float64
	enc     []byte
	pending []byte
	done    bool
	err     error
}

func newPCMStream(src beep.Streamer) *pcmStream {
	return &pcmStream{
		src:     src,
		samples: make([][2]float64, maxReadFrames),
		enc:     make([]byte, maxReadFrames*bytesPerFrame),
	}
}

// Read implements io.Reader.
func (p *pcmStream) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for n < len(b) {
		if len(p.pending) > 0 {
			c := copy(b[n:], p.pending)
			p.pending = p.pending[c:]
			n += c
			continue
		}
		if p.done {
			break
		}
		frames := min(max((len(b)-n)/bytesPerFrame, 1), maxReadFrames)
		k, ok := p.src.Stream(p.samples[:frames])
		for i := 0; i < k; i++ {
			off := i * bytesPerFrame
			binary.LittleEndian.PutUint32(p.enc[off:], math.Float32bits(float32(p.samples[i][0])))
			binary.LittleEndian.PutUint32(p.enc[off+4:], math.Float32bits(float32(p.samples[i][1])))
		}
		p.pending = p.enc[:k*bytesPerFrame]
		if !ok {
			p.done = true
			p.err = p.src.Err()
		} else if k == 0 {
			break
		}
	}
	if n == 0 && p.done {
		return 0, io.EOF
	}
	return n, nil
}

// Close ends the stream; the next Read reports io.EOF.
func (p *pcmStream) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	p.pending = nil
	return nil
}

// Err returns the error the source streamer failed with, if any.
func (p *pcmStream) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
