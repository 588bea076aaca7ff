package lightbringer

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// constStreamer yields n stereo frames of (l, r).
type constStreamer struct {
	n    int
	l, r float64
	err  error
}

func (s *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.n == 0 {
		return 0, false
	}
	k := min(len(samples), s.n)
	for i := range k {
		samples[i] = [2]float64{s.l, s.r}
	}
	s.n -= k
	return k, true
}

func (s *constStreamer) Err() error { return s.err }

func TestPCMStreamReadAll(t *testing.T) {
	const frames = 3000
	p := newPCMStream(&constStreamer{n: frames, l: 0.25, r: -0.5})

	b, err := io.ReadAll(p)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(b) != frames*bytesPerFrame {
		t.Fatalf("len = %d, want %d", len(b), frames*bytesPerFrame)
	}
	for _, off := range []int{0, 8 * 1500, len(b) - 8} {
		l := math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:]))
		if l != 0.25 || r != -0.5 {
			t.Errorf("frame at %d = (%v, %v), want (0.25, -0.5)", off, l, r)
		}
	}
	if n, err := p.Read(make([]byte, 16)); n != 0 || err != io.EOF {
		t.Errorf("Read after drain = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestPCMStreamSmallReads(t *testing.T) {
	const frames = 10
	p := newPCMStream(&constStreamer{n: frames, l: 1, r: 1})

	total := 0
	buf := make([]byte, 3)
	for {
		n, err := p.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if total != frames*bytesPerFrame {
		t.Errorf("read %d bytes, want %d", total, frames*bytesPerFrame)
	}
}

func TestPCMStreamClose(t *testing.T) {
	p := newPCMStream(&constStreamer{n: 100})
	if _, err := p.Read(make([]byte, 4)); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if n, err := p.Read(make([]byte, 64)); n != 0 || err != io.EOF {
		t.Errorf("Read after Close = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestPCMStreamSourceError(t *testing.T) {
	boom := errors.New("boom")
	p := newPCMStream(&constStreamer{err: boom})
	if _, err := io.ReadAll(p); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(p.Err(), boom) {
		t.Errorf("Err() = %v, want boom", p.Err())
	}
}
