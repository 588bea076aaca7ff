package lightbringer

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// SoundType is the mixing category of a sound. Each category has its own
// volume.
type SoundType uint8

const (
	SoundMusic SoundType = iota
	SoundEnvironment
	SoundSFX
	SoundVoice
	SoundMob

	soundTypeCount
)

// Volume bounds for SoundHandler.SetVolume.
const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = MaxVolume
)

// LoopForever makes PlayLoop repeat a sound until it is stopped.
const LoopForever = -1

// ErrInvalidLoop is returned for loop counts below LoopForever.
var ErrInvalidLoop = errors.New("lightbringer: invalid loop count")

var soundTypeNames = [soundTypeCount]string{"music", "environment", "sfx", "voice", "mob"}

var soundTypeOptions = [soundTypeCount]string{"musicVolume", "envVolume", "sfxVolume", "voiceVolume", "mobVolume"}

func (t SoundType) String() string {
	if t < soundTypeCount {
		return soundTypeNames[t]
	}
	return fmt.Sprintf("SoundType(%d)", uint8(t))
}

// OptionName is the settings key holding the category's volume.
func (t SoundType) OptionName() string {
	if t < soundTypeCount {
		return soundTypeOptions[t]
	}
	return ""
}

// SoundTypes returns every category in order.
func SoundTypes() []SoundType {
	return []SoundType{SoundMusic, SoundEnvironment, SoundSFX, SoundVoice, SoundMob}
}

// ParseSoundType accepts a category name or option name, ignoring case.
func ParseSoundType(s string) (SoundType, bool) {
	for t := SoundType(0); t < soundTypeCount; t++ {
		if strings.EqualFold(s, soundTypeNames[t]) || strings.EqualFold(s, soundTypeOptions[t]) {
			return t, true
		}
	}
	return 0, false
}

// SoundData is a decoded sound held in memory, with the category it plays
// in by default.
type SoundData struct {
	typ SoundType
	buf *beep.Buffer
}

// NewSoundData buffers all of s.
func NewSoundData(s beep.Streamer, format beep.Format, typ SoundType) *SoundData {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &SoundData{typ: typ, buf: buf}
}

// DecodeSound reads a WAV or MP3 file, chosen by the extension of name.
func DecodeSound(r io.Reader, name string, typ SoundType) (*SoundData, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".wav":
		s, format, err = wav.Decode(r)
	case ".mp3":
		s, format, err = mp3.Decode(io.NopCloser(r))
	default:
		return nil, fmt.Errorf("lightbringer: sound %q: unsupported format %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("lightbringer: decode sound %q: %w", name, err)
	}
	defer s.Close()
	data := NewSoundData(s, format, typ)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("lightbringer: decode sound %q: %w", name, err)
	}
	return data, nil
}

// Type returns the default category.
func (d *SoundData) Type() SoundType { return d.typ }

// Format returns the sample format.
func (d *SoundData) Format() beep.Format { return d.buf.Format() }

// Len returns the length in frames.
func (d *SoundData) Len() int { return d.buf.Len() }

// Duration returns the play time of one pass.
func (d *SoundData) Duration() time.Duration {
	return d.buf.Format().SampleRate.D(d.buf.Len())
}

// SoundHandler owns named sounds, per-category volumes and the clips that
// are playing. Clips are opened on a pool of three workers; Tick drops the
// finished ones. Close stops everything and waits for the workers.
type SoundHandler struct {
	pool *voicePool

	mu      sync.Mutex
	sounds  map[string]*SoundData
	clips   []*soundClip
	volumes [soundTypeCount]int
	closed  bool
}

// NewSoundHandler creates a handler playing on dev. With a nil device the
// handler keeps its bookkeeping but plays nothing.
func NewSoundHandler(dev AudioDevice) *SoundHandler {
	h := &SoundHandler{sounds: make(map[string]*SoundData)}
	for i := range h.volumes {
		h.volumes[i] = DefaultVolume
	}
	if dev != nil {
		h.pool = newVoicePool(dev, voiceWorkers, voiceQueueSize)
	} else {
		logger.Warn("no audio device, sounds are disabled")
	}
	return h
}

// AddSound registers data under name, replacing any previous sound.
func (h *SoundHandler) AddSound(name string, data *SoundData) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sounds[name]; ok {
		logger.Warn("sound overwritten", "name", name)
	}
	h.sounds[name] = data
}

// HasSound reports whether name is registered.
func (h *SoundHandler) HasSound(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sounds[name]
	return ok
}

// Sound returns the sound registered under name.
func (h *SoundHandler) Sound(name string) (*SoundData, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.sounds[name]
	return d, ok
}

// Play plays name once in its own category. Level sounds can be paused and
// stopped as a group.
func (h *SoundHandler) Play(name string, inLevel bool) {
	_ = h.PlayLoop(name, 0, inLevel)
}

// PlayLoop plays name and then repeats it times more, or forever with
// LoopForever.
func (h *SoundHandler) PlayLoop(name string, times int, inLevel bool) error {
	return h.play(name, nil, times, inLevel)
}

// PlayForceType plays name once in category typ instead of its own.
func (h *SoundHandler) PlayForceType(name string, typ SoundType, inLevel bool) {
	_ = h.PlayForceTypeLoop(name, typ, 0, inLevel)
}

// PlayForceTypeLoop is PlayLoop in category typ.
func (h *SoundHandler) PlayForceTypeLoop(name string, typ SoundType, times int, inLevel bool) error {
	return h.play(name, &typ, times, inLevel)
}

func (h *SoundHandler) play(name string, force *SoundType, times int, inLevel bool) error {
	if times < LoopForever {
		return fmt.Errorf("lightbringer: play %q %d times: %w", name, times, ErrInvalidLoop)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	data, ok := h.sounds[name]
	if !ok {
		logger.Warn("could not find sound", "name", name)
		return nil
	}
	if h.closed || h.pool == nil {
		return nil
	}
	typ := data.typ
	if force != nil {
		typ = *force
	}
	c := &soundClip{
		data:  data,
		typ:   typ,
		times: times,
		level: inLevel,
		gain:  volumeGain(h.volumes[typ]),
	}
	if !h.pool.submit(c) {
		logger.Warn("sound queue full, dropping sound", "name", name)
		return nil
	}
	h.clips = append(h.clips, c)
	return nil
}

// Tick drops clips that finished playing or failed to open.
func (h *SoundHandler) Tick() {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.clips[:0]
	for _, c := range h.clips {
		if c.done() {
			c.close()
			continue
		}
		kept = append(kept, c)
	}
	clear(h.clips[len(kept):])
	h.clips = kept
}

// ActiveClips returns the number of clips not yet dropped by Tick.
func (h *SoundHandler) ActiveClips() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clips)
}

// StopLevelSounds stops and drops every level clip.
func (h *SoundHandler) StopLevelSounds() {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.clips[:0]
	for _, c := range h.clips {
		if c.level {
			c.close()
			continue
		}
		kept = append(kept, c)
	}
	clear(h.clips[len(kept):])
	h.clips = kept
}

// PauseLevelSounds pauses every level clip in place.
func (h *SoundHandler) PauseLevelSounds() {
	h.eachLevel((*soundClip).pause)
}

// UnpauseLevelSounds resumes the level clips paused by PauseLevelSounds.
func (h *SoundHandler) UnpauseLevelSounds() {
	h.eachLevel((*soundClip).resume)
}

func (h *SoundHandler) eachLevel(fn func(*soundClip)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clips {
		if c.level {
			fn(c)
		}
	}
}

// SetVolume sets the volume of a category, clamped to [MinVolume,
// MaxVolume], and applies it to its playing clips.
func (h *SoundHandler) SetVolume(typ SoundType, volume int) {
	if typ >= soundTypeCount {
		return
	}
	volume = max(MinVolume, min(volume, MaxVolume))
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volumes[typ] = volume
	g := volumeGain(volume)
	for _, c := range h.clips {
		if c.typ == typ {
			c.setGain(g)
		}
	}
}

// Volume returns the volume of a category.
func (h *SoundHandler) Volume(typ SoundType) int {
	if typ >= soundTypeCount {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volumes[typ]
}

// Close stops every clip and waits for the voice workers to exit. Later
// calls to Play are ignored.
func (h *SoundHandler) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for _, c := range h.clips {
		c.close()
	}
	clear(h.clips)
	h.clips = nil
	h.mu.Unlock()

	if h.pool != nil {
		return h.pool.close()
	}
	return nil
}
