package lightbringer

import (
	"math"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputEventKind identifies the kind of an InputEvent.
type InputEventKind uint8

const (
	InputKeyDown InputEventKind = iota
	InputKeyUp
	InputButtonDown
	InputButtonUp
	InputWheel
	InputFocusLost
)

// InputEvent is one input transition reported by an InputSource.
type InputEvent struct {
	Kind   InputEventKind
	Key    ebiten.Key
	Button MouseButton
	// X, Y is the cursor position for button and wheel events.
	X, Y int
	// Wheel is the scroll amount: negative is up, positive is down.
	Wheel int
}

// InputSource supplies input transitions. PollEvents appends every
// transition since the previous call to dst and must not block.
type InputSource interface {
	PollEvents(dst []InputEvent) []InputEvent
	CursorPosition() (x, y int)
}

// --- Keys ---

// Key is a named logical key bound to one or more key codes. It is pressed
// while any of its codes is held and stays clicked for one tick per press
// recorded since it was last read.
type Key struct {
	name      string
	codes     []ebiten.Key
	pressed   bool
	clicked   bool
	presses   int
	pressDone int
}

// Name returns the key's logical name.
func (k *Key) Name() string { return k.name }

// Pressed reports whether the key is held down.
func (k *Key) Pressed() bool { return k.pressed }

// Clicked reports whether the key has a press that has not been consumed
// by a tick yet.
func (k *Key) Clicked() bool { return k.clicked }

// Codes returns a copy of the bound key codes.
func (k *Key) Codes() []ebiten.Key { return slices.Clone(k.codes) }

// HasCode reports whether code is bound to the key.
func (k *Key) HasCode(code ebiten.Key) bool {
	return slices.Contains(k.codes, code)
}

// AddCode binds another key code.
func (k *Key) AddCode(code ebiten.Key) {
	if !k.HasCode(code) {
		k.codes = append(k.codes, code)
	}
}

// RemoveCode unbinds code.
func (k *Key) RemoveCode(code ebiten.Key) {
	k.codes = slices.DeleteFunc(k.codes, func(c ebiten.Key) bool { return c == code })
}

// SetCodes replaces all bound key codes.
func (k *Key) SetCodes(codes ...ebiten.Key) {
	k.codes = slices.Clone(codes)
}

func (k *Key) toggle(down bool) {
	k.pressed = down
	if down {
		k.clicked = true
		k.presses++
	}
}

func (k *Key) tick() {
	if k.clicked {
		k.pressDone++
		k.clicked = k.presses > k.pressDone
	}
}

// ParseKey looks up an Ebitengine key by name, ignoring case ("escape",
// "A", "ArrowLeft").
func ParseKey(name string) (ebiten.Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.ToLower(k.String()) == name {
			return k, true
		}
	}
	return 0, false
}

// --- Handler registry ---

// KeyToggleFunc is called when a subscribed key goes down or up. Returning
// keep=false unsubscribes it; consume=true stops the key itself from
// changing state.
type KeyToggleFunc func(down bool) (keep, consume bool)

type keyToggle struct {
	id   uint32
	keys []*Key
	fn   KeyToggleFunc
}

type wheelHandler struct {
	id uint32
	fn func(change int)
}

type handlerKind uint8

const (
	handlerKeyToggle handlerKind = iota
	handlerWheel
)

// CallbackHandle allows removing a registered input callback.
type CallbackHandle struct {
	id   uint32
	in   *Input
	kind handlerKind
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.in == nil {
		return
	}
	switch h.kind {
	case handlerKeyToggle:
		h.in.toggles = slices.DeleteFunc(h.in.toggles, func(t keyToggle) bool { return t.id == h.id })
	case handlerWheel:
		h.in.wheels = slices.DeleteFunc(h.in.wheels, func(w wheelHandler) bool { return w.id == h.id })
	}
}

// RemoveKeys stops a key-toggle callback from listening to keys. Once it
// has no keys left it is removed entirely.
func (h CallbackHandle) RemoveKeys(keys ...*Key) {
	if h.in == nil || h.kind != handlerKeyToggle {
		return
	}
	for i := range h.in.toggles {
		t := &h.in.toggles[i]
		if t.id != h.id {
			continue
		}
		t.keys = slices.DeleteFunc(t.keys, func(k *Key) bool { return slices.Contains(keys, k) })
		if len(t.keys) == 0 {
			h.Remove()
		}
		return
	}
}

// --- Input ---

// Input turns the transitions of an InputSource into polled key and mouse
// state. Poll is called once per tick before game logic and Tick once
// after it.
type Input struct {
	source InputSource

	keys    []*Key
	toggles []keyToggle
	wheels  []wheelHandler
	nextID  uint32

	buttonDown    [mouseButtonCount]bool
	buttonClicked [mouseButtonCount]bool
	x, y          int

	events      []InputEvent
	injectQueue []InputEvent
	scratch     []keyToggle
}

// NewInput creates an Input reading from source. A nil source never
// reports any input.
func NewInput(source InputSource) *Input {
	return &Input{source: source}
}

// NewKey registers a logical key bound to codes.
func (in *Input) NewKey(name string, codes ...ebiten.Key) *Key {
	k := &Key{name: name, codes: slices.Clone(codes)}
	in.keys = append(in.keys, k)
	return k
}

// Key returns the registered key with the given name, or nil.
func (in *Input) Key(name string) *Key {
	for _, k := range in.keys {
		if k.name == name {
			return k
		}
	}
	return nil
}

// Keys returns the registered keys in registration order.
func (in *Input) Keys() []*Key {
	return slices.Clone(in.keys)
}

// OnKeyToggle subscribes fn to state changes of any of keys. Subscribers
// run in registration order.
func (in *Input) OnKeyToggle(fn KeyToggleFunc, keys ...*Key) CallbackHandle {
	in.nextID++
	id := in.nextID
	in.toggles = append(in.toggles, keyToggle{id: id, keys: slices.Clone(keys), fn: fn})
	return CallbackHandle{id: id, in: in, kind: handlerKeyToggle}
}

// OnWheel subscribes fn to mouse wheel movement.
func (in *Input) OnWheel(fn func(change int)) CallbackHandle {
	in.nextID++
	id := in.nextID
	in.wheels = append(in.wheels, wheelHandler{id: id, fn: fn})
	return CallbackHandle{id: id, in: in, kind: handlerWheel}
}

// Poll drains the source, plus at most one injected event, and applies the
// transitions. Callbacks run synchronously from here.
func (in *Input) Poll() {
	if in.source != nil {
		in.events = in.source.PollEvents(in.events[:0])
		in.x, in.y = in.source.CursorPosition()
	} else {
		in.events = in.events[:0]
	}
	if len(in.injectQueue) > 0 {
		in.events = append(in.events, in.injectQueue[0])
		copy(in.injectQueue, in.injectQueue[1:])
		in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]
	}
	for _, ev := range in.events {
		in.apply(ev)
	}
}

func (in *Input) apply(ev InputEvent) {
	switch ev.Kind {
	case InputKeyDown:
		in.keyEvent(ev.Key, true)
	case InputKeyUp:
		in.keyEvent(ev.Key, false)
	case InputButtonDown:
		in.x, in.y = ev.X, ev.Y
		if ev.Button < mouseButtonCount {
			in.buttonDown[ev.Button] = true
			in.buttonClicked[ev.Button] = true
		}
	case InputButtonUp:
		in.x, in.y = ev.X, ev.Y
		if ev.Button < mouseButtonCount {
			in.buttonDown[ev.Button] = false
		}
	case InputWheel:
		in.x, in.y = ev.X, ev.Y
		for _, w := range slices.Clone(in.wheels) {
			w.fn(ev.Wheel)
		}
	case InputFocusLost:
		in.UnpressAll()
	}
}

// keyEvent offers the transition to every subscriber of each key bound to
// code. The key only changes state if no subscriber consumed it.
func (in *Input) keyEvent(code ebiten.Key, down bool) {
	for _, k := range in.keys {
		if !k.HasCode(code) {
			continue
		}
		consumed := false
		in.scratch = append(in.scratch[:0], in.toggles...)
		for _, t := range in.scratch {
			if !slices.Contains(t.keys, k) {
				continue
			}
			keep, consume := t.fn(down)
			if !keep {
				CallbackHandle{id: t.id, in: in, kind: handlerKeyToggle}.Remove()
			}
			consumed = consumed || consume
		}
		if !consumed {
			k.toggle(down)
		}
	}
	clear(in.scratch)
}

// Tick advances the clicked state of every key by one tick.
func (in *Input) Tick() {
	for _, k := range in.keys {
		k.tick()
	}
}

// UnpressAll releases every key, as when the window loses focus.
func (in *Input) UnpressAll() {
	for _, k := range in.keys {
		k.pressed = false
	}
	in.buttonDown = [mouseButtonCount]bool{}
}

// CursorPosition returns the last known cursor position.
func (in *Input) CursorPosition() (int, int) {
	return in.x, in.y
}

// MouseDown reports whether button b is held.
func (in *Input) MouseDown(b MouseButton) bool {
	return b < mouseButtonCount && in.buttonDown[b]
}

// MouseClicked reports whether b was pressed since the last call and
// clears the flag.
func (in *Input) MouseClicked(b MouseButton) bool {
	if b >= mouseButtonCount || !in.buttonClicked[b] {
		return false
	}
	in.buttonClicked[b] = false
	return true
}

// PeekMouseClicked is MouseClicked without clearing the flag.
func (in *Input) PeekMouseClicked(b MouseButton) bool {
	return b < mouseButtonCount && in.buttonClicked[b]
}

// --- Ebitengine source ---

// EbitenSource reads the keyboard and mouse through Ebitengine. Ebitengine
// exposes input per frame rather than as a stream, so the driver calls
// beginFrame once per Update and PollEvents hands out what it collected;
// extra ticks in the same frame see no repeated transitions.
type EbitenSource struct {
	pending []InputEvent
	keys    []ebiten.Key
	focused bool
}

// NewEbitenSource creates an InputSource backed by Ebitengine.
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{focused: true}
}

func (s *EbitenSource) beginFrame() {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		s.pending = append(s.pending, InputEvent{Kind: InputKeyDown, Key: k})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		s.pending = append(s.pending, InputEvent{Kind: InputKeyUp, Key: k})
	}

	x, y := ebiten.CursorPosition()
	for b := MouseButton(0); b < mouseButtonCount; b++ {
		eb := b.ebitenButton()
		if inpututil.IsMouseButtonJustPressed(eb) {
			s.pending = append(s.pending, InputEvent{Kind: InputButtonDown, Button: b, X: x, Y: y})
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			s.pending = append(s.pending, InputEvent{Kind: InputButtonUp, Button: b, X: x, Y: y})
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		// Ebitengine reports scrolling up as positive.
		change := -int(math.Round(dy))
		if change == 0 {
			change = -int(math.Copysign(1, dy))
		}
		s.pending = append(s.pending, InputEvent{Kind: InputWheel, X: x, Y: y, Wheel: change})
	}

	focused := ebiten.IsFocused()
	if s.focused && !focused {
		s.pending = append(s.pending, InputEvent{Kind: InputFocusLost})
	}
	s.focused = focused
}

// PollEvents implements InputSource.
func (s *EbitenSource) PollEvents(dst []InputEvent) []InputEvent {
	dst = append(dst, s.pending...)
	s.pending = s.pending[:0]
	return dst
}

// CursorPosition implements InputSource.
func (s *EbitenSource) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}
