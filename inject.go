package lightbringer

import "github.com/hajimehoshi/ebiten/v2"

// Inject queues a synthetic input event. Queued events are applied one per
// Poll, after the source's own events, so a press and its release land on
// different ticks.
func (in *Input) Inject(ev InputEvent) {
	in.injectQueue = append(in.injectQueue, ev)
}

// InjectKeyPress queues a key down followed by a key up for code. Consumes
// two ticks.
func (in *Input) InjectKeyPress(code ebiten.Key) {
	in.Inject(InputEvent{Kind: InputKeyDown, Key: code})
	in.Inject(InputEvent{Kind: InputKeyUp, Key: code})
}

// InjectClick queues a press and release of button b at (x, y). Consumes
// two ticks.
func (in *Input) InjectClick(b MouseButton, x, y int) {
	in.Inject(InputEvent{Kind: InputButtonDown, Button: b, X: x, Y: y})
	in.Inject(InputEvent{Kind: InputButtonUp, Button: b, X: x, Y: y})
}

// InjectWheel queues a wheel movement at (x, y).
func (in *Input) InjectWheel(change, x, y int) {
	in.Inject(InputEvent{Kind: InputWheel, Wheel: change, X: x, Y: y})
}

// PendingInjected returns the number of queued synthetic events.
func (in *Input) PendingInjected() int {
	return len(in.injectQueue)
}
