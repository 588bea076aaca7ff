package lightbringer

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string `yaml:"action"`
	// Key is a logical key name, or an Ebitengine key name when no
	// logical key has that name.
	Key    string `yaml:"key,omitempty"`
	Button string `yaml:"button,omitempty"`
	Label  string `yaml:"label,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	Wheel  int    `yaml:"wheel,omitempty"`
	Ticks  int    `yaml:"ticks,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner plays a scripted sequence of injected input, waits and
// screenshots across ticks, for headless runs and automated checks. Attach
// it with Engine.SetScript.
//
//	steps:
//	  - {action: key, key: test}
//	  - {action: click, button: left, x: 150, y: 300}
//	  - {action: wait, ticks: 30}
//	  - {action: screenshot, label: after-click}
//	  - {action: stop}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("lightbringer: parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("lightbringer: parse script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "key", "click", "wheel", "wait", "screenshot", "stop":
		default:
			return nil, fmt.Errorf("lightbringer: parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "click" {
			if _, ok := parseMouseButton(st.Button); !ok {
				return nil, fmt.Errorf("lightbringer: parse script: step %d: unknown button %q", i, st.Button)
			}
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick. Called from Engine.tick before
// input is polled.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Let earlier injections drain before moving on.
	if e.Input.PendingInjected() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "key":
		if code, ok := r.keyCode(e.Input, st.Key); ok {
			e.Input.InjectKeyPress(code)
		} else {
			logger.Warn("script: unknown key", "key", st.Key)
		}
	case "click":
		b, _ := parseMouseButton(st.Button)
		e.Input.InjectClick(b, st.X, st.Y)
	case "wheel":
		e.Input.InjectWheel(st.Wheel, st.X, st.Y)
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	case "screenshot":
		e.Screenshot(st.Label)
	case "stop":
		e.Stop()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && e.Input.PendingInjected() == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) keyCode(in *Input, name string) (ebiten.Key, bool) {
	if k := in.Key(name); k != nil && len(k.codes) > 0 {
		return k.codes[0], true
	}
	return ParseKey(name)
}

// parseMouseButton maps "left", "right" and "middle" onto MouseButton.
// Empty means left.
func parseMouseButton(s string) (MouseButton, bool) {
	switch s {
	case "", "left":
		return MouseButtonLeft, true
	case "right":
		return MouseButtonRight, true
	case "middle":
		return MouseButtonMiddle, true
	}
	return 0, false
}
