package lightbringer

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/lightbringer.yaml
var defaultConfigYAML []byte

// ConfigFileName is the file LoadConfig looks for in the working directory.
const ConfigFileName = "lightbringer.yaml"

// RunConfig is the window, loop and input setup of a game.
type RunConfig struct {
	Title             string `yaml:"title"`
	Width             int    `yaml:"width"`
	Height            int    `yaml:"height"`
	TPS               int    `yaml:"tps"`
	SleepMillis       int    `yaml:"sleep_millis"`
	MaxBacklogSeconds int    `yaml:"max_backlog_seconds"`
	Debug             bool   `yaml:"debug"`
	// Background is a "#rrggbb" or "#rrggbbaa" clear color.
	Background string `yaml:"background"`
	// Manifest is the asset manifest path, relative to the asset root.
	Manifest string `yaml:"manifest"`
	// ScreenshotDir receives the PNGs written by Engine.Screenshot.
	ScreenshotDir string `yaml:"screenshot_dir"`

	// Volumes maps a sound category or its option name to 0..100.
	Volumes map[string]int `yaml:"volumes"`
	// Keys binds logical key names to Ebitengine key names.
	Keys map[string][]string `yaml:"keys"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() RunConfig {
	return RunConfig{
		Title:             "Lightbringer Beta",
		Width:             1024,
		Height:            640,
		TPS:               DefaultTPS,
		SleepMillis:       int(DefaultSleep / time.Millisecond),
		MaxBacklogSeconds: int(DefaultMaxBacklog / time.Second),
		Background:        "#ffffff",
		Manifest:          "assets/manifest.yaml",
		ScreenshotDir:     DefaultScreenshotDir,
		Keys: map[string][]string{
			"test": {"A", "Space"},
			"exit": {"Escape"},
		},
	}
}

// LoadConfig loads the run configuration.
// Search order: path -> ./lightbringer.yaml -> embedded default.
// An explicit path that cannot be read or parsed is an error.
func LoadConfig(path string) (RunConfig, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return RunConfig{}, fmt.Errorf("lightbringer: read config %s: %w", path, err)
		}
		return ParseConfig(data)
	}

	if data, err := os.ReadFile(ConfigFileName); err == nil {
		return ParseConfig(data)
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not read config, using defaults", "path", ConfigFileName, "err", err)
	}

	cfg, err := ParseConfig(defaultConfigYAML)
	if err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (RunConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("lightbringer: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c RunConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("lightbringer: config: window size %dx%d must be positive", c.Width, c.Height)
	case c.TPS <= 0:
		return fmt.Errorf("lightbringer: config: tps %d must be positive", c.TPS)
	case c.SleepMillis < 0:
		return fmt.Errorf("lightbringer: config: sleep_millis %d is negative", c.SleepMillis)
	case c.MaxBacklogSeconds <= 0:
		return fmt.Errorf("lightbringer: config: max_backlog_seconds %d must be positive", c.MaxBacklogSeconds)
	}
	if _, err := ParseColor(c.Background); c.Background != "" && err != nil {
		return fmt.Errorf("lightbringer: config: background: %w", err)
	}
	for name := range c.Volumes {
		if _, ok := ParseSoundType(name); !ok {
			return fmt.Errorf("lightbringer: config: unknown sound type %q", name)
		}
	}
	for name, codes := range c.Keys {
		for _, code := range codes {
			if _, ok := ParseKey(code); !ok {
				return fmt.Errorf("lightbringer: config: key %q: unknown key name %q", name, code)
			}
		}
	}
	return nil
}

// LoopConfig returns the loop timing part of the configuration.
func (c RunConfig) LoopConfig() LoopConfig {
	return LoopConfig{
		TPS:        c.TPS,
		Sleep:      time.Duration(c.SleepMillis) * time.Millisecond,
		MaxBacklog: time.Duration(c.MaxBacklogSeconds) * time.Second,
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
