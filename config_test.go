package lightbringer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 640 || cfg.TPS != DefaultTPS {
		t.Errorf("defaults = %dx%d @ %d", cfg.Width, cfg.Height, cfg.TPS)
	}
	lc := cfg.LoopConfig()
	if lc.TPS != DefaultTPS || lc.Sleep != DefaultSleep || lc.MaxBacklog != DefaultMaxBacklog {
		t.Errorf("LoopConfig() = %+v", lc)
	}
}

func TestEmbeddedDefaultMatchesDefaultConfig(t *testing.T) {
	cfg, err := ParseConfig(defaultConfigYAML)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Title != want.Title || cfg.Width != want.Width || cfg.TPS != want.TPS || cfg.ScreenshotDir != want.ScreenshotDir {
		t.Errorf("embedded default = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Keys, want.Keys) {
		t.Errorf("Keys = %v, want %v", cfg.Keys, want.Keys)
	}
	if len(cfg.Volumes) != int(soundTypeCount) {
		t.Errorf("Volumes = %v", cfg.Volumes)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
title: Test
tps: 30
sleep_millis: 0
background: "#102030"
volumes:
  musicVolume: 40
keys:
  jump: [W, ArrowUp]
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Title != "Test" || cfg.TPS != 30 || cfg.SleepMillis != 0 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Width != 1024 {
		t.Errorf("Width = %d, want the default 1024", cfg.Width)
	}
	if cfg.Volumes["musicVolume"] != 40 {
		t.Errorf("Volumes = %v", cfg.Volumes)
	}
	if want := []string{"W", "ArrowUp"}; !reflect.DeepEqual(cfg.Keys["jump"], want) {
		t.Errorf("Keys[jump] = %v, want %v", cfg.Keys["jump"], want)
	}
	if cfg.LoopConfig().Sleep != 0 {
		t.Error("sleep_millis 0 should mean no sleep")
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"syntax", "width: [", "parse config"},
		{"width", "width: 0", "window size"},
		{"tps", "tps: -1", "tps"},
		{"sleep", "sleep_millis: -2", "sleep_millis"},
		{"backlog", "max_backlog_seconds: 0", "max_backlog_seconds"},
		{"background", `background: "#12"`, "background"},
		{"volume", "volumes: {drums: 10}", "unknown sound type"},
		{"key", "keys: {jump: [NotAKey]}", "unknown key name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ffffff", ColorWhite, false},
		{"#000000", ColorBlack, false},
		{"#ff000080", RGBA(255, 0, 0, 128), false},
		{" 00ff00 ", RGBA(0, 255, 0, 255), false},
		{"#fff", Color{}, true},
		{"#gggggg", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("title: From File\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != "From File" {
		t.Errorf("Title = %q", cfg.Title)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestLoadConfigSearchOrder(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != DefaultConfig().Title {
		t.Errorf("Title = %q, want the embedded default", cfg.Title)
	}

	if err := os.WriteFile(ConfigFileName, []byte("tps: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TPS != 25 {
		t.Errorf("TPS = %d, want 25 from ./%s", cfg.TPS, ConfigFileName)
	}
	if cfg.LoopConfig().MaxBacklog != 5*time.Second {
		t.Errorf("MaxBacklog = %v", cfg.LoopConfig().MaxBacklog)
	}
}
