// lightbringer runs the Lightbringer demo scene: a rotating test sprite,
// a text label and a clickable box.
//
// Usage:
//
//	lightbringer                         - Open the demo window
//	lightbringer --headless --for 5s     - Run the loop without a window
//	lightbringer --script run.yaml       - Drive the demo with scripted input
//
// Flags:
//
//	--config <path>   - Run configuration (default: ./lightbringer.yaml, then built-in)
//	--assets <dir>    - Directory the asset manifest is resolved against (default: .)
//	--tps <rate>      - Override the tick rate
//	--debug           - Log per-second fps/tick reports and draw the overlay
//	--script <path>   - YAML input script (headless runs play a built-in one)
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/lightbringer"
)

// audioSampleRate is the rate of the shared audio context.
const audioSampleRate = 44100

// headlessScript presses the test key, clicks the box twice and quits.
const headlessScript = `
steps:
  - {action: wait, ticks: 30}
  - {action: key, key: test}
  - {action: click, x: 150, y: 300}
  - {action: wait, ticks: 30}
  - {action: click, x: 150, y: 300}
  - {action: wait, ticks: 30}
  - {action: key, key: exit}
`

var (
	flagConfig   string
	flagAssets   string
	flagTPS      int
	flagDebug    bool
	flagHeadless bool
	flagFor      time.Duration
	flagScript   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lightbringer",
	Short: "Lightbringer - a small 2D game skeleton",
	Long: `Lightbringer opens a window running the demo scene.

Controls:
  A / Space     rotate the sprite left
  Left click    inside the red box rotates it right
  Escape        quit`,
	SilenceUsage: true,
	RunE:         runDemo,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to the run configuration")
	rootCmd.Flags().StringVar(&flagAssets, "assets", ".", "Asset root directory")
	rootCmd.Flags().IntVar(&flagTPS, "tps", 0, "Tick rate override (0 = from config)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and overlay")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a window")
	rootCmd.Flags().DurationVar(&flagFor, "for", 5*time.Second, "How long a headless run lasts")
	rootCmd.Flags().StringVar(&flagScript, "script", "", "Input script to play")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := lightbringer.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagTPS > 0 {
		cfg.TPS = flagTPS
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flagDebug
	}

	opts := lightbringer.Options{Assets: os.DirFS(flagAssets)}
	if flagHeadless {
		opts.Source = noInput{}
	} else {
		opts.Audio = lightbringer.NewEbitenAudio(audioSampleRate)
	}

	e, err := lightbringer.NewEngine(cfg, opts)
	if err != nil {
		return err
	}
	game := newDemo()

	script, err := loadScript()
	if err != nil {
		return errors.Join(err, e.Close())
	}
	e.SetScript(script)

	if !flagHeadless {
		return lightbringer.Run(e, game)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagFor)
	defer cancel()
	err = e.RunHeadless(ctx, game)
	if errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	lightbringer.Logger().Info("headless run finished", "ticks", e.Ticks(), "angle", game.angle)
	return err
}

// loadScript reads --script, falling back to the built-in script for
// headless runs.
func loadScript() (*lightbringer.ScriptRunner, error) {
	switch {
	case flagScript != "":
		data, err := os.ReadFile(flagScript)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return lightbringer.LoadScript(data)
	case flagHeadless:
		return lightbringer.LoadScript([]byte(headlessScript))
	}
	return nil, nil
}

// noInput is an InputSource that never reports anything. Headless runs
// drive the demo through injected events instead.
type noInput struct{}

func (noInput) PollEvents(dst []lightbringer.InputEvent) []lightbringer.InputEvent { return dst }
func (noInput) CursorPosition() (int, int)                                          { return 0, 0 }
