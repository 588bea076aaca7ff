package lightbringer

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is shared by every component of the package. The engine is
// single-threaded apart from the sound workers, and charmbracelet/log is
// safe for concurrent use.
var logger = newLogger()

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lightbringer",
	})
}

// Logger returns the logger used for asset warnings, overload reports and
// audio faults.
func Logger() *log.Logger {
	return logger
}

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger = l
}

// SetDebug toggles debug-level output (per-second fps/tick reports).
func SetDebug(enabled bool) {
	if enabled {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.InfoLevel)
}
