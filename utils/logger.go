package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the package-wide structured logger. Components derive child
// loggers from it with Component.
var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.InfoLevel)
}

// Configure sets the level and output of Logger in place. An empty level
// falls back to BEM_LOG_LEVEL, then to "info". An unknown level name leaves
// the logger untouched and returns ErrConfiguration.
func Configure(level string, w io.Writer) error {
	if level == "" {
		level = os.Getenv("BEM_LOG_LEVEL")
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	Logger.SetOutput(w)
	Logger.SetLevel(lvl)
	return nil
}

// ParseLevel converts a level name, the empty name is info
func ParseLevel(level string) (log.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return lvl, nil
}

// Component returns a child logger tagged with the component name
func Component(name string) *log.Logger {
	return Logger.With("component", name)
}
