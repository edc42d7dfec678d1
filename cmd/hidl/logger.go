package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"hidl/internal/driver"
)

// resolveLogger prints resolution events for --verbose.
type resolveLogger struct {
	logger *log.Logger
}

func newResolveLogger(w io.Writer, color bool) *resolveLogger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "hidl",
		Level:  log.DebugLevel,
	})
	if !color {
		logger.SetColorProfile(termenv.Ascii)
	}
	styles := log.DefaultStyles()
	styles.Keys["module"] = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	logger.SetStyles(styles)
	return &resolveLogger{logger: logger}
}

func (l *resolveLogger) Observe(ev driver.Event) {
	kv := []any{"module", ev.Name.String(), "depth", ev.Depth}
	if ev.Path != "" {
		kv = append(kv, "path", ev.Path)
	}
	switch ev.Status {
	case driver.StatusStarted:
		l.logger.Debug("resolving", kv...)
	case driver.StatusResolved:
		l.logger.Info("resolved", kv...)
	case driver.StatusCached:
		l.logger.Debug("cached", kv...)
	case driver.StatusCycle:
		l.logger.Warn("circular import", kv...)
	case driver.StatusFailed:
		l.logger.Error("failed", append(kv, "err", ev.Err)...)
	}
}
