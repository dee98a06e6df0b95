package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/term"
)

// Init installs the default go-ethereum logger writing to w.
// format is "terminal" (default), "json" or "logfmt".
func Init(w io.Writer, level, format string) log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		h = log.JSONHandlerWithLevel(w, lvl)
	case "logfmt":
		h = log.LogfmtHandlerWithLevel(w, lvl)
	default:
		h = log.NewTerminalHandlerWithLevel(w, lvl, useColor(w))
	}
	logger := log.NewLogger(h)
	log.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string onto a level, info when unknown.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
