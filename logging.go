package supplegen

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger returns a logger writing to f: human-readable text when f is a
// terminal, JSON lines otherwise. verbose enables debug output.
func NewLogger(f *os.File, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	return slog.New(slog.NewJSONHandler(f, opts))
}
