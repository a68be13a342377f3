// Package logging configures the global slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the global slog logger with text output, as used by
// the CLI. If debug is true the level is Debug, otherwise Info. Output
// goes to w (os.Stderr when nil).
func Setup(debug bool, w io.Writer) {
	configure(debug, w, false)
}

// SetupJSON configures the global slog logger with JSON output, as used
// by the server.
func SetupJSON(debug bool, w io.Writer) {
	configure(debug, w, true)
}

func configure(debug bool, w io.Writer, jsonOutput bool) {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
