// Package ui provides colored status output for the CLI.
// All output goes to stderr, leaving stdout for data.
package ui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	// ColorAuto detects terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// UI writes status messages with optional color.
type UI struct {
	out *termenv.Output
}

// New creates a UI with the given color mode, respecting the NO_COLOR
// environment variable.
func New(mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}

	profile := termenv.ColorProfile()
	switch mode {
	case ColorNever:
		profile = termenv.Ascii
	case ColorAlways:
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
	}

	return &UI{
		out: termenv.NewOutput(os.Stderr, termenv.WithProfile(profile)),
	}
}

// Success prints a green checkmarked message.
func (u *UI) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("✓ "+msg).Foreground(termenv.ANSIGreen))
}

// Error prints a red cross-marked message.
func (u *UI) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("✗ "+msg).Foreground(termenv.ANSIRed))
}

// Warn prints a yellow warning message.
func (u *UI) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("! "+msg).Foreground(termenv.ANSIYellow))
}

// Info prints an uncolored informational message.
func (u *UI) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(u.out, format+"\n", args...)
}
