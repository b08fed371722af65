// Package logging wires the structured debug log and the coloured status
// lines printed by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
)

// Setup installs the default slog logger writing text records to w.
// Debug records are only emitted when debug is true.
func Setup(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// Success prints a "✓" status line.
func Success(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warn prints a "⚠" status line.
func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠ Warning: %s\n", fmt.Sprintf(format, args...))
}

// Fail prints a "✗" status line.
func Fail(w io.Writer, format string, args ...any) {
	failColor.Fprintf(w, "✗ Error: %s\n", fmt.Sprintf(format, args...))
}
