package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestStatusLines(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	Success(&buf, "wrote %d charts", 3)
	Warn(&buf, "column %q is empty", "gname")
	Fail(&buf, "boom")
	want := "✓ wrote 3 charts\n⚠ Warning: column \"gname\" is empty\n✗ Error: boom\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestSetupLevels(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup(&buf, false)
	slog.Debug("hidden")
	slog.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}

	buf.Reset()
	Setup(&buf, true)
	slog.Debug("visible", "rows", 4)
	if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "rows=4") {
		t.Fatalf("debug record missing: %q", buf.String())
	}
}
