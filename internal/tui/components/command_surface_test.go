package components

import (
	"strings"
	"testing"

	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

func TestCommandSurfaceSetCommandPrefillsInput(t *testing.T) {
	surface := NewCommandSurface(styles.DefaultStyles())

	surface.SetCommand("echo hi")
	if got := surface.Value(); got != "echo hi" {
		t.Errorf("input value = %q, want %q", got, "echo hi")
	}
	if !strings.Contains(surface.View(), "echo hi") {
		t.Error("pending command not rendered")
	}
}

func TestCommandSurfaceEchoAndOutput(t *testing.T) {
	surface := NewCommandSurface(styles.DefaultStyles())

	surface.Echo("ls -lh")
	surface.AppendLine("total 4", false)
	surface.AppendLine("permission denied", true)

	view := surface.View()
	for _, want := range []string{"ls -lh", "total 4", "permission denied"} {
		if !strings.Contains(view, want) {
			t.Errorf("missing %q in surface view", want)
		}
	}
}

func TestCommandSurfaceSkippedNotice(t *testing.T) {
	surface := NewCommandSurface(styles.DefaultStyles())
	surface.Skipped()
	if !strings.Contains(surface.View(), "Skipping step") {
		t.Error("skip notice missing from view")
	}
}

func TestCommandSurfaceScrollbackCap(t *testing.T) {
	surface := NewCommandSurface(styles.DefaultStyles())

	for i := 0; i < maxLogLines+50; i++ {
		surface.AppendLine("line", false)
	}
	if got := len(surface.Lines()); got != maxLogLines {
		t.Errorf("scrollback length = %d, want %d", got, maxLogLines)
	}
}

func TestCommandSurfaceLogSurvivesReuse(t *testing.T) {
	surface := NewCommandSurface(styles.DefaultStyles())

	surface.SetCommand("first")
	surface.Echo("first")
	surface.AppendLine("out1", false)
	surface.DisableInput()

	surface.SetCommand("second")

	if got := surface.Value(); got != "second" {
		t.Errorf("input value = %q, want %q", got, "second")
	}
	if !strings.Contains(surface.View(), "out1") {
		t.Error("earlier output lost when command was replaced")
	}
}
