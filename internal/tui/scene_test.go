package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/stimulus-ml/onboard/internal/engine"
	"github.com/stimulus-ml/onboard/internal/gateway"
	"github.com/stimulus-ml/onboard/internal/script"
	"github.com/stimulus-ml/onboard/internal/tui/components"
	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

func testTiming() engine.Timing {
	return engine.Timing{
		TypeInterval:      time.Millisecond,
		FastInterval:      time.Millisecond,
		NarrativePause:    time.Millisecond,
		AnimationInterval: time.Millisecond,
	}
}

// pump feeds messages back into the scene until settled reports true.
func pump(t *testing.T, scene *sceneModel, cmd tea.Cmd, settled func() bool) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; steps < 10000; steps++ {
		if settled() {
			return
		}
		require.NotEmpty(t, queue, "scene stuck before settling")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if follow := scene.update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	t.Fatal("scene did not settle")
}

func terminalScene(runner engine.CommandRunner) *sceneModel {
	sc := &script.Scene{
		Name:  "test",
		Title: "Test",
		Steps: []script.Step{
			script.Display{Content: "run this:"},
			script.Terminal{Command: "echo out; echo err 1>&2"},
			script.Display{Content: "all done"},
			script.WaitForInput{},
		},
	}
	return newSceneModel(sc, runner, testTiming(), styles.DefaultStyles())
}

func TestSceneRunStreamsCommandOutput(t *testing.T) {
	runner := gateway.NewRunner(5*time.Second, 5*time.Second)
	scene := terminalScene(runner)

	choice := func() bool { return scene.interp.Suspended() == engine.SuspendCommandChoice }
	pump(t, scene, scene.start(), choice)

	require.Equal(t, "echo out; echo err 1>&2", scene.surface.Value())
	require.True(t, scene.choiceArmed)

	cmd := scene.update(components.ActionSelectedMsg{Action: components.ActionRun})
	keyWait := func() bool { return scene.interp.Suspended() == engine.SuspendKey }
	pump(t, scene, cmd, keyWait)

	view := scene.view()
	require.Contains(t, view, "out")
	require.Contains(t, view, "err")
	require.Contains(t, view, "all done")

	scene.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, scene.done())
}

func TestSceneSkipAdvancesWithoutRunning(t *testing.T) {
	scene := terminalScene(nil)

	choice := func() bool { return scene.interp.Suspended() == engine.SuspendCommandChoice }
	pump(t, scene, scene.start(), choice)

	cmd := scene.update(components.ActionSelectedMsg{Action: components.ActionSkip})
	keyWait := func() bool { return scene.interp.Suspended() == engine.SuspendKey }
	pump(t, scene, cmd, keyWait)

	view := scene.view()
	require.Contains(t, view, "Skipping step")
	require.Contains(t, view, "all done")
	require.False(t, scene.choiceArmed)
}

func TestSceneMenuKeysDoNotLeakToInterpreter(t *testing.T) {
	scene := terminalScene(nil)

	choice := func() bool { return scene.interp.Suspended() == engine.SuspendCommandChoice }
	pump(t, scene, scene.start(), choice)

	// Typing into the surface edits the command instead of resolving
	// any key wait.
	scene.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Equal(t, engine.SuspendCommandChoice, scene.interp.Suspended())
	require.True(t, strings.HasSuffix(scene.surface.Value(), "x"))
}

func TestSceneStructuredBlockRendering(t *testing.T) {
	sc := &script.Scene{
		Name:  "blocks",
		Title: "Blocks",
		Steps: []script.Step{
			script.Display{Content: "see:"},
			script.DisplayStructured{Content: "key: value", Kind: script.KindYAML, Title: "demo.yaml"},
		},
	}
	scene := newSceneModel(sc, nil, testTiming(), styles.DefaultStyles())
	pump(t, scene, scene.start(), scene.done)

	view := scene.view()
	require.Contains(t, view, "demo.yaml")
	// Highlighting interleaves color codes, so match the tokens.
	require.Contains(t, view, "key")
	require.Contains(t, view, "value")
}

func TestSceneViewportFollowsTallContent(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&body, "line %d\n", i)
	}
	sc := &script.Scene{
		Name:  "tall",
		Title: "Tall",
		Steps: []script.Step{
			script.Display{Content: body.String()},
			script.WaitForInput{Prompt: "press enter to continue"},
		},
	}
	scene := newSceneModel(sc, nil, testTiming(), styles.DefaultStyles())
	pump(t, scene, scene.start(), func() bool {
		return scene.interp.Suspended() == engine.SuspendKey
	})

	scene.setSize(80, 10)
	view := scene.view()

	// The body exceeds the viewport, so the frame is height-bounded
	// and scrolled to the newest content: the prompt stays visible
	// while the opening lines scroll off.
	require.LessOrEqual(t, lipgloss.Height(view), 10)
	require.Contains(t, view, "line 59")
	require.Contains(t, view, "press enter to continue")
	require.NotContains(t, view, "line 0")
}
