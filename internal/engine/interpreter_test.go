package engine

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/stimulus-ml/onboard/internal/content"
	"github.com/stimulus-ml/onboard/internal/gateway"
	"github.com/stimulus-ml/onboard/internal/script"
)

func fastTiming() Timing {
	return Timing{
		TypeInterval:      time.Millisecond,
		FastInterval:      time.Millisecond,
		NarrativePause:    time.Millisecond,
		AnimationInterval: time.Millisecond,
	}
}

// fakeRunner records commands and completes them with a fixed outcome.
type fakeRunner struct {
	commands []string
	outcome  gateway.Outcome
}

func (r *fakeRunner) Run(command string) tea.Cmd {
	r.commands = append(r.commands, command)
	outcome := r.outcome
	return func() tea.Msg {
		return gateway.DoneMsg{ID: "test", Outcome: outcome}
	}
}

// drainUntil feeds commands back into the interpreter until done
// reports true. Guards against scripts that never settle.
func drainUntil(t *testing.T, interp *Interpreter, cmd tea.Cmd, done func() bool) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; steps < 10000; steps++ {
		if done() {
			return
		}
		if len(queue) == 0 {
			t.Fatal("no pending commands but condition not met")
		}

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if follow := interp.Update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	t.Fatal("interpreter did not settle")
}

func TestDisplayStepsRunSynchronously(t *testing.T) {
	interp := New([]script.Step{
		script.Display{Content: "first"},
		script.Display{Content: "second"},
	}, nil, fastTiming())

	if cmd := interp.Advance(); cmd != nil {
		t.Fatal("display-only script should not schedule timers")
	}
	if !interp.Done() {
		t.Fatal("expected script to complete")
	}

	text := interp.Buffer().PlainText()
	if text != "first\n\nsecond" {
		t.Errorf("unexpected buffer text: %q", text)
	}
}

func TestDisplayClearResetsBuffer(t *testing.T) {
	interp := New([]script.Step{
		script.Display{Content: "old"},
		script.Display{Content: "new", Clear: true},
	}, nil, fastTiming())

	interp.Advance()

	if got := interp.Buffer().PlainText(); got != "new" {
		t.Errorf("expected cleared buffer with %q, got %q", "new", got)
	}
}

func TestTypeRevealsMonotonically(t *testing.T) {
	interp := New([]script.Step{
		script.Type{Content: "hello world"},
	}, nil, fastTiming())

	cmd := interp.Start()
	require.True(t, interp.Typing())

	prev := 0
	queue := []tea.Cmd{cmd}
	for interp.Typing() {
		require.NotEmpty(t, queue, "typing in flight but no pending command")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(ClockTickMsg); ok {
			// Frame ticks never reveal characters.
			interp.Update(msg)
			continue
		}
		if follow := interp.Update(msg); follow != nil {
			queue = append(queue, follow)
		}

		visible := len([]rune(interp.Buffer().PlainText()))
		require.GreaterOrEqual(t, visible, prev, "reveal went backwards")
		prev = visible
	}

	require.Equal(t, "hello world", interp.Buffer().PlainText())
	require.True(t, interp.Done())
}

func TestTypePausesAfterLineBreak(t *testing.T) {
	interp := New([]script.Step{
		script.Type{Content: "a\nb"},
	}, nil, fastTiming())

	drainUntil(t, interp, interp.Start(), interp.Done)

	if got := interp.Buffer().PlainText(); got != "a\nb" {
		t.Errorf("unexpected text after reveal: %q", got)
	}
}

func TestTypeConsumesBlockMarkers(t *testing.T) {
	body := "intro\n" + content.BlockStart + "\nkey: value\n" + content.BlockEnd + "\noutro"
	interp := New([]script.Step{
		script.Type{Content: body},
	}, nil, fastTiming())

	drainUntil(t, interp, interp.Start(), interp.Done)

	text := interp.Buffer().PlainText()
	if strings.Contains(text, content.BlockStart) || strings.Contains(text, content.BlockEnd) {
		t.Errorf("markers leaked into display text: %q", text)
	}
	if !strings.Contains(text, "key: value") {
		t.Errorf("block body missing from display text: %q", text)
	}
}

func TestWaitForInputSuspendsUntilKey(t *testing.T) {
	interp := New([]script.Step{
		script.Display{Content: "read this"},
		script.WaitForInput{Prompt: "Press Enter ↵ to continue", Key: "enter"},
		script.Display{Content: "after"},
	}, nil, fastTiming())

	interp.Advance()
	require.Equal(t, SuspendKey, interp.Suspended())
	require.Equal(t, "Press Enter ↵ to continue", interp.Hint().View())

	// Non-matching keys are inert.
	require.Nil(t, interp.HandleKey("x"))
	require.Equal(t, SuspendKey, interp.Suspended())

	interp.HandleKey("enter")
	require.True(t, interp.Done())
	require.Contains(t, interp.Buffer().PlainText(), "after")
	require.Equal(t, "", interp.Hint().View())
}

func TestWaitForInputDownKeyPulsesHint(t *testing.T) {
	interp := New([]script.Step{
		script.WaitForInput{Key: "down"},
	}, nil, fastTiming())

	interp.Advance()

	hint := interp.Hint()
	if !hint.Pulsing {
		t.Fatal("down-key wait should pulse the hint")
	}
	if view := hint.View(); !strings.Contains(view, "continue") {
		t.Errorf("unexpected hint view: %q", view)
	}
}

func TestTerminalRunInvokesGatewayOnce(t *testing.T) {
	runner := &fakeRunner{outcome: gateway.OutcomeOK}
	interp := New([]script.Step{
		script.Terminal{Command: "echo hi"},
		script.Display{Content: "done"},
	}, runner, fastTiming())

	interp.Advance()
	require.Equal(t, SuspendCommandChoice, interp.Suspended())
	require.Equal(t, "echo hi", interp.PendingCommand())
	require.Empty(t, runner.commands)

	cmd := interp.ChooseRun()
	require.Equal(t, []string{"echo hi"}, runner.commands)
	require.Equal(t, SuspendCommandCompletion, interp.Suspended())

	drainUntil(t, interp, cmd, interp.Done)
	require.Contains(t, interp.Buffer().PlainText(), "done")
}

func TestTerminalSkipNeverInvokesGateway(t *testing.T) {
	runner := &fakeRunner{outcome: gateway.OutcomeOK}
	interp := New([]script.Step{
		script.Terminal{Command: "rm -rf /tmp/thing"},
		script.Display{Content: "after"},
	}, runner, fastTiming())

	interp.Advance()
	interp.ChooseSkip()

	require.Empty(t, runner.commands)
	require.True(t, interp.Done())
	require.Contains(t, interp.Buffer().PlainText(), "after")
}

func TestTerminalAdvancesOnEveryOutcome(t *testing.T) {
	outcomes := []gateway.Outcome{
		gateway.OutcomeOK,
		gateway.OutcomeFailed,
		gateway.OutcomeTimedOut,
	}

	for _, outcome := range outcomes {
		t.Run(outcome.String(), func(t *testing.T) {
			runner := &fakeRunner{outcome: outcome}
			interp := New([]script.Step{
				script.Terminal{Command: "true"},
				script.Display{Content: "after"},
			}, runner, fastTiming())

			interp.Advance()
			cmd := interp.ChooseRun()
			drainUntil(t, interp, cmd, interp.Done)

			require.Contains(t, interp.Buffer().PlainText(), "after")
		})
	}
}

func TestChoicesOutsideSuspensionAreInert(t *testing.T) {
	runner := &fakeRunner{outcome: gateway.OutcomeOK}
	interp := New([]script.Step{
		script.Display{Content: "text"},
	}, runner, fastTiming())

	interp.Advance()

	require.Nil(t, interp.ChooseRun())
	require.Nil(t, interp.ChooseSkip())
	require.Empty(t, runner.commands)
}

func TestNilRunnerCompletesRunImmediately(t *testing.T) {
	interp := New([]script.Step{
		script.Terminal{Command: "echo hi"},
		script.Display{Content: "after"},
	}, nil, fastTiming())

	interp.Advance()
	interp.ChooseRun()

	require.True(t, interp.Done())
}

func TestStaleTicksAreIgnored(t *testing.T) {
	interp := New([]script.Step{
		script.Type{Content: "abc"},
	}, nil, fastTiming())

	interp.Start()
	before := interp.Buffer().PlainText()

	if cmd := interp.Update(TypeTickMsg{Gen: -1}); cmd != nil {
		t.Fatal("stale tick produced a command")
	}
	if got := interp.Buffer().PlainText(); got != before {
		t.Errorf("stale tick mutated buffer: %q -> %q", before, got)
	}
}

func TestStopInvalidatesOutstandingTimers(t *testing.T) {
	interp := New([]script.Step{
		script.Type{Content: "slow text"},
		script.Display{Content: "never"},
	}, nil, fastTiming())

	cmd := interp.Start()
	interp.Stop()

	before := interp.Buffer().PlainText()

	// Deliver everything that was in flight at Stop time.
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if follow := interp.Update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}

	require.Equal(t, before, interp.Buffer().PlainText())
	require.False(t, interp.Done(), "stopped script must not report completion via timer leaks")
	require.False(t, interp.Typing())
}

func TestTrailingWaitHoldsCompletion(t *testing.T) {
	interp := New([]script.Step{
		script.Display{Content: "closing"},
		script.Wait{Duration: time.Millisecond},
	}, nil, fastTiming())

	cmd := interp.Start()

	// The cursor is past the last step but the wait timer is still
	// armed; the scene must not report completion yet.
	require.False(t, interp.Done())

	drainUntil(t, interp, cmd, interp.Done)
	require.True(t, interp.Done())
}

func TestMixedScriptRunsToCompletion(t *testing.T) {
	interp := New([]script.Step{
		script.Type{Content: "Welcome to "},
		script.Gradient{Content: "STIMULUS"},
		script.Wait{Duration: time.Millisecond},
		script.Display{Content: "body text"},
		script.DisplayStructured{Content: "key: value", Kind: script.KindYAML, Title: "demo.yaml"},
		script.Display{Content: "tail"},
	}, nil, fastTiming())

	drainUntil(t, interp, interp.Start(), interp.Done)

	text := interp.Buffer().PlainText()
	require.Contains(t, text, "Welcome to ")
	require.Contains(t, text, "STIMULUS")
	require.Contains(t, text, "body text")
	require.Contains(t, text, "tail")

	blocks := interp.Buffer().Compose()
	var structured *StructuredSegment
	for _, block := range blocks {
		if block.Structured != nil {
			structured = block.Structured
		}
	}
	require.NotNil(t, structured)
	require.Equal(t, "demo.yaml", structured.Title)
}
