package engine

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/stimulus-ml/onboard/internal/content"
	"github.com/stimulus-ml/onboard/internal/gateway"
	"github.com/stimulus-ml/onboard/internal/logging"
	"github.com/stimulus-ml/onboard/internal/script"
)

// Suspension identifies why the interpreter has stopped and what event
// resumes it. At most one suspension is active at a time.
type Suspension int

const (
	SuspendNone Suspension = iota
	SuspendKey
	SuspendCommandChoice
	SuspendCommandCompletion
)

// Timing groups the engine's fixed intervals.
type Timing struct {
	// TypeInterval is the per-rune reveal interval for Type steps that
	// do not set their own speed.
	TypeInterval time.Duration

	// FastInterval is the per-rune reveal interval inside a
	// structured-preview block.
	FastInterval time.Duration

	// NarrativePause is the reveal pause after a line break.
	NarrativePause time.Duration

	// AnimationInterval is the gradient/hint frame interval.
	AnimationInterval time.Duration
}

// DefaultTiming returns the standard intervals.
func DefaultTiming() Timing {
	return Timing{
		TypeInterval:      script.DefaultTypeSpeed,
		FastInterval:      8 * time.Millisecond,
		NarrativePause:    800 * time.Millisecond,
		AnimationInterval: 80 * time.Millisecond,
	}
}

// CommandRunner starts a shell command on behalf of a Terminal step.
// The returned command eventually yields gateway messages, ending in a
// gateway.DoneMsg.
type CommandRunner interface {
	Run(command string) tea.Cmd
}

// TypeTickMsg reveals one rune of the segment being typed.
type TypeTickMsg struct {
	Gen int
}

// TypeResumeMsg restarts per-rune ticking after a narrative pause.
type TypeResumeMsg struct {
	Gen int
}

// WaitDoneMsg fires when a Wait step's timer elapses.
type WaitDoneMsg struct {
	Gen int
}

// typingState tracks the one reveal animation that may be in flight.
// It holds the segment pointer, not an index, so buffer appends never
// redirect the animation.
type typingState struct {
	seg   *TextSegment
	speed time.Duration
	fast  bool
}

var (
	blockStartRunes = []rune(content.BlockStart)
	blockEndRunes   = []rune(content.BlockEnd)
)

// Interpreter executes a scene script step by step. All state mutation
// happens on the Bubble Tea update loop; timers are generation-tagged
// tick messages, so a stale timer is a detectable no-op and Stop leaves
// no live callbacks behind.
type Interpreter struct {
	steps  []script.Step
	cursor int

	buf   *Buffer
	clock *Clock
	hint  Hint

	suspension  Suspension
	expectedKey string

	pendingCommand string
	runner         CommandRunner

	typing      *typingState
	typeGen     int
	waitGen     int
	waitPending bool

	timing  Timing
	stopped bool
	logger  zerolog.Logger
}

// New creates an interpreter over a fixed script. runner may be nil, in
// which case Run choices complete immediately (useful in tests and
// dry runs).
func New(steps []script.Step, runner CommandRunner, timing Timing) *Interpreter {
	return &Interpreter{
		steps:  steps,
		buf:    NewBuffer(),
		clock:  NewClock(timing.AnimationInterval),
		runner: runner,
		timing: timing,
		logger: logging.Component("engine"),
	}
}

// Start arms the animation clock and begins script execution.
func (i *Interpreter) Start() tea.Cmd {
	return tea.Batch(i.clock.Start(), i.Advance())
}

// Stop invalidates every outstanding timer. After Stop no message can
// mutate the buffer or advance the script. Idempotent.
func (i *Interpreter) Stop() {
	i.stopped = true
	i.typing = nil
	i.typeGen++
	i.waitGen++
	i.waitPending = false
	i.clock.Stop()
	i.hint.Clear()
}

// Buffer exposes the display buffer for rendering.
func (i *Interpreter) Buffer() *Buffer {
	return i.buf
}

// Hint exposes the navigation hint for rendering.
func (i *Interpreter) Hint() *Hint {
	return &i.hint
}

// Suspended returns the active suspension reason.
func (i *Interpreter) Suspended() Suspension {
	return i.suspension
}

// PendingCommand returns the command awaiting a Run/Skip choice, or the
// command last handed to the gateway while it runs.
func (i *Interpreter) PendingCommand() string {
	return i.pendingCommand
}

// Typing reports whether a reveal animation is in flight.
func (i *Interpreter) Typing() bool {
	return i.typing != nil
}

// Done reports whether the script has run to completion and nothing is
// pending.
func (i *Interpreter) Done() bool {
	return i.cursor >= len(i.steps) && i.suspension == SuspendNone && i.typing == nil && !i.waitPending
}

// Advance consumes steps until one suspends execution. Calling it after
// the script has completed is a no-op.
func (i *Interpreter) Advance() tea.Cmd {
	for {
		if i.stopped || i.suspension != SuspendNone || i.typing != nil {
			return nil
		}
		if i.cursor >= len(i.steps) {
			return nil
		}

		step := i.steps[i.cursor]
		i.cursor++

		// Exhaustive over the sealed step set; no default arm so a new
		// variant fails loudly in review rather than silently skipping.
		switch s := step.(type) {
		case script.Display:
			i.handleDisplay(s)
		case script.Gradient:
			i.buf.Append(NewGradientSegment(s.Content))
		case script.DisplayStructured:
			i.buf.Append(&StructuredSegment{Content: s.Content, Kind: s.Kind, Title: s.Title})
		case script.Type:
			return i.beginType(s)
		case script.Terminal:
			i.beginTerminal(s)
			return nil
		case script.Wait:
			return i.beginWait(s)
		case script.WaitForInput:
			i.beginWaitForInput(s)
			return nil
		}
	}
}

// Update routes the engine's timer and gateway messages. Unknown
// messages are ignored.
func (i *Interpreter) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case TypeTickMsg:
		return i.onTypeTick(m)
	case TypeResumeMsg:
		return i.onTypeResume(m)
	case WaitDoneMsg:
		return i.onWaitDone(m)
	case ClockTickMsg:
		_, cmd := i.clock.Advance(m, i.buf, &i.hint)
		return cmd
	case gateway.DoneMsg:
		return i.CommandCompleted(m)
	}
	return nil
}

// HandleKey resolves an AwaitingKey suspension. Non-matching keys and
// keys arriving in any other state are inert.
func (i *Interpreter) HandleKey(key string) tea.Cmd {
	if i.stopped || i.suspension != SuspendKey || key != i.expectedKey {
		return nil
	}
	i.suspension = SuspendNone
	i.expectedKey = ""
	i.hint.Clear()
	return i.Advance()
}

// SetCommand replaces the pending command before the Run/Skip choice is
// confirmed, so the user may edit the scripted command. Ignored outside
// a command choice and for blank input.
func (i *Interpreter) SetCommand(command string) {
	if i.suspension != SuspendCommandChoice || strings.TrimSpace(command) == "" {
		return
	}
	i.pendingCommand = command
}

// ChooseRun handles the menu's Run choice: the command is handed to the
// gateway and the script stays suspended until completion. Ignored
// unless a command choice is pending.
func (i *Interpreter) ChooseRun() tea.Cmd {
	if i.stopped || i.suspension != SuspendCommandChoice {
		return nil
	}
	i.hint.Clear()

	if i.runner == nil {
		i.suspension = SuspendNone
		return i.Advance()
	}

	i.suspension = SuspendCommandCompletion
	i.logger.Info().Str("command", i.pendingCommand).Msg("running scripted command")
	return i.runner.Run(i.pendingCommand)
}

// ChooseSkip handles the menu's Skip choice: the gateway is never
// invoked and the script advances immediately.
func (i *Interpreter) ChooseSkip() tea.Cmd {
	if i.stopped || i.suspension != SuspendCommandChoice {
		return nil
	}
	i.logger.Info().Str("command", i.pendingCommand).Msg("scripted command skipped")
	i.suspension = SuspendNone
	i.pendingCommand = ""
	i.hint.Clear()
	return i.Advance()
}

// CommandCompleted resumes the script after the gateway reports any
// terminal outcome. Success, failure, and timeout all advance; a
// completion arriving in any other state is ignored.
func (i *Interpreter) CommandCompleted(msg gateway.DoneMsg) tea.Cmd {
	if i.stopped || i.suspension != SuspendCommandCompletion {
		return nil
	}
	i.logger.Info().
		Str("execution_id", msg.ID).
		Str("outcome", msg.Outcome.String()).
		Msg("scripted command completed")
	i.suspension = SuspendNone
	i.pendingCommand = ""
	return i.Advance()
}

func (i *Interpreter) handleDisplay(s script.Display) {
	if s.Clear {
		i.buf.Clear()
	} else {
		i.buf.EnsureParagraphBreak()
	}
	i.buf.Append(NewTextSegment(s.Content))
}

func (i *Interpreter) beginType(s script.Type) tea.Cmd {
	i.buf.EnsureParagraphBreak()
	seg := NewHiddenTextSegment(s.Content)
	i.buf.Append(seg)

	speed := s.Speed
	if speed <= 0 {
		speed = i.timing.TypeInterval
	}
	if speed <= 0 {
		speed = script.DefaultTypeSpeed
	}

	i.typeGen++
	i.typing = &typingState{seg: seg, speed: speed}
	return i.typeTick()
}

func (i *Interpreter) beginTerminal(s script.Terminal) {
	i.buf.EnsureTrailingBreak()
	i.pendingCommand = s.Command
	i.suspension = SuspendCommandChoice
	i.hint.Text = "Select an option to continue"
}

func (i *Interpreter) beginWait(s script.Wait) tea.Cmd {
	i.waitGen++
	i.waitPending = true
	gen := i.waitGen
	return tea.Tick(s.Duration, func(time.Time) tea.Msg {
		return WaitDoneMsg{Gen: gen}
	})
}

func (i *Interpreter) beginWaitForInput(s script.WaitForInput) {
	key := s.Key
	if key == "" {
		key = script.DefaultKey
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = script.DefaultPrompt
	}

	i.suspension = SuspendKey
	i.expectedKey = key

	if key == "down" {
		i.hint.Text = ""
		i.hint.Pulsing = true
	} else {
		i.hint.Text = prompt
		i.hint.Pulsing = false
	}
}

func (i *Interpreter) onTypeTick(m TypeTickMsg) tea.Cmd {
	t := i.typing
	if i.stopped || t == nil || m.Gen != i.typeGen {
		return nil
	}

	// Consume sentinel markers at the cursor: they flip the fast
	// region and are never revealed as characters.
	for {
		if t.seg.consumePrefix(blockStartRunes) {
			t.fast = true
			continue
		}
		if t.seg.consumePrefix(blockEndRunes) {
			t.fast = false
			continue
		}
		break
	}

	if t.seg.FullyVisible() {
		i.finishTyping()
		return i.Advance()
	}

	t.seg.VisibleLength++

	if t.seg.FullyVisible() {
		i.finishTyping()
		return i.Advance()
	}

	// A revealed line break pauses the reveal for narrative effect,
	// except on consecutive blank lines and inside fast regions.
	idx := t.seg.VisibleLength - 1
	if !t.fast && idx > 0 && t.seg.runeAt(idx) == '\n' && t.seg.runeAt(idx-1) != '\n' {
		gen := i.typeGen
		return tea.Tick(i.timing.NarrativePause, func(time.Time) tea.Msg {
			return TypeResumeMsg{Gen: gen}
		})
	}

	return i.typeTick()
}

func (i *Interpreter) onTypeResume(m TypeResumeMsg) tea.Cmd {
	if i.stopped || i.typing == nil || m.Gen != i.typeGen {
		return nil
	}
	return i.typeTick()
}

func (i *Interpreter) onWaitDone(m WaitDoneMsg) tea.Cmd {
	if i.stopped || m.Gen != i.waitGen {
		return nil
	}
	i.waitGen++
	i.waitPending = false
	return i.Advance()
}

func (i *Interpreter) typeTick() tea.Cmd {
	interval := i.typing.speed
	if i.typing.fast {
		interval = i.timing.FastInterval
	}
	gen := i.typeGen
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TypeTickMsg{Gen: gen}
	})
}

func (i *Interpreter) finishTyping() {
	i.typing = nil
	i.typeGen++
}
