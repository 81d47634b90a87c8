package engine

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ClockTickMsg is one animation frame. Ticks from a stopped or
// superseded clock carry a stale generation and are ignored.
type ClockTickMsg struct {
	Gen int
}

// Clock is the single repeating tick source driving gradient color
// cycling and the continue-hint pulse. It runs at a fixed interval
// independent of typing speed and never advances the script.
type Clock struct {
	interval time.Duration
	gen      int
	running  bool
}

// NewClock returns a stopped clock with the given frame interval.
func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval}
}

// Start arms the clock and returns the first tick command. Starting an
// already running clock just re-arms it.
func (c *Clock) Start() tea.Cmd {
	c.gen++
	c.running = true
	return c.tick()
}

// Stop invalidates all outstanding ticks. Safe to call repeatedly and
// on a never-started clock.
func (c *Clock) Stop() {
	c.gen++
	c.running = false
}

// Running reports whether the clock is armed.
func (c *Clock) Running() bool {
	return c.running
}

// Advance processes one frame: gradient phases in the buffer and the
// hint pulse. It reports whether any animated element changed, and
// returns the re-arm command while the clock is running.
func (c *Clock) Advance(msg ClockTickMsg, buf *Buffer, hint *Hint) (bool, tea.Cmd) {
	if !c.running || msg.Gen != c.gen {
		return false, nil
	}

	changed := buf.CycleGradients()
	if hint != nil && hint.Pulsing {
		hint.Phase = CyclePhase(hint.Phase)
		changed = true
	}

	return changed, c.tick()
}

func (c *Clock) tick() tea.Cmd {
	gen := c.gen
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return ClockTickMsg{Gen: gen}
	})
}

// Hint is the navigation hint line under the scene text. In pulsing
// mode it renders an animated down arrow instead of static prompt text.
type Hint struct {
	Text    string
	Pulsing bool
	Phase   int
}

// View returns the hint's inline markup.
func (h *Hint) View() string {
	if h.Pulsing {
		return "press " + ApplyGradient("↓", h.Phase) + " to continue"
	}
	return h.Text
}

// Clear resets the hint to its empty, non-pulsing state.
func (h *Hint) Clear() {
	h.Text = ""
	h.Pulsing = false
	h.Phase = 0
}
