// Package components provides reusable TUI components for the
// onboarding player.
package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

// Menu actions for scripted commands.
const (
	ActionRun  = "Run"
	ActionSkip = "Skip"
)

// ActionSelectedMsg is emitted once when the user confirms a choice.
type ActionSelectedMsg struct {
	Action string
}

// ActionMenu is a small navigable list of choices for a pending
// command. Navigation wraps; enter confirms.
type ActionMenu struct {
	options []string
	cursor  int
	styles  styles.Styles
}

// NewActionMenu returns a Run/Skip menu.
func NewActionMenu(styleSet styles.Styles) ActionMenu {
	return ActionMenu{
		options: []string{ActionRun, ActionSkip},
		styles:  styleSet,
	}
}

// Update handles navigation and confirmation keys.
func (m ActionMenu) Update(msg tea.Msg) (ActionMenu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(m.options)
	case "enter":
		action := m.options[m.cursor]
		return m, func() tea.Msg {
			return ActionSelectedMsg{Action: action}
		}
	}
	return m, nil
}

// View renders the option list with the cursor marked.
func (m ActionMenu) View() string {
	var out string
	for i, option := range m.options {
		if i == m.cursor {
			out += m.styles.Focus.Render("› "+option) + "\n"
		} else {
			out += m.styles.Muted.Render("  "+option) + "\n"
		}
	}
	return out
}
