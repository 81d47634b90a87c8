package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

// maxLogLines caps the surface scrollback.
const maxLogLines = 200

type logLine struct {
	text   string
	stderr bool
}

// CommandSurface shows a runnable command and its streamed output. One
// surface is reused across Terminal steps: the command text is replaced
// while the log is kept.
type CommandSurface struct {
	input  textinput.Model
	lines  []logLine
	styles styles.Styles
	width  int
}

// NewCommandSurface creates an idle surface.
func NewCommandSurface(styleSet styles.Styles) CommandSurface {
	input := textinput.New()
	input.Placeholder = "Type a command..."
	input.Prompt = "$ "

	s := CommandSurface{
		input:  input,
		styles: styleSet,
		width:  80,
	}
	s.appendStyled("$ Ready", false)
	return s
}

// SetCommand prefils the input with the next scripted command and
// re-enables it.
func (s *CommandSurface) SetCommand(command string) {
	s.input.SetValue(command)
	s.enabled(true)
}

// DisableInput locks the input while a command runs.
func (s *CommandSurface) DisableInput() {
	s.enabled(false)
}

func (s *CommandSurface) enabled(on bool) {
	if on {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
}

// Value returns the current input text.
func (s *CommandSurface) Value() string {
	return s.input.Value()
}

// SetWidth adjusts the rendered panel width.
func (s *CommandSurface) SetWidth(width int) {
	s.width = width
}

// Echo writes the command prompt line, as a shell would.
func (s *CommandSurface) Echo(command string) {
	s.appendStyled(s.styles.Prompt.Render("$ ")+command, false)
}

// AppendLine adds one streamed output line. Stderr lines are styled
// distinctly.
func (s *CommandSurface) AppendLine(text string, stderr bool) {
	s.appendStyled(text, stderr)
}

// Skipped notes that the user skipped the pending command.
func (s *CommandSurface) Skipped() {
	s.appendStyled(s.styles.Warning.Render("Skipping step..."), false)
}

// Failed notes a command outcome other than success.
func (s *CommandSurface) Failed(reason string) {
	s.appendStyled(s.styles.Error.Render("Error: "+reason), false)
}

func (s *CommandSurface) appendStyled(text string, stderr bool) {
	s.lines = append(s.lines, logLine{text: text, stderr: stderr})
	if len(s.lines) > maxLogLines {
		s.lines = s.lines[len(s.lines)-maxLogLines:]
	}
}

// Lines returns the current scrollback as plain strings.
func (s *CommandSurface) Lines() []string {
	out := make([]string, len(s.lines))
	for i, line := range s.lines {
		out[i] = line.text
	}
	return out
}

// Update forwards messages to the input field.
func (s CommandSurface) Update(msg tea.Msg) (CommandSurface, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the bordered surface: the log followed by the input.
func (s CommandSurface) View() string {
	var body strings.Builder
	for _, line := range s.lines {
		if line.stderr {
			body.WriteString(s.styles.StderrLine.Render(line.text))
		} else {
			body.WriteString(s.styles.StdoutLine.Render(line.text))
		}
		body.WriteRune('\n')
	}
	body.WriteString(s.input.View())

	width := s.width - 4
	if width < 20 {
		width = 20
	}
	return s.styles.Surface.Width(width).Render(body.String())
}
