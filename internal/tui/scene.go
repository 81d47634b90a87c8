package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/stimulus-ml/onboard/internal/engine"
	"github.com/stimulus-ml/onboard/internal/gateway"
	"github.com/stimulus-ml/onboard/internal/logging"
	"github.com/stimulus-ml/onboard/internal/script"
	"github.com/stimulus-ml/onboard/internal/tui/components"
	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

// sceneModel hosts one scene: the interpreter executing its script, the
// action menu for Terminal steps, and the command surface collecting
// shell output. The surface appears on the first Terminal step and
// stays mounted for the rest of the scene.
type sceneModel struct {
	name  string
	title string

	interp  *engine.Interpreter
	menu    components.ActionMenu
	surface components.CommandSurface
	styles  styles.Styles

	surfaceMounted bool
	choiceArmed    bool
	width          int

	// vp bounds the scene body to the terminal height and follows the
	// newest content, the way a terminal follows its prompt. Height 0
	// means no size is known yet and the body renders unbounded.
	vp       viewport.Model
	bodyRows int

	logger zerolog.Logger
}

func newSceneModel(sc *script.Scene, runner engine.CommandRunner, timing engine.Timing, styleSet styles.Styles) *sceneModel {
	return &sceneModel{
		name:    sc.Name,
		title:   sc.Title,
		interp:  engine.New(sc.Steps, runner, timing),
		menu:    components.NewActionMenu(styleSet),
		surface: components.NewCommandSurface(styleSet),
		styles:  styleSet,
		width:   80,
		vp:      viewport.New(80, 0),
		logger:  logging.Component("scene"),
	}
}

func (s *sceneModel) start() tea.Cmd {
	s.logger.Info().Str("scene", s.name).Msg("scene started")
	return s.interp.Start()
}

func (s *sceneModel) stop() {
	s.interp.Stop()
}

func (s *sceneModel) done() bool {
	return s.interp.Done()
}

func (s *sceneModel) setSize(width, height int) {
	s.width = width
	s.surface.SetWidth(width)
	s.vp.Width = width
	if height < 0 {
		height = 0
	}
	s.vp.Height = height
}

func (s *sceneModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m := msg.(type) {
	case tea.KeyMsg:
		cmd = s.handleKey(m)

	case components.ActionSelectedMsg:
		cmd = s.handleAction(m)

	case gateway.LineMsg:
		s.surface.AppendLine(m.Line, m.Stderr)
		cmd = m.Exec.Next()

	case gateway.DoneMsg:
		if m.Outcome != gateway.OutcomeOK {
			s.surface.Failed(m.Outcome.String())
		}
		cmd = s.interp.Update(msg)

	default:
		cmd = s.interp.Update(msg)
	}

	s.syncChoice()
	return cmd
}

// handleKey routes keys by interpreter state: during a command choice
// the arrow keys and enter drive the menu while everything else edits
// the command input; otherwise keys resolve key-wait suspensions.
func (s *sceneModel) handleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		s.vp, cmd = s.vp.Update(key)
		return cmd
	}

	if s.interp.Suspended() == engine.SuspendCommandChoice {
		switch key.String() {
		case "up", "down", "enter":
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(key)
			return cmd
		default:
			var cmd tea.Cmd
			s.surface, cmd = s.surface.Update(key)
			return cmd
		}
	}
	return s.interp.HandleKey(key.String())
}

func (s *sceneModel) handleAction(msg components.ActionSelectedMsg) tea.Cmd {
	switch msg.Action {
	case components.ActionRun:
		s.interp.SetCommand(strings.TrimSpace(s.surface.Value()))
		s.surface.DisableInput()
		s.surface.Echo(s.interp.PendingCommand())
		return s.interp.ChooseRun()
	case components.ActionSkip:
		s.surface.DisableInput()
		s.surface.Skipped()
		return s.interp.ChooseSkip()
	}
	return nil
}

// syncChoice mounts the surface and arms the menu when the interpreter
// reaches a command choice, and disarms them once the choice resolves.
func (s *sceneModel) syncChoice() {
	if s.interp.Suspended() == engine.SuspendCommandChoice {
		if !s.choiceArmed {
			s.choiceArmed = true
			s.surfaceMounted = true
			s.menu = components.NewActionMenu(s.styles)
			s.surface.SetCommand(s.interp.PendingCommand())
		}
		return
	}
	s.choiceArmed = false
}

// view renders the scene body inside the viewport, snapping to the
// bottom whenever the body changes so the continue hint and the action
// menu stay on screen no matter how long the scene is.
func (s *sceneModel) view() string {
	body := s.renderBody()
	if s.vp.Height <= 0 {
		return body
	}

	s.vp.SetContent(body)
	if rows := lipgloss.Height(body); rows != s.bodyRows {
		s.bodyRows = rows
		s.vp.GotoBottom()
	}
	return s.vp.View()
}

func (s *sceneModel) renderBody() string {
	var out strings.Builder

	for _, block := range s.interp.Buffer().Compose() {
		if block.Structured != nil {
			out.WriteString(s.renderStructured(block.Structured))
			continue
		}
		out.WriteString(RenderMarkup(block.Text, s.styles.Text))
	}

	if s.surfaceMounted {
		out.WriteString("\n\n")
		out.WriteString(s.surface.View())
		out.WriteRune('\n')
	}

	if s.choiceArmed {
		out.WriteRune('\n')
		out.WriteString(s.menu.View())
	}

	if hint := s.interp.Hint().View(); hint != "" {
		out.WriteString("\n\n")
		out.WriteString(RenderMarkup(hint, s.styles.Hint))
	}

	return out.String()
}

func (s *sceneModel) renderStructured(seg *engine.StructuredSegment) string {
	var out strings.Builder
	out.WriteRune('\n')
	if seg.Title != "" {
		out.WriteString(s.styles.CodeTitle.Render(seg.Title))
		out.WriteRune('\n')
	}
	width := s.width - 8
	if width < 20 {
		width = 20
	}
	code := highlightStructured(strings.TrimRight(seg.Content, "\n"), seg.Kind)
	out.WriteString(s.styles.CodeBlock.MaxWidth(width).Render(code))
	out.WriteRune('\n')
	return out.String()
}
