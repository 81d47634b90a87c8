// Package tui implements the onboarding player's terminal user
// interface: the scene host model and the markup renderer.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stimulus-ml/onboard/internal/engine"
	"github.com/stimulus-ml/onboard/internal/logging"
	"github.com/stimulus-ml/onboard/internal/script"
	"github.com/stimulus-ml/onboard/internal/tui/styles"
)

const (
	minWidth  = 60
	minHeight = 15
)

// ProgressRecorder records scene completions. The player works without
// one; completions are then simply not persisted.
type ProgressRecorder interface {
	MarkCompleted(ctx context.Context, scene, sessionID string) error
}

// Options configure a player run.
type Options struct {
	// Scenes are played in order. Required, non-empty.
	Scenes []*script.Scene

	// Runner executes Terminal-step commands. Nil disables execution
	// (Run behaves like Skip).
	Runner engine.CommandRunner

	// Timing overrides the engine intervals. Zero values fall back to
	// DefaultTiming.
	Timing engine.Timing

	// Progress, when set, records each completed scene.
	Progress ProgressRecorder

	// Theme selects the style palette. Empty means the default theme.
	Theme string
}

// Run plays the scenes in an alternate-screen Bubble Tea program and
// blocks until the user finishes or quits.
func Run(opts Options) error {
	if len(opts.Scenes) == 0 {
		return fmt.Errorf("no scenes to play")
	}
	program := tea.NewProgram(newAppModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type appModel struct {
	scenes []*script.Scene
	index  int
	scene  *sceneModel
	runner engine.CommandRunner
	timing engine.Timing
	styles styles.Styles

	progress  ProgressRecorder
	sessionID string

	width  int
	height int

	logger zerolog.Logger
}

func newAppModel(opts Options) appModel {
	timing := opts.Timing
	if timing.AnimationInterval <= 0 {
		timing = engine.DefaultTiming()
	}

	styleSet := styles.DefaultStyles()
	if opts.Theme != "" {
		styleSet = styles.BuildStyles(styles.ThemeByName(opts.Theme))
	}

	m := appModel{
		scenes:    opts.Scenes,
		runner:    opts.Runner,
		timing:    timing,
		styles:    styleSet,
		progress:  opts.Progress,
		sessionID: uuid.NewString(),
		logger:    logging.Component("tui"),
	}
	m.scene = newSceneModel(m.scenes[0], m.runner, m.timing, m.styles)
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.scene.start()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.scene.stop()
			return m, tea.Quit
		case "enter":
			if m.scene.done() {
				return m.nextScene()
			}
		}
		return m, m.scene.update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scene.setSize(msg.Width, m.bodyHeight())
		return m, nil
	}

	return m, m.scene.update(msg)
}

// nextScene records the completed scene and mounts the next one, or
// ends the session after the last.
func (m appModel) nextScene() (tea.Model, tea.Cmd) {
	if m.index >= len(m.scenes) {
		return m, tea.Quit
	}
	completed := m.scenes[m.index]
	m.recordCompletion(completed.Name)
	m.scene.stop()

	m.index++
	if m.index >= len(m.scenes) {
		m.logger.Info().Str("session_id", m.sessionID).Msg("all scenes completed")
		return m, tea.Quit
	}

	m.scene = newSceneModel(m.scenes[m.index], m.runner, m.timing, m.styles)
	if m.width > 0 {
		m.scene.setSize(m.width, m.bodyHeight())
	}
	return m, m.scene.start()
}

// chromeRows is the space View reserves around the scene body: the
// header with its blank line, and the completion and quit footers.
const chromeRows = 7

func (m appModel) bodyHeight() int {
	body := m.height - chromeRows
	if body < 3 {
		body = 3
	}
	return body
}

func (m appModel) recordCompletion(name string) {
	if m.progress == nil {
		return
	}
	if err := m.progress.MarkCompleted(context.Background(), name, m.sessionID); err != nil {
		m.logger.Warn().Err(err).Str("scene", name).Msg("failed to record scene completion")
	}
}

func (m appModel) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return m.smallView()
		}
	}

	// A final frame may render after the last scene was retired.
	index := m.index
	if index >= len(m.scenes) {
		index = len(m.scenes) - 1
	}

	var out strings.Builder

	scene := m.scenes[index]
	header := fmt.Sprintf("%s  (%d/%d)", scene.Title, index+1, len(m.scenes))
	out.WriteString(m.styles.Title.Render(header))
	out.WriteString("\n\n")

	out.WriteString(m.scene.view())

	if m.scene.done() {
		out.WriteString("\n\n")
		if m.index == len(m.scenes)-1 {
			out.WriteString(m.styles.Success.Render("All done! Press Enter ↵ to finish."))
		} else {
			out.WriteString(m.styles.Success.Render("Scene complete. Press Enter ↵ to continue."))
		}
	}

	out.WriteString("\n\n")
	out.WriteString(m.styles.Muted.Render("Press Esc to quit."))
	out.WriteRune('\n')

	return out.String()
}

func (m appModel) smallView() string {
	lines := []string{
		m.styles.Warning.Render(fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)),
		m.styles.Muted.Render(fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)),
		m.styles.Muted.Render("Press Esc to quit."),
	}
	return strings.Join(lines, "\n") + "\n"
}
