package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme      Theme
	Title      lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Focus      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Prompt     lipgloss.Style
	Hint       lipgloss.Style
	CodeBlock  lipgloss.Style
	CodeTitle  lipgloss.Style
	Surface    lipgloss.Style
	StderrLine lipgloss.Style
	StdoutLine lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:      theme,
		Title:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Focus:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus)).Bold(true),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Prompt)).Bold(true),
		Hint:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)).Italic(true),
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Border)).Padding(0, 1),
		CodeTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)).Bold(true),
		Surface:    lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(tokens.Accent)).Padding(0, 1),
		StderrLine: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		StdoutLine: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
	}
}
