package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// namedColors maps the color names allowed in inline markup.
var namedColors = map[string]string{
	"red":    "#F85149",
	"green":  "#3FB950",
	"yellow": "#D29922",
	"orange": "#FF8C00",
	"blue":   "#58A6FF",
	"grey":   "#8B9AAE",
	"gray":   "#8B9AAE",
}

// RenderMarkup converts inline [style] markup into ANSI-styled text.
// Tags nest ([bold [red]x[/]y[/]]); [/] closes the innermost open tag.
// A tag with an unknown token is emitted literally.
func RenderMarkup(text string, base lipgloss.Style) string {
	var out strings.Builder
	var run strings.Builder

	stack := []lipgloss.Style{base}

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(stack[len(stack)-1].Render(run.String()))
		run.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '[' {
			run.WriteRune(runes[i])
			continue
		}

		end := indexRune(runes, i+1, ']')
		if end == -1 {
			// unterminated tag; emit literally
			run.WriteString(string(runes[i:]))
			break
		}

		tag := string(runes[i+1 : end])
		if tag == "/" {
			flush()
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			i = end
			continue
		}

		style, ok := parseTag(tag, stack[len(stack)-1])
		if !ok {
			run.WriteString(string(runes[i : end+1]))
			i = end
			continue
		}

		flush()
		stack = append(stack, style)
		i = end
	}
	flush()

	return out.String()
}

func parseTag(tag string, base lipgloss.Style) (lipgloss.Style, bool) {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return base, false
	}

	style := base
	for _, field := range fields {
		switch {
		case field == "bold":
			style = style.Bold(true)
		case field == "italic":
			style = style.Italic(true)
		case field == "dim":
			style = style.Faint(true)
		case field == "underline":
			style = style.Underline(true)
		case strings.HasPrefix(field, "#"):
			style = style.Foreground(lipgloss.Color(field))
		default:
			hex, ok := namedColors[strings.ToLower(field)]
			if !ok {
				return base, false
			}
			style = style.Foreground(lipgloss.Color(hex))
		}
	}
	return style, true
}

func indexRune(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}
