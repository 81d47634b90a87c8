package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/stimulus-ml/onboard/internal/script"
)

// syntaxStyle is the chroma style for structured blocks.
const syntaxStyle = "onedark"

// highlightStructured colorizes a structured block for the terminal.
// Content comes back unchanged when the kind has no lexer or the
// highlighter fails, so rendering never depends on it succeeding.
func highlightStructured(content string, kind script.StructuredKind) string {
	var lang string
	switch kind {
	case script.KindYAML:
		lang = "yaml"
	case script.KindCode:
		lang = "python"
	default:
		return content
	}

	var out strings.Builder
	if err := quick.Highlight(&out, content, lang, "terminal256", syntaxStyle); err != nil {
		return content
	}
	return strings.TrimRight(out.String(), "\n")
}
