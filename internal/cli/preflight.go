package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// PreflightError describes an unmet launch requirement with a hint and
// the suggested next command.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// Detailed renders the error with its hint and next step for terminal
// output.
func (e *PreflightError) Detailed() string {
	var out strings.Builder
	out.WriteString("Error: " + e.Message)
	if e.Hint != "" {
		out.WriteString("\nHint: " + e.Hint)
	}
	if e.NextStep != "" {
		out.WriteString("\nNext: " + e.NextStep)
	}
	return out.String()
}

// IsNonInteractive reports whether the TUI must not be launched.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("ONBOARD_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
