// Package script defines the declarative step language for onboarding
// scenes, decoupling scene content from the execution engine.
package script

import "time"

// Defaults applied when a step omits optional fields.
const (
	DefaultTypeSpeed = 50 * time.Millisecond
	DefaultPrompt    = "Press Enter ↵ to continue"
	DefaultKey       = "enter"
)

// Step is one declarative instruction in a scene script. The set of
// implementations is closed; the interpreter dispatches on the concrete
// type with an exhaustive switch.
type Step interface {
	isStep()
}

// Display reveals text instantly. Clear empties the buffer first
// instead of appending.
type Display struct {
	Content string
	Clear   bool
}

// Type reveals text one character at a time. Speed is the interval per
// revealed character; zero means DefaultTypeSpeed.
type Type struct {
	Content string
	Speed   time.Duration
}

// Gradient reveals text instantly with a continuously cycling color
// animation.
type Gradient struct {
	Content string
}

// StructuredKind identifies the formatting of a structured block.
type StructuredKind string

// Supported structured-content kinds.
const (
	KindYAML StructuredKind = "yaml"
	KindCode StructuredKind = "code"
)

// DisplayStructured reveals a formatted block (YAML or source code) as
// its own boxed unit. Structured blocks are never typed character by
// character.
type DisplayStructured struct {
	Content string
	Kind    StructuredKind
	Title   string
}

// Terminal asks the user to run (or skip) a shell command.
type Terminal struct {
	Command string
}

// Wait pauses script execution for a fixed duration.
type Wait struct {
	Duration time.Duration
}

// WaitForInput blocks the script until a specific key is pressed. An
// empty Key means DefaultKey; an empty Prompt means DefaultPrompt.
type WaitForInput struct {
	Prompt string
	Key    string
}

func (Display) isStep()           {}
func (Type) isStep()              {}
func (Gradient) isStep()          {}
func (DisplayStructured) isStep() {}
func (Terminal) isStep()          {}
func (Wait) isStep()              {}
func (WaitForInput) isStep()      {}
