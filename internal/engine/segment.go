// Package engine implements the script execution engine for onboarding
// scenes: the segment buffer, the reveal and gradient animations, and
// the step interpreter that drives them.
package engine

import (
	"strings"

	"github.com/stimulus-ml/onboard/internal/script"
)

// Segment is one unit of the display buffer. The set of implementations
// is closed.
type Segment interface {
	isSegment()
}

// TextSegment is a chunk of flowing text, possibly mid-reveal. Identity
// matters: animations hold the pointer to the segment they drive, so
// appends elsewhere never invalidate them.
type TextSegment struct {
	// VisibleLength is the number of revealed runes. Invariant:
	// 0 <= VisibleLength <= Len().
	VisibleLength int

	// Gradient marks the segment for continuous color cycling.
	Gradient bool

	// ColorPhase is the current gradient palette offset.
	ColorPhase int

	runes []rune
}

// NewTextSegment returns a fully visible text segment.
func NewTextSegment(content string) *TextSegment {
	runes := []rune(content)
	return &TextSegment{runes: runes, VisibleLength: len(runes)}
}

// NewHiddenTextSegment returns a text segment with nothing revealed,
// ready for the typing animation.
func NewHiddenTextSegment(content string) *TextSegment {
	return &TextSegment{runes: []rune(content)}
}

// NewGradientSegment returns a fully visible gradient-animated segment.
func NewGradientSegment(content string) *TextSegment {
	seg := NewTextSegment(content)
	seg.Gradient = true
	return seg
}

// Content returns the full raw content, markers and markup included.
func (s *TextSegment) Content() string {
	return string(s.runes)
}

// Len returns the content length in runes.
func (s *TextSegment) Len() int {
	return len(s.runes)
}

// FullyVisible reports whether every rune has been revealed.
func (s *TextSegment) FullyVisible() bool {
	return s.VisibleLength >= len(s.runes)
}

// VisibleText returns the revealed prefix of the raw content.
func (s *TextSegment) VisibleText() string {
	if s.VisibleLength >= len(s.runes) {
		return string(s.runes)
	}
	return string(s.runes[:s.VisibleLength])
}

// Render returns the segment's display markup: the revealed text with
// sentinel markers stripped and, for mid-reveal segments, any trailing
// incomplete style tag removed. Gradient segments are colored with
// their current phase.
func (s *TextSegment) Render() string {
	text := StripMarkers(s.VisibleText())
	if s.Gradient {
		return ApplyGradient(text, s.ColorPhase)
	}
	return FixIncompleteMarkup(text)
}

func (s *TextSegment) runeAt(i int) rune {
	return s.runes[i]
}

// consumePrefix advances VisibleLength past prefix if the unrevealed
// remainder starts with it.
func (s *TextSegment) consumePrefix(prefix []rune) bool {
	if len(prefix) == 0 || s.VisibleLength+len(prefix) > len(s.runes) {
		return false
	}
	for i, r := range prefix {
		if s.runes[s.VisibleLength+i] != r {
			return false
		}
	}
	s.VisibleLength += len(prefix)
	return true
}

// StructuredSegment is an opaque formatted block (YAML or code). It is
// always fully visible and never animated.
type StructuredSegment struct {
	Content string
	Kind    script.StructuredKind
	Title   string
}

func (*TextSegment) isSegment()       {}
func (*StructuredSegment) isSegment() {}

// Block is one renderable unit produced by Buffer.Compose: either a
// flowing text run (inline markup) or a structured block.
type Block struct {
	Text       string
	Structured *StructuredSegment
}

// Buffer is the ordered sequence of segments for one scene. It is
// append-only apart from Clear.
type Buffer struct {
	segments []Segment
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a segment at the end.
func (b *Buffer) Append(seg Segment) {
	b.segments = append(b.segments, seg)
}

// Clear removes every segment.
func (b *Buffer) Clear() {
	b.segments = nil
}

// Len returns the number of segments.
func (b *Buffer) Len() int {
	return len(b.segments)
}

// Segments returns the underlying segment slice in order.
func (b *Buffer) Segments() []Segment {
	return b.segments
}

// EnsureParagraphBreak appends a blank-line spacer when the buffer ends
// in a text segment, so appended paragraphs do not run together.
func (b *Buffer) EnsureParagraphBreak() {
	if len(b.segments) == 0 {
		return
	}
	if _, ok := b.segments[len(b.segments)-1].(*TextSegment); ok {
		b.Append(NewTextSegment("\n\n"))
	}
}

// EnsureTrailingBreak appends a spacer when the buffer ends in a text
// segment that does not already end with a line break.
func (b *Buffer) EnsureTrailingBreak() {
	if len(b.segments) == 0 {
		return
	}
	last, ok := b.segments[len(b.segments)-1].(*TextSegment)
	if !ok {
		return
	}
	if !strings.HasSuffix(last.Content(), "\n") {
		b.Append(NewTextSegment("\n\n"))
	}
}

// Compose produces the ordered renderable blocks: adjacent text
// segments are merged into one flowing run; a structured segment always
// breaks the run.
func (b *Buffer) Compose() []Block {
	var blocks []Block
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			blocks = append(blocks, Block{Text: run.String()})
			run.Reset()
		}
	}

	for _, seg := range b.segments {
		switch s := seg.(type) {
		case *TextSegment:
			run.WriteString(s.Render())
		case *StructuredSegment:
			flush()
			blocks = append(blocks, Block{Structured: s})
		}
	}
	flush()

	return blocks
}

// PlainText returns the revealed text of all text segments without any
// markup processing beyond marker stripping. Intended for tests and
// logging.
func (b *Buffer) PlainText() string {
	var out strings.Builder
	for _, seg := range b.segments {
		if s, ok := seg.(*TextSegment); ok {
			out.WriteString(StripMarkers(s.VisibleText()))
		}
	}
	return out.String()
}

// CycleGradients advances the color phase of every gradient segment and
// reports whether any segment changed.
func (b *Buffer) CycleGradients() bool {
	changed := false
	for _, seg := range b.segments {
		if s, ok := seg.(*TextSegment); ok && s.Gradient {
			s.ColorPhase = CyclePhase(s.ColorPhase)
			changed = true
		}
	}
	return changed
}
