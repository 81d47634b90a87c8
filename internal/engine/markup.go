package engine

import (
	"strings"

	"github.com/stimulus-ml/onboard/internal/content"
)

// StripMarkers removes the structured-preview sentinel markers inserted
// by the content loader. Idempotent.
func StripMarkers(text string) string {
	text = strings.ReplaceAll(text, content.BlockStart, "")
	return strings.ReplaceAll(text, content.BlockEnd, "")
}

// FixIncompleteMarkup removes a trailing unterminated inline style tag.
// When text is revealed character by character, a tag like [bold] may
// be cut off mid-tag; truncating at the dangling bracket keeps the
// output well formed. Fully balanced text is returned unchanged, so the
// function is idempotent.
func FixIncompleteMarkup(text string) string {
	for strings.Count(text, "[") > strings.Count(text, "]") {
		last := strings.LastIndex(text, "[")
		if last == -1 {
			break
		}
		text = text[:last]
	}
	return text
}

// Clean applies both display cleanups in order.
func Clean(text string) string {
	return FixIncompleteMarkup(StripMarkers(text))
}
