package engine

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// The gradient palette is an orange ramp that rises and falls so the
// cycling animation has no visible seam.
var palette = buildPalette()

const paletteRampSteps = 6

func buildPalette() []string {
	start, _ := colorful.Hex("#ff6b00")
	end, _ := colorful.Hex("#ffbf00")

	ramp := make([]string, paletteRampSteps)
	for i := range ramp {
		t := float64(i) / float64(paletteRampSteps-1)
		ramp[i] = start.BlendLuv(end, t).Hex()
	}

	// mirror back down, excluding both endpoints
	out := ramp
	for i := paletteRampSteps - 2; i > 0; i-- {
		out = append(out, ramp[i])
	}
	return out
}

// PaletteSize returns the gradient palette length.
func PaletteSize() int {
	return len(palette)
}

// CyclePhase advances a gradient phase by one step, wrapping at the
// palette length.
func CyclePhase(phase int) int {
	return (phase + 1) % len(palette)
}

// ApplyGradient colors each rune of text with the cycling palette,
// offset by phase, producing inline markup.
func ApplyGradient(text string, phase int) string {
	var out strings.Builder
	i := 0
	for _, r := range text {
		if r == '\n' {
			out.WriteRune(r)
			continue
		}
		color := palette[(i+phase)%len(palette)]
		fmt.Fprintf(&out, "[bold %s]%c[/]", color, r)
		i++
	}
	return out.String()
}
