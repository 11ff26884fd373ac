package summary

import "github.com/mattn/go-runewidth"

// Measurer reports the advance width of text at a font size in pixels.
type Measurer interface {
	Measure(text string, size float64) float64
}

// MonoMeasurer estimates widths from terminal cell widths. Combining marks
// take no space.
type MonoMeasurer struct {
	// Advance is the width of one cell as a fraction of the font size.
	Advance float64
}

func (m MonoMeasurer) Measure(text string, size float64) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = 0.5
	}
	return float64(runewidth.StringWidth(text)) * size * adv
}
