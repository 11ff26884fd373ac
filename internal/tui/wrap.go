package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/escalopa/quran-hifz/internal/summary"
	"github.com/escalopa/quran-hifz/internal/tokenizer"
)

// segment is a word with its trailing pause marks, already styled
type segment struct {
	s     string
	width int
}

func buildSegments(items []tokenizer.DisplayItem, style func(tokenizer.DisplayItem) string) []segment {
	var segs []segment
	for _, item := range items {
		if item.IsWord() || len(segs) == 0 {
			segs = append(segs, segment{})
		}
		seg := &segs[len(segs)-1]
		if seg.width > 0 {
			seg.s += " "
			seg.width++
		}
		seg.s += style(item)
		seg.width += runewidth.StringWidth(item.Raw)
	}
	return segs
}

// wrapSegments breaks segments into lines of at most width cells using the
// same greedy rule as the summary image.
func wrapSegments(segs []segment, width int) []string {
	widths := make([]float64, len(segs))
	for i, s := range segs {
		widths[i] = float64(s.width)
	}

	var lines []string
	for _, line := range summary.Wrap(widths, 1, float64(width)) {
		parts := make([]string, len(line))
		for i, idx := range line {
			parts[i] = segs[idx].s
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}
