// Package summary lays out and renders the shareable image of a concluded
// memorization session.
package summary

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/bidi"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/scoring"
	"github.com/escalopa/quran-hifz/internal/tokenizer"
)

type PrimitiveKind int

const (
	TextRun PrimitiveKind = iota
	FilledRect
)

type Rect struct {
	X, Y, W, H float64
}

// Primitive is a single draw operation. For a TextRun, Rect.X is the left edge
// of the run, Rect.Y its baseline and Rect.W its measured width.
type Primitive struct {
	Kind  PrimitiveKind
	Rect  Rect
	Text  string
	Size  float64
	Color color.NRGBA
	RTL   bool
}

// Document is a laid out summary ready for rasterization
type Document struct {
	Width      int
	Height     int
	Background color.NRGBA
	Primitives []Primitive
}

// Texts returns the text runs in draw order.
func (d Document) Texts() []Primitive {
	return lo.Filter(d.Primitives, func(p Primitive, _ int) bool { return p.Kind == TextRun })
}

// Highlights returns the filled rectangles in draw order.
func (d Document) Highlights() []Primitive {
	return lo.Filter(d.Primitives, func(p Primitive, _ int) bool { return p.Kind == FilledRect })
}

type layouter struct {
	cfg   Config
	theme Theme
	m     Measurer
	y     float64
	prims []Primitive
}

// Layout computes the summary document for stats over verses. Verses without
// mistakes are omitted from the review section; mistakes pointing outside the
// verse list or at a preamble are ignored.
func Layout(stats domain.MemorizationStats, verses []domain.Ayah, cfg Config, theme Theme, m Measurer) Document {
	l := &layouter{cfg: cfg, theme: theme, m: m, y: cfg.Padding}
	result := scoring.Score(stats.TotalWords, stats.ForgotCount, stats.TajwidCount)

	l.header(verses)
	l.scoreBlock(stats, result)

	byVerse := MistakesByVerse(stats.Mistakes, verses)
	if len(byVerse) > 0 {
		l.divider()
		l.centered(cfg.Labels.Review, cfg.HeadingSize, theme.Foreground)
		l.y += cfg.HeadingSize * 0.5

		indices := lo.Keys(byVerse)
		slices.Sort(indices)
		for _, vi := range indices {
			l.verse(verses[vi], byVerse[vi])
		}
	}

	return Document{
		Width:      cfg.Width,
		Height:     int(math.Ceil(l.y + cfg.Padding)),
		Background: theme.Background,
		Primitives: l.prims,
	}
}

// MistakesByVerse groups the valid mistakes of a session by verse index and
// then by word index. The first mark on a word wins.
func MistakesByVerse(mistakes []domain.Mistake, verses []domain.Ayah) map[int]map[int]domain.MistakeKind {
	valid := lo.Filter(mistakes, func(m domain.Mistake, _ int) bool {
		return m.VerseIndex >= 0 && m.VerseIndex < len(verses) && !verses[m.VerseIndex].IsPreamble()
	})
	grouped := lo.GroupBy(valid, func(m domain.Mistake) int { return m.VerseIndex })

	out := make(map[int]map[int]domain.MistakeKind, len(grouped))
	for vi, ms := range grouped {
		words := make(map[int]domain.MistakeKind, len(ms))
		for _, m := range ms {
			if _, ok := words[m.WordIndex]; !ok {
				words[m.WordIndex] = m.Kind
			}
		}
		out[vi] = words
	}
	return out
}

func (l *layouter) header(verses []domain.Ayah) {
	l.centered(l.cfg.Labels.Title, l.cfg.TitleSize, l.theme.Foreground)

	english, native := chapterRange(verses)
	if english != "" {
		l.centered(english, l.cfg.BodySize, l.theme.Muted)
	}
	if native != "" {
		l.centered(native, l.cfg.BodySize*1.2, l.theme.Muted)
	}
	l.y += l.cfg.BodySize
}

func chapterRange(verses []domain.Ayah) (english, native string) {
	if len(verses) == 0 {
		return "", ""
	}
	first, last := verses[0].Chapter, verses[len(verses)-1].Chapter
	if first.Number == last.Number {
		return first.EnglishName, first.NativeName
	}
	english = first.EnglishName + " - " + last.EnglishName
	if first.NativeName != "" && last.NativeName != "" {
		native = first.NativeName + " - " + last.NativeName
	}
	return english, native
}

func (l *layouter) scoreBlock(stats domain.MemorizationStats, result scoring.Result) {
	cfg, theme := l.cfg, l.theme

	l.centered(strconv.Itoa(result.Score), cfg.ScoreSize, theme.Accent)
	l.centered(cfg.Labels.Score, cfg.BodySize, theme.Muted)
	l.y += cfg.BodySize

	columns := []struct {
		value string
		label string
		color color.NRGBA
	}{
		{fmt.Sprintf("%.2f%%", stats.Accuracy), cfg.Labels.Accuracy, theme.Foreground},
		{string(result.Rank), cfg.Labels.Rank, theme.Accent},
		{strconv.Itoa(stats.TotalWords), cfg.Labels.Words, theme.Foreground},
		{strconv.Itoa(stats.ForgotCount), cfg.Labels.Forgot, opaque(theme.Forgot)},
		{strconv.Itoa(stats.TajwidCount), cfg.Labels.Tajwid, opaque(theme.Tajwid)},
	}

	colWidth := l.cfg.contentWidth() / float64(len(columns))
	valueBaseline := l.y + cfg.HeadingSize
	labelBaseline := valueBaseline + cfg.BodySize*cfg.LineSpacing
	for i, col := range columns {
		center := cfg.Padding + colWidth*(float64(i)+0.5)
		l.textAt(col.value, cfg.HeadingSize, col.color, center-l.m.Measure(col.value, cfg.HeadingSize)/2, valueBaseline)
		l.textAt(col.label, cfg.BodySize, theme.Muted, center-l.m.Measure(col.label, cfg.BodySize)/2, labelBaseline)
	}
	l.y = labelBaseline + cfg.BodySize*(cfg.LineSpacing-1) + cfg.BodySize
}

func (l *layouter) divider() {
	l.rect(Rect{X: l.cfg.Padding, Y: l.y, W: l.cfg.contentWidth(), H: 2}, l.theme.Divider)
	l.y += l.cfg.BodySize
}

// unit is a word together with the pause marks that follow it. Units are
// never split across lines.
type unit struct {
	parts  []tokenizer.DisplayItem
	widths []float64
	width  float64
}

func (l *layouter) units(items []tokenizer.DisplayItem, size float64) []unit {
	var units []unit
	for _, item := range items {
		if item.IsWord() || len(units) == 0 {
			units = append(units, unit{})
		}
		u := &units[len(units)-1]
		w := l.m.Measure(item.Raw, size)
		if len(u.parts) > 0 {
			u.width += l.cfg.WordSpacing
		}
		u.parts = append(u.parts, item)
		u.widths = append(u.widths, w)
		u.width += w
	}
	return units
}

func (l *layouter) verse(ayah domain.Ayah, marks map[int]domain.MistakeKind) {
	cfg, theme := l.cfg, l.theme

	ref := fmt.Sprintf("%s %d:%d", ayah.Chapter.EnglishName, ayah.Chapter.Number, ayah.LocalNumber)
	l.textAt(strings.TrimSpace(ref), cfg.BodySize, theme.Muted, cfg.Padding, l.y+cfg.BodySize)
	l.y += cfg.BodySize * cfg.LineSpacing

	units := l.units(tokenizer.Tokenize(ayah.Text), cfg.VerseSize)
	widths := lo.Map(units, func(u unit, _ int) float64 { return u.width })
	lineHeight := cfg.VerseSize * cfg.LineSpacing
	right := float64(cfg.Width) - cfg.Padding

	for _, line := range Wrap(widths, cfg.WordSpacing, cfg.contentWidth()) {
		top := l.y
		baseline := top + (lineHeight+cfg.VerseSize*0.7)/2
		cursor := right
		for _, ui := range line {
			u := units[ui]
			for pi, part := range u.parts {
				w := u.widths[pi]
				x := cursor - w
				if part.IsWord() {
					if kind, ok := marks[part.LogicIndex]; ok {
						l.rect(Rect{
							X: x - cfg.HighlightPad,
							Y: top,
							W: w + 2*cfg.HighlightPad,
							H: lineHeight,
						}, l.highlight(kind))
					}
				}
				l.textAt(part.Raw, cfg.VerseSize, theme.Foreground, x, baseline)
				cursor = x - cfg.WordSpacing
			}
		}
		l.y += lineHeight
	}

	if cfg.ShowTranslation && strings.TrimSpace(ayah.Translation) != "" {
		l.y += cfg.TranslationSize * 0.4
		l.paragraph(ayah.Translation, cfg.TranslationSize, theme.Muted)
	}
	l.y += cfg.BodySize
}

func (l *layouter) highlight(kind domain.MistakeKind) color.NRGBA {
	if kind == domain.MistakeTajwid {
		return l.theme.Tajwid
	}
	return l.theme.Forgot
}

// paragraph draws left-to-right wrapped text at the left content edge.
func (l *layouter) paragraph(text string, size float64, c color.NRGBA) {
	words := strings.Fields(text)
	spacing := l.m.Measure(" ", size)
	widths := lo.Map(words, func(w string, _ int) float64 { return l.m.Measure(w, size) })
	lineHeight := size * l.cfg.LineSpacing

	for _, line := range Wrap(widths, spacing, l.cfg.contentWidth()) {
		parts := lo.Map(line, func(i int, _ int) string { return words[i] })
		l.textAt(strings.Join(parts, " "), size, c, l.cfg.Padding, l.y+size)
		l.y += lineHeight
	}
}

func (l *layouter) centered(text string, size float64, c color.NRGBA) {
	w := l.m.Measure(text, size)
	l.textAt(text, size, c, (float64(l.cfg.Width)-w)/2, l.y+size)
	l.y += size * l.cfg.LineSpacing
}

func (l *layouter) textAt(text string, size float64, c color.NRGBA, x, baseline float64) {
	if text == "" {
		return
	}
	l.prims = append(l.prims, Primitive{
		Kind:  TextRun,
		Rect:  Rect{X: x, Y: baseline, W: l.m.Measure(text, size), H: size},
		Text:  text,
		Size:  size,
		Color: c,
		RTL:   IsRTL(text),
	})
}

func (l *layouter) rect(r Rect, c color.NRGBA) {
	l.prims = append(l.prims, Primitive{Kind: FilledRect, Rect: r, Color: c})
}

// IsRTL reports whether text contains right-to-left letters.
func IsRTL(text string) bool {
	for _, r := range text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}
