package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/session"
)

var (
	naba    = domain.Chapter{Number: 78, NativeName: "النبأ", EnglishName: "An-Naba"}
	measure = MonoMeasurer{Advance: 0.5}
)

func nabaVerses() []domain.Ayah {
	return []domain.Ayah{
		{LocalNumber: 0, Chapter: naba, Text: domain.Bismillah},
		{LocalNumber: 1, Chapter: naba, Text: "عَمَّ يَتَسَآءَلُونَ", Translation: "About what are they asking one another?"},
		{LocalNumber: 2, Chapter: naba, Text: "عَنِ ٱلنَّبَإِ ٱلْعَظِيمِ", Translation: "About the great news"},
		{LocalNumber: 3, Chapter: naba, Text: "ٱلَّذِى هُمْ فِيهِ مُخْتَلِفُونَ", Translation: "That over which they are in disagreement."},
	}
}

func testStats(mistakes ...domain.Mistake) domain.MemorizationStats {
	return session.NewStats(9, mistakes)
}

func TestLayoutWithoutMistakes(t *testing.T) {
	doc := Layout(testStats(), nabaVerses(), DefaultConfig(), LightTheme, measure)

	assert.Equal(t, 1080, doc.Width)
	assert.Equal(t, LightTheme.Background, doc.Background)
	assert.Empty(t, doc.Highlights())

	texts := doc.Texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, "Memorization Summary", texts[0].Text)
	assert.Contains(t, textsOf(doc), "9")
	assert.Contains(t, textsOf(doc), "100.00%")
	assert.Contains(t, textsOf(doc), "X")
	assert.NotContains(t, textsOf(doc), "Mistakes review")
}

func TestLayoutHeightGrowsWithMistakenVerses(t *testing.T) {
	cfg := DefaultConfig()
	base := Layout(testStats(), nabaVerses(), cfg, LightTheme, measure)
	one := Layout(testStats(domain.Mistake{VerseIndex: 1, WordIndex: 0, Kind: domain.MistakeForgot}), nabaVerses(), cfg, LightTheme, measure)
	two := Layout(testStats(
		domain.Mistake{VerseIndex: 1, WordIndex: 0, Kind: domain.MistakeForgot},
		domain.Mistake{VerseIndex: 3, WordIndex: 2, Kind: domain.MistakeTajwid},
	), nabaVerses(), cfg, LightTheme, measure)

	assert.Greater(t, one.Height, base.Height)
	assert.Greater(t, two.Height, one.Height)
	assert.Equal(t, base.Width, two.Width)
}

func TestLayoutHighlightsMistakenWords(t *testing.T) {
	stats := testStats(
		domain.Mistake{VerseIndex: 2, WordIndex: 1, Kind: domain.MistakeForgot},
		domain.Mistake{VerseIndex: 2, WordIndex: 2, Kind: domain.MistakeTajwid},
	)
	doc := Layout(stats, nabaVerses(), DefaultConfig(), DarkTheme, measure)

	var highlights []Primitive
	for _, p := range doc.Highlights() {
		if p.Rect.H > 2 {
			highlights = append(highlights, p)
		}
	}
	require.Len(t, highlights, 2)
	assert.Equal(t, DarkTheme.Forgot, highlights[0].Color)
	assert.Equal(t, DarkTheme.Tajwid, highlights[1].Color)

	words := map[string]Primitive{}
	for _, p := range doc.Texts() {
		words[p.Text] = p
	}
	forgot := words["ٱلنَّبَإِ"]
	require.NotEmpty(t, forgot.Text)
	assert.True(t, forgot.RTL)
	assert.LessOrEqual(t, highlights[0].Rect.X, forgot.Rect.X)
	assert.GreaterOrEqual(t, highlights[0].Rect.X+highlights[0].Rect.W, forgot.Rect.X+forgot.Rect.W)

	// the highlight is drawn before the word it sits behind
	assert.Less(t, indexOf(doc, highlights[0]), indexOfText(doc, "ٱلنَّبَإِ"))
}

func TestLayoutDrawsRightToLeft(t *testing.T) {
	stats := testStats(domain.Mistake{VerseIndex: 3, WordIndex: 0, Kind: domain.MistakeForgot})
	cfg := DefaultConfig()
	doc := Layout(stats, nabaVerses(), cfg, LightTheme, measure)

	first := doc.Texts()[indexOfTextRun(doc, "ٱلَّذِى")]
	second := doc.Texts()[indexOfTextRun(doc, "هُمْ")]

	assert.InDelta(t, float64(cfg.Width)-cfg.Padding, first.Rect.X+first.Rect.W, 0.001, "first word anchors at the right edge")
	assert.Less(t, second.Rect.X, first.Rect.X)
	assert.Equal(t, first.Rect.Y, second.Rect.Y)
}

func TestLayoutWrapsLongVerses(t *testing.T) {
	long := domain.Ayah{LocalNumber: 1, Chapter: naba}
	for i := 0; i < 60; i++ {
		long.Text += "كَلِمَةٌ "
	}
	stats := testStats(domain.Mistake{VerseIndex: 0, WordIndex: 59, Kind: domain.MistakeForgot})
	cfg := DefaultConfig()
	doc := Layout(stats, []domain.Ayah{long}, cfg, LightTheme, measure)

	lines := map[float64][]Primitive{}
	for _, p := range doc.Texts() {
		if p.Text == "كَلِمَةٌ" {
			lines[p.Rect.Y] = append(lines[p.Rect.Y], p)
		}
	}
	require.Greater(t, len(lines), 1)
	for _, runs := range lines {
		total := cfg.WordSpacing * float64(len(runs)-1)
		for _, r := range runs {
			total += r.Rect.W
		}
		assert.LessOrEqual(t, total, cfg.contentWidth())
	}
}

func TestLayoutIgnoresInvalidMistakes(t *testing.T) {
	stats := testStats(
		domain.Mistake{VerseIndex: 0, WordIndex: 0, Kind: domain.MistakeForgot},
		domain.Mistake{VerseIndex: 17, WordIndex: 0, Kind: domain.MistakeForgot},
		domain.Mistake{VerseIndex: -1, WordIndex: 0, Kind: domain.MistakeTajwid},
	)
	base := Layout(testStats(), nabaVerses(), DefaultConfig(), LightTheme, measure)
	doc := Layout(stats, nabaVerses(), DefaultConfig(), LightTheme, measure)

	assert.Equal(t, base.Height, doc.Height)
	assert.NotContains(t, textsOf(doc), "Mistakes review")
}

func TestLayoutTranslationToggle(t *testing.T) {
	stats := testStats(domain.Mistake{VerseIndex: 2, WordIndex: 0, Kind: domain.MistakeForgot})
	cfg := DefaultConfig()
	with := Layout(stats, nabaVerses(), cfg, LightTheme, measure)
	cfg.ShowTranslation = false
	without := Layout(stats, nabaVerses(), cfg, LightTheme, measure)

	assert.Contains(t, textsOf(with), "About the great news")
	assert.NotContains(t, textsOf(without), "About the great news")
	assert.Greater(t, with.Height, without.Height)
}

func TestMistakesByVerseFirstMarkWins(t *testing.T) {
	got := MistakesByVerse([]domain.Mistake{
		{VerseIndex: 1, WordIndex: 0, Kind: domain.MistakeTajwid},
		{VerseIndex: 1, WordIndex: 0, Kind: domain.MistakeForgot},
		{VerseIndex: 0, WordIndex: 0, Kind: domain.MistakeForgot},
	}, nabaVerses())

	assert.Equal(t, map[int]map[int]domain.MistakeKind{1: {0: domain.MistakeTajwid}}, got)
}

func TestIsRTL(t *testing.T) {
	assert.True(t, IsRTL("النبأ"))
	assert.True(t, IsRTL("78 النبأ"))
	assert.False(t, IsRTL("An-Naba 78:1"))
	assert.False(t, IsRTL(""))
}

func textsOf(doc Document) []string {
	var out []string
	for _, p := range doc.Texts() {
		out = append(out, p.Text)
	}
	return out
}

func indexOf(doc Document, target Primitive) int {
	for i, p := range doc.Primitives {
		if p == target {
			return i
		}
	}
	return -1
}

func indexOfText(doc Document, text string) int {
	for i, p := range doc.Primitives {
		if p.Kind == TextRun && p.Text == text {
			return i
		}
	}
	return -1
}

func indexOfTextRun(doc Document, text string) int {
	for i, p := range doc.Texts() {
		if p.Text == text {
			return i
		}
	}
	return -1
}
