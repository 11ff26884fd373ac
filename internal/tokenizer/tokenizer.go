// Package tokenizer splits verse text into logical words and pause marks.
package tokenizer

import (
	"strings"
	"unicode"
)

type Kind int

const (
	Word Kind = iota
	PauseMark
)

func (k Kind) String() string {
	if k == PauseMark {
		return "pause_mark"
	}
	return "word"
}

// DisplayItem is one visible fragment of a verse.
//
// LogicIndex is the dense 0-based index of a Word and -1 for a PauseMark.
// GroupIndex is the word a fragment belongs to: a Word's own index, or for a
// PauseMark the index of the preceding word (-1 when none precedes it).
// Lead holds the whitespace that preceded the fragment in the source text and
// Trail, set on the last item only, holds any whitespace after it.
type DisplayItem struct {
	Kind       Kind
	Raw        string
	LogicIndex int
	GroupIndex int
	Lead       string
	Trail      string
}

func (d DisplayItem) IsWord() bool {
	return d.Kind == Word
}

// IsPauseMark reports whether r belongs to the pause/annotation mark set:
// the small high waqf ligatures, the rub el hizb, the sajdah sign, the end of
// ayah sign, the ornate parentheses and the word ligature presentation forms.
func IsPauseMark(r rune) bool {
	switch {
	case r >= 0x06D6 && r <= 0x06DC:
		return true
	case r == 0x06DD, r == 0x06DE, r == 0x06E9:
		return true
	case r == 0xFD3E, r == 0xFD3F:
		return true
	case r >= 0xFDFA && r <= 0xFDFD:
		return true
	}
	return false
}

// Tokenize separates verse text into words and pause marks. Every mark
// character forms a fragment on its own; everything between whitespace and
// marks is a word.
func Tokenize(text string) []DisplayItem {
	var (
		items []DisplayItem
		word  strings.Builder
		lead  strings.Builder
		next  int
		last  = -1
	)

	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		items = append(items, DisplayItem{
			Kind:       Word,
			Raw:        word.String(),
			LogicIndex: next,
			GroupIndex: next,
			Lead:       lead.String(),
		})
		last = next
		next++
		word.Reset()
		lead.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flushWord()
			lead.WriteRune(r)
		case IsPauseMark(r):
			flushWord()
			items = append(items, DisplayItem{
				Kind:       PauseMark,
				Raw:        string(r),
				LogicIndex: -1,
				GroupIndex: last,
				Lead:       lead.String(),
			})
			lead.Reset()
		default:
			word.WriteRune(r)
		}
	}
	flushWord()

	if len(items) > 0 {
		items[len(items)-1].Trail = lead.String()
	}
	return items
}

// Join rebuilds the source text from its items.
func Join(items []DisplayItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Lead)
		b.WriteString(item.Raw)
		b.WriteString(item.Trail)
	}
	return b.String()
}

// WordCount returns the number of logical words in the items.
func WordCount(items []DisplayItem) int {
	count := 0
	for _, item := range items {
		if item.IsWord() {
			count++
		}
	}
	return count
}

// Words returns only the word fragments, indexed by LogicIndex.
func Words(items []DisplayItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsWord() {
			out = append(out, item.Raw)
		}
	}
	return out
}

// Upto returns the items revealed when the word at logicIndex is the latest
// on screen: every item before it, the word itself and the pause marks that
// directly follow it.
func Upto(items []DisplayItem, logicIndex int) []DisplayItem {
	end := 0
	for i, item := range items {
		if item.GroupIndex > logicIndex {
			break
		}
		end = i + 1
	}
	return items[:end]
}
