package session

import (
	"github.com/samber/lo"

	"github.com/escalopa/quran-hifz/internal/domain"
)

type wordKey struct {
	verse int
	word  int
}

// MistakeLog holds at most one mistake per word, in the order they were marked.
type MistakeLog struct {
	entries []domain.Mistake
	index   map[wordKey]int
}

// NewMistakeLog builds a log from existing entries. Duplicates keep the first.
func NewMistakeLog(mistakes ...domain.Mistake) *MistakeLog {
	l := &MistakeLog{index: make(map[wordKey]int)}
	for _, m := range mistakes {
		l.Mark(m.VerseIndex, m.WordIndex, m.Kind)
	}
	return l
}

// Mark records a mistake unless the word already carries one. It reports
// whether the log changed.
func (l *MistakeLog) Mark(verseIndex, wordIndex int, kind domain.MistakeKind) bool {
	key := wordKey{verseIndex, wordIndex}
	if _, ok := l.index[key]; ok {
		return false
	}
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, domain.Mistake{VerseIndex: verseIndex, WordIndex: wordIndex, Kind: kind})
	return true
}

// Unmark removes the mistake on a word, if any.
func (l *MistakeLog) Unmark(verseIndex, wordIndex int) bool {
	key := wordKey{verseIndex, wordIndex}
	pos, ok := l.index[key]
	if !ok {
		return false
	}
	l.entries = append(l.entries[:pos], l.entries[pos+1:]...)
	delete(l.index, key)
	for i := pos; i < len(l.entries); i++ {
		l.index[wordKey{l.entries[i].VerseIndex, l.entries[i].WordIndex}] = i
	}
	return true
}

func (l *MistakeLog) Get(verseIndex, wordIndex int) (domain.Mistake, bool) {
	pos, ok := l.index[wordKey{verseIndex, wordIndex}]
	if !ok {
		return domain.Mistake{}, false
	}
	return l.entries[pos], true
}

func (l *MistakeLog) Len() int {
	return len(l.entries)
}

// Mistakes returns a copy of the log.
func (l *MistakeLog) Mistakes() []domain.Mistake {
	out := make([]domain.Mistake, len(l.entries))
	copy(out, l.entries)
	return out
}

// Counts returns the number of forgotten words and tajwid errors.
func (l *MistakeLog) Counts() (forgot, tajwid int) {
	return CountKinds(l.entries)
}

// CountKinds tallies mistakes by kind.
func CountKinds(mistakes []domain.Mistake) (forgot, tajwid int) {
	forgot = lo.CountBy(mistakes, func(m domain.Mistake) bool { return m.Kind == domain.MistakeForgot })
	tajwid = lo.CountBy(mistakes, func(m domain.Mistake) bool { return m.Kind == domain.MistakeTajwid })
	return forgot, tajwid
}
