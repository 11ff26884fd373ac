// Package session implements the word-by-word reveal state machine of a
// memorization run.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/scoring"
	"github.com/escalopa/quran-hifz/internal/tokenizer"
)

// Position addresses a word within the session's verse list
type Position struct {
	Verse int
	Word  int
}

// Change is delivered to subscribers after every transition that moved the
// position or the state.
type Change struct {
	From         Position
	To           Position
	VerseChanged bool
	State        domain.SessionState
}

// Session owns the progress and mistake log of one practice run. It is not
// safe for concurrent use; callers feed it one event at a time.
type Session struct {
	id          string
	mode        domain.PracticeMode
	startNumber int
	verses      []domain.Ayah
	items       [][]tokenizer.DisplayItem
	wordCounts  []int

	state    domain.SessionState
	progress domain.SessionProgress
	log      *MistakeLog
	stats    *domain.MemorizationStats

	listeners []func(Change)
	now       func() time.Time
}

// New prepares a session over verses. In surah mode startNumber is the local
// verse number to begin at; it is ignored in juz mode.
func New(verses []domain.Ayah, mode domain.PracticeMode, startNumber int) *Session {
	s := &Session{
		id:          uuid.NewString(),
		mode:        mode,
		startNumber: startNumber,
		verses:      verses,
		items:       make([][]tokenizer.DisplayItem, len(verses)),
		wordCounts:  make([]int, len(verses)),
		now:         time.Now,
	}
	for i, v := range verses {
		s.items[i] = tokenizer.Tokenize(v.Text)
		// preambles are headers, never revealed word by word
		if !v.IsPreamble() {
			s.wordCounts[i] = tokenizer.WordCount(s.items[i])
		}
	}
	s.resetState()
	return s
}

func (s *Session) resetState() {
	s.state = domain.SessionNotStarted
	if len(s.verses) > 0 && s.verses[0].IsPreamble() {
		s.state = domain.SessionShowingPreamble
	}
	s.progress = domain.SessionProgress{}
	s.log = NewMistakeLog()
	s.stats = nil
}

// Subscribe registers fn to be called after each position or state change.
func (s *Session) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify(from Position) {
	to := s.position()
	change := Change{
		From:         from,
		To:           to,
		VerseChanged: from.Verse != to.Verse,
		State:        s.state,
	}
	for _, fn := range s.listeners {
		fn(change)
	}
}

func (s *Session) position() Position {
	return Position{Verse: s.progress.CurrentVerseIndex, Word: s.progress.CurrentWordIndex}
}

// Start enters the Active state at the resolved entry verse.
func (s *Session) Start() {
	if s.state != domain.SessionNotStarted && s.state != domain.SessionShowingPreamble {
		return
	}
	from := s.position()

	entry := s.entryIndex()
	// step over verses without words, such as a leading preamble
	for entry < len(s.verses) && s.wordCounts[entry] == 0 {
		entry++
	}

	s.log = NewMistakeLog()
	s.stats = nil
	s.state = domain.SessionActive
	s.progress = domain.SessionProgress{
		CurrentVerseIndex:      entry,
		FurthestVerseIndex:     entry,
		SessionStartVerseIndex: entry,
	}
	if entry < len(s.verses) {
		s.progress.TotalWordsCounted = 1
	}
	s.notify(from)
}

func (s *Session) entryIndex() int {
	if s.mode == domain.ModeJuz {
		return 0
	}
	for i, v := range s.verses {
		if v.LocalNumber == s.startNumber {
			return i
		}
	}
	return 0
}

// AdvanceWord reveals the next word, crossing into the next verse after the
// last word and ending the session after the final verse. A session with
// nothing on screen stays as it is, like End.
func (s *Session) AdvanceWord() {
	if s.state != domain.SessionActive || s.progress.TotalWordsCounted == 0 {
		return
	}
	from := s.position()
	p := &s.progress

	if p.CurrentVerseIndex < len(s.verses) && p.CurrentWordIndex+1 < s.wordCounts[p.CurrentVerseIndex] {
		p.CurrentWordIndex++
		s.reach()
		s.notify(from)
		return
	}

	next := p.CurrentVerseIndex + 1
	for next < len(s.verses) && s.wordCounts[next] == 0 {
		next++
	}
	if next >= len(s.verses) {
		s.finish()
		s.notify(from)
		return
	}
	p.CurrentVerseIndex = next
	p.CurrentWordIndex = 0
	s.reach()
	s.notify(from)
}

// reach moves the high-water mark when the current position lies beyond it.
// Only genuinely new words are counted.
func (s *Session) reach() {
	p := &s.progress
	beyond := p.CurrentVerseIndex > p.FurthestVerseIndex ||
		(p.CurrentVerseIndex == p.FurthestVerseIndex && p.CurrentWordIndex > p.FurthestWordIndex)
	if !beyond {
		return
	}
	p.FurthestVerseIndex = p.CurrentVerseIndex
	p.FurthestWordIndex = p.CurrentWordIndex
	p.TotalWordsCounted++
}

// RetreatWord steps back one word, never before the session's first word.
// Counted progress is kept.
func (s *Session) RetreatWord() {
	if s.state != domain.SessionActive {
		return
	}
	from := s.position()
	p := &s.progress

	if p.CurrentWordIndex > 0 {
		p.CurrentWordIndex--
		s.notify(from)
		return
	}

	prev := p.CurrentVerseIndex - 1
	for prev >= p.SessionStartVerseIndex && s.wordCounts[prev] == 0 {
		prev--
	}
	if prev < p.SessionStartVerseIndex {
		return
	}
	p.CurrentVerseIndex = prev
	p.CurrentWordIndex = s.wordCounts[prev] - 1
	s.notify(from)
}

// MarkMistake tags the current word. A word keeps its first mark.
func (s *Session) MarkMistake(kind domain.MistakeKind) bool {
	if s.state != domain.SessionActive || s.progress.TotalWordsCounted == 0 {
		return false
	}
	return s.log.Mark(s.progress.CurrentVerseIndex, s.progress.CurrentWordIndex, kind)
}

// UnmarkMistake clears the mark on the current word.
func (s *Session) UnmarkMistake() bool {
	if s.state != domain.SessionActive {
		return false
	}
	return s.log.Unmark(s.progress.CurrentVerseIndex, s.progress.CurrentWordIndex)
}

// End concludes an active session. A session that revealed nothing cannot be
// concluded and stays active.
func (s *Session) End() (domain.MemorizationStats, bool) {
	if s.state != domain.SessionActive || s.progress.TotalWordsCounted == 0 {
		return domain.MemorizationStats{}, false
	}
	from := s.position()
	s.finish()
	s.notify(from)
	return *s.stats, true
}

func (s *Session) finish() {
	s.state = domain.SessionEnded
	stats := NewStats(s.progress.TotalWordsCounted, s.log.Mistakes())
	stats.SessionID = s.id
	stats.EndedAt = s.now()
	s.stats = &stats
}

// Reset discards all progress and returns to the pre-start state.
func (s *Session) Reset() {
	from := s.position()
	s.resetState()
	s.notify(from)
}

// NewStats builds the end-of-session snapshot for a mistake log.
func NewStats(totalWords int, mistakes []domain.Mistake) domain.MemorizationStats {
	forgot, tajwid := CountKinds(mistakes)
	if mistakes == nil {
		mistakes = []domain.Mistake{}
	}
	return domain.MemorizationStats{
		TotalWords:  totalWords,
		ForgotCount: forgot,
		TajwidCount: tajwid,
		Accuracy:    scoring.Accuracy(totalWords, forgot, tajwid),
		Mistakes:    mistakes,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Mode() domain.PracticeMode {
	return s.mode
}

func (s *Session) State() domain.SessionState {
	return s.state
}

// Progress returns a copy of the current progress.
func (s *Session) Progress() domain.SessionProgress {
	return s.progress
}

func (s *Session) Verses() []domain.Ayah {
	return s.verses
}

// Items returns the tokenized display items of a verse.
func (s *Session) Items(verseIndex int) []tokenizer.DisplayItem {
	if verseIndex < 0 || verseIndex >= len(s.items) {
		return nil
	}
	return s.items[verseIndex]
}

// WordCount returns the number of revealable words of a verse.
func (s *Session) WordCount(verseIndex int) int {
	if verseIndex < 0 || verseIndex >= len(s.wordCounts) {
		return 0
	}
	return s.wordCounts[verseIndex]
}

// CurrentVerse returns the verse under the cursor.
func (s *Session) CurrentVerse() (domain.Ayah, bool) {
	i := s.progress.CurrentVerseIndex
	if i < 0 || i >= len(s.verses) {
		return domain.Ayah{}, false
	}
	return s.verses[i], true
}

// Revealed returns the items of the current verse that are on screen.
func (s *Session) Revealed() []tokenizer.DisplayItem {
	if s.state != domain.SessionActive {
		return nil
	}
	return tokenizer.Upto(s.Items(s.progress.CurrentVerseIndex), s.progress.CurrentWordIndex)
}

// Mistake returns the mark on a word, if any.
func (s *Session) Mistake(verseIndex, wordIndex int) (domain.Mistake, bool) {
	return s.log.Get(verseIndex, wordIndex)
}

func (s *Session) Mistakes() []domain.Mistake {
	return s.log.Mistakes()
}

// Stats returns the snapshot produced when the session ended.
func (s *Session) Stats() (domain.MemorizationStats, bool) {
	if s.stats == nil {
		return domain.MemorizationStats{}, false
	}
	return *s.stats, true
}

// Snapshot captures the session for storage.
func (s *Session) Snapshot() *domain.SessionSnapshot {
	snap := &domain.SessionSnapshot{
		ID:          s.id,
		Mode:        s.mode,
		StartNumber: s.startNumber,
		State:       s.state,
		Verses:      s.verses,
		Progress:    s.progress,
		Mistakes:    s.log.Mistakes(),
	}
	if s.stats != nil {
		stats := *s.stats
		snap.Stats = &stats
	}
	return snap
}

// Restore rebuilds a session from a snapshot.
func Restore(snap *domain.SessionSnapshot) *Session {
	s := New(snap.Verses, snap.Mode, snap.StartNumber)
	if snap.ID != "" {
		s.id = snap.ID
	}
	if snap.State != "" {
		s.state = snap.State
	}
	s.progress = snap.Progress
	s.log = NewMistakeLog(snap.Mistakes...)
	if snap.Stats != nil {
		stats := *snap.Stats
		s.stats = &stats
	}
	return s
}
