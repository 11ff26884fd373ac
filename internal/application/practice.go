package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/session"
	"github.com/escalopa/quran-hifz/internal/tokenizer"
)

// View is what a presentation layer needs to draw the practice card
type View struct {
	State        domain.SessionState
	Mode         domain.PracticeMode
	Verse        domain.Ayah
	VerseIndex   int
	VerseCount   int
	WordIndex    int
	WordCount    int
	Revealed     string
	Mistake      *domain.Mistake // mark on the current word
	TotalWords   int
	ForgotCount  int
	TajwidCount  int
	VerseChanged bool // the last event moved to another verse
}

// StartSurah begins a session in a chapter from the given verse
func (s *PracticeService) StartSurah(ctx context.Context, userID string, surahNumber, fromAyah int) (View, error) {
	if err := domain.ValidateStartAyah(surahNumber, fromAyah); err != nil {
		return View{}, err
	}

	verses, err := s.verses.SurahVerses(ctx, surahNumber)
	if err != nil {
		return View{}, fmt.Errorf("load surah %d: %w", surahNumber, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "surah": surahNumber, "ayah": fromAyah}).Info("surah session started")
	return s.start(ctx, userID, session.New(verses, domain.ModeSurah, fromAyah))
}

// StartJuz begins a session over a whole part
func (s *PracticeService) StartJuz(ctx context.Context, userID string, juz int) (View, error) {
	if err := domain.ValidateJuz(juz); err != nil {
		return View{}, err
	}

	verses, err := s.verses.JuzVerses(ctx, juz)
	if err != nil {
		return View{}, fmt.Errorf("load juz %d: %w", juz, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "juz": juz}).Info("juz session started")
	return s.start(ctx, userID, session.New(verses, domain.ModeJuz, juz))
}

func (s *PracticeService) start(ctx context.Context, userID string, sess *session.Session) (View, error) {
	unlock := s.lock(userID)
	defer unlock()

	changed := track(sess)
	sess.Start()

	if err := s.store.SaveSession(ctx, userID, sess.Snapshot()); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}
	if err := s.fsm.SetState(ctx, userID, domain.StatePracticing); err != nil {
		return View{}, fmt.Errorf("set state: %w", err)
	}
	return viewOf(sess, *changed), nil
}

// Advance reveals the next word. Advancing past the final word ends the
// session; the returned view then carries the Ended state.
func (s *PracticeService) Advance(ctx context.Context, userID string) (View, error) {
	return s.apply(ctx, userID, func(sess *session.Session) bool {
		sess.AdvanceWord()
		return true
	})
}

// Retreat steps back one word
func (s *PracticeService) Retreat(ctx context.Context, userID string) (View, error) {
	return s.apply(ctx, userID, func(sess *session.Session) bool {
		sess.RetreatWord()
		return true
	})
}

// Mark tags the current word. The flag reports whether a new mark was added.
func (s *PracticeService) Mark(ctx context.Context, userID string, kind domain.MistakeKind) (View, bool, error) {
	var marked bool
	view, err := s.apply(ctx, userID, func(sess *session.Session) bool {
		marked = sess.MarkMistake(kind)
		return marked
	})
	return view, marked, err
}

// Unmark clears the mark on the current word
func (s *PracticeService) Unmark(ctx context.Context, userID string) (View, bool, error) {
	var removed bool
	view, err := s.apply(ctx, userID, func(sess *session.Session) bool {
		removed = sess.UnmarkMistake()
		return removed
	})
	return view, removed, err
}

// Current returns the view of the stored session without changing it
func (s *PracticeService) Current(ctx context.Context, userID string) (View, error) {
	return s.apply(ctx, userID, func(*session.Session) bool { return false })
}

// Reset discards the user's session and returns them to the mode choice
func (s *PracticeService) Reset(ctx context.Context, userID string) error {
	unlock := s.lock(userID)
	defer unlock()

	if err := s.store.DeleteSession(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.fsm.SetState(ctx, userID, domain.StateStart); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	_ = s.fsm.DeleteData(ctx, userID, domain.SessionKeyMessage)
	return nil
}

// apply loads the user's session, runs fn and stores the result when fn
// reports a change.
func (s *PracticeService) apply(ctx context.Context, userID string, fn func(*session.Session) bool) (View, error) {
	unlock := s.lock(userID)
	defer unlock()

	sess, err := s.load(ctx, userID)
	if err != nil {
		return View{}, err
	}

	changed := track(sess)
	if fn(sess) || *changed {
		if err := s.store.SaveSession(ctx, userID, sess.Snapshot()); err != nil {
			return View{}, fmt.Errorf("save session: %w", err)
		}
	}
	return viewOf(sess, *changed), nil
}

func (s *PracticeService) load(ctx context.Context, userID string) (*session.Session, error) {
	snap, err := s.store.LoadSession(ctx, userID)
	if errors.Is(err, domain.ErrNoSession) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session.Restore(snap), nil
}

// track reports through the returned flag whether the session moved to
// another verse.
func track(sess *session.Session) *bool {
	changed := false
	sess.Subscribe(func(c session.Change) {
		if c.VerseChanged {
			changed = true
		}
	})
	return &changed
}

func viewOf(sess *session.Session, verseChanged bool) View {
	p := sess.Progress()
	mistakes := sess.Mistakes()
	forgot, tajwid := session.CountKinds(mistakes)

	v := View{
		State:        sess.State(),
		Mode:         sess.Mode(),
		VerseIndex:   p.CurrentVerseIndex,
		VerseCount:   len(sess.Verses()),
		WordIndex:    p.CurrentWordIndex,
		WordCount:    sess.WordCount(p.CurrentVerseIndex),
		Revealed:     tokenizer.Join(sess.Revealed()),
		TotalWords:   p.TotalWordsCounted,
		ForgotCount:  forgot,
		TajwidCount:  tajwid,
		VerseChanged: verseChanged,
	}
	if verse, ok := sess.CurrentVerse(); ok {
		v.Verse = verse
	}
	if m, ok := sess.Mistake(p.CurrentVerseIndex, p.CurrentWordIndex); ok {
		v.Mistake = &m
	}
	return v
}
