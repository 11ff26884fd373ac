package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/scoring"
	"github.com/escalopa/quran-hifz/internal/session"
	"github.com/escalopa/quran-hifz/internal/summary"
)

// SummaryOptions configures the image attached to a finished session. No
// image is produced when Fonts is nil.
type SummaryOptions struct {
	Config  summary.Config
	Theme   summary.Theme
	Fonts   *summary.Fonts
	Quality int
}

// Result is the outcome of a concluded session
type Result struct {
	Stats       domain.MemorizationStats
	Score       scoring.Result
	Verses      []domain.Ayah
	SummaryJPEG []byte
	FileName    string
}

// End concludes the user's session and renders its summary. A session that
// already ended by advancing past its last word is summarized as is.
func (s *PracticeService) End(ctx context.Context, userID string, lang domain.Language) (*Result, error) {
	unlock := s.lock(userID)
	defer unlock()

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sess.State() == domain.SessionActive {
		if _, ok := sess.End(); !ok {
			return nil, domain.ErrNothingRevealed
		}
	}

	stats, ok := sess.Stats()
	if !ok {
		return nil, domain.ErrSessionNotEnded
	}

	result, err := s.summarize(stats, sess, lang)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteSession(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	if err := s.fsm.SetState(ctx, userID, domain.StateStart); err != nil {
		return nil, fmt.Errorf("set state: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"session":  stats.SessionID,
		"words":    stats.TotalWords,
		"accuracy": stats.Accuracy,
	}).Info("session ended")
	return result, nil
}

func (s *PracticeService) summarize(stats domain.MemorizationStats, sess *session.Session, lang domain.Language) (*Result, error) {
	result := &Result{
		Stats:    stats,
		Score:    scoring.Score(stats.TotalWords, stats.ForgotCount, stats.TajwidCount),
		Verses:   sess.Verses(),
		FileName: summary.FileName(stats.EndedAt),
	}
	if s.summary.Fonts == nil {
		return result, nil
	}

	cfg := s.summary.Config
	cfg.Labels = s.Labels(lang)
	jpeg, err := summary.Render(stats, sess.Verses(), cfg, s.summary.Theme, s.summary.Fonts, s.summary.Quality)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	result.SummaryJPEG = jpeg
	return result, nil
}

// Labels returns the summary captions in the user's language
func (s *PracticeService) Labels(lang domain.Language) summary.Labels {
	return SummaryLabels(s.i18n, lang)
}

// SummaryLabels reads the summary captions of lang from i18n.
func SummaryLabels(i18n domain.I18nPort, lang domain.Language) summary.Labels {
	return summary.Labels{
		Title:    i18n.Get(lang, "summary.title"),
		Score:    i18n.Get(lang, "summary.score"),
		Accuracy: i18n.Get(lang, "summary.accuracy"),
		Rank:     i18n.Get(lang, "summary.rank"),
		Words:    i18n.Get(lang, "summary.words"),
		Forgot:   i18n.Get(lang, "summary.forgot"),
		Tajwid:   i18n.Get(lang, "summary.tajwid"),
		Review:   i18n.Get(lang, "summary.review"),
	}
}
