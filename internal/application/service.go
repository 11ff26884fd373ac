package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/escalopa/quran-hifz/internal/domain"
)

// PracticeService handles the business logic for practice sessions. Events of
// one user are applied one at a time; different users proceed in parallel.
type PracticeService struct {
	verses  domain.VersePort
	store   domain.SessionStorePort
	fsm     domain.FSMPort
	i18n    domain.I18nPort
	summary SummaryOptions
	log     logrus.FieldLogger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock is dropped from the map once no event of the user holds or waits
// on it.
type userLock struct {
	sync.Mutex
	refs int
}

func NewPracticeService(
	verses domain.VersePort,
	store domain.SessionStorePort,
	fsm domain.FSMPort,
	i18n domain.I18nPort,
	summary SummaryOptions,
	log logrus.FieldLogger,
) *PracticeService {
	return &PracticeService{
		verses:  verses,
		store:   store,
		fsm:     fsm,
		i18n:    i18n,
		summary: summary,
		log:     log,
		now:     time.Now,
		locks:   make(map[string]*userLock),
	}
}

// lock serializes the events of a single user
func (s *PracticeService) lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// HandleStart resets the conversation to the mode choice
func (s *PracticeService) HandleStart(ctx context.Context, userID string, lang domain.Language) error {
	if err := s.fsm.SetState(ctx, userID, domain.StateStart); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}

	return nil
}

// GetCurrentState returns the current state for a user
func (s *PracticeService) GetCurrentState(ctx context.Context, userID string) (domain.State, error) {
	return s.fsm.GetState(ctx, userID)
}

// ChooseSurahMode moves the user to the surah picker
func (s *PracticeService) ChooseSurahMode(ctx context.Context, userID string) error {
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectSurah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

// ChooseJuzMode moves the user to the juz picker
func (s *PracticeService) ChooseJuzMode(ctx context.Context, userID string) error {
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectJuz); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

// HandleSurahSelection handles when a user selects a Surah
func (s *PracticeService) HandleSurahSelection(ctx context.Context, userID string, surahNumber int) error {
	if _, err := domain.GetSurah(surahNumber); err != nil {
		return err
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeySurah, strconv.Itoa(surahNumber)); err != nil {
		return fmt.Errorf("set surah: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateEnterAyah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

// HandleAyahInput validates the typed start verse and begins the session
func (s *PracticeService) HandleAyahInput(ctx context.Context, userID, input string) (View, error) {
	ayahNumber, err := strconv.Atoi(input)
	if err != nil {
		return View{}, fmt.Errorf("%w: %q", domain.ErrInvalidAyah, input)
	}

	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return View{}, err
	}

	return s.StartSurah(ctx, userID, surahNumber, ayahNumber)
}

// GetUserLanguage retrieves the user's preferred language
func (s *PracticeService) GetUserLanguage(ctx context.Context, userID string) domain.Language {
	langStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyLanguage)
	if err != nil || langStr == "" {
		return domain.LangEnglish
	}
	return domain.Language(langStr)
}

// GetSelectedSurah returns the currently selected surah for a user
func (s *PracticeService) GetSelectedSurah(ctx context.Context, userID string) (int, error) {
	surahStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeySurah)
	if err != nil {
		return 0, fmt.Errorf("get surah: %w", err)
	}

	n, err := strconv.Atoi(surahStr)
	if err != nil {
		return 0, fmt.Errorf("parse surah: %w", err)
	}
	return n, nil
}

// GetAllSurahs returns all surahs
func (s *PracticeService) GetAllSurahs() []domain.Surah {
	return domain.GetAllSurahs()
}

// GetAyahInput gets the accumulated ayah input for a user
func (s *PracticeService) GetAyahInput(ctx context.Context, userID string) string {
	input, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyahInput)
	if err != nil {
		return ""
	}
	return input
}

// SetAyahInput sets the accumulated ayah input for a user
func (s *PracticeService) SetAyahInput(ctx context.Context, userID, input string) error {
	return s.fsm.SetData(ctx, userID, domain.SessionKeyAyahInput, input)
}

// ClearAyahInput clears the accumulated ayah input for a user
func (s *PracticeService) ClearAyahInput(ctx context.Context, userID string) error {
	return s.fsm.DeleteData(ctx, userID, domain.SessionKeyAyahInput)
}

// SetPracticeMessage remembers the chat message that shows the practice card
func (s *PracticeService) SetPracticeMessage(ctx context.Context, userID string, messageID int) error {
	return s.fsm.SetData(ctx, userID, domain.SessionKeyMessage, strconv.Itoa(messageID))
}

// GetPracticeMessage returns 0 when no practice card is known
func (s *PracticeService) GetPracticeMessage(ctx context.Context, userID string) int {
	val, err := s.fsm.GetData(ctx, userID, domain.SessionKeyMessage)
	if err != nil {
		return 0
	}
	id, _ := strconv.Atoi(val)
	return id
}
