package domain

import (
	"context"
)

// VersePort defines the interface for the verse-data provider
type VersePort interface {
	// SurahVerses returns the verses of a chapter, preamble-annotated
	SurahVerses(ctx context.Context, surahNumber int) ([]Ayah, error)

	// JuzVerses returns the verses of a part, preamble-annotated at chapter starts
	JuzVerses(ctx context.Context, juz int) ([]Ayah, error)
}

// FSMPort defines the interface for finite state machine storage
type FSMPort interface {
	// SetState sets the current state for a user
	SetState(ctx context.Context, userID string, state State) error

	// GetState gets the current state for a user
	GetState(ctx context.Context, userID string) (State, error)

	// DeleteState deletes the state for a user
	DeleteState(ctx context.Context, userID string) error

	// SetData sets temporary data for a user's current session
	SetData(ctx context.Context, userID, key, value string) error

	// GetData gets temporary data for a user's current session
	GetData(ctx context.Context, userID, key string) (string, error)

	// DeleteData deletes temporary data for a user
	DeleteData(ctx context.Context, userID, key string) error
}

// SessionStorePort keeps the running practice session of each user
type SessionStorePort interface {
	// SaveSession stores the snapshot, replacing any previous one
	SaveSession(ctx context.Context, userID string, snapshot *SessionSnapshot) error

	// LoadSession returns ErrNoSession when the user has no session
	LoadSession(ctx context.Context, userID string) (*SessionSnapshot, error)

	// DeleteSession discards the user's session
	DeleteSession(ctx context.Context, userID string) error
}

// I18nPort defines the interface for internationalization
type I18nPort interface {
	// Get retrieves a translated message
	Get(lang Language, key string, args ...interface{}) string

	// GetSurahName retrieves the localized name of a Surah
	GetSurahName(lang Language, surahNumber int) string
}

// BotPort defines the interface for the bot adapter
type BotPort interface {
	// Start starts the bot
	Start(ctx context.Context) error

	// Stop stops the bot
	Stop() error
}

// State represents the FSM states
type State string

const (
	StateStart       State = "start"
	StateSelectSurah State = "select_surah"
	StateEnterAyah   State = "enter_ayah"
	StateSelectJuz   State = "select_juz"
	StatePracticing  State = "practicing"
)

// SessionData keys
const (
	SessionKeySurah     = "surah"
	SessionKeyAyahInput = "ayah_input" // Accumulated digit input for ayah number
	SessionKeyLanguage  = "language"
	SessionKeyMessage   = "practice_message" // Message ID of the practice card
)
