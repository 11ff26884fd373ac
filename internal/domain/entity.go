package domain

import "time"

// Chapter identifies the surah a verse belongs to
type Chapter struct {
	Number      int    `json:"number"`
	NativeName  string `json:"native_name"`
	EnglishName string `json:"english_name"`
}

// Ayah represents a verse as delivered by the verse provider
type Ayah struct {
	LocalNumber     int     `json:"local_number"` // 0 = preamble
	GlobalNumber    int     `json:"global_number"`
	Chapter         Chapter `json:"chapter"`
	Text            string  `json:"text"`
	Translation     string  `json:"translation"`
	Transliteration string  `json:"transliteration"`
	AudioRef        string  `json:"audio_ref,omitempty"`
}

// IsPreamble reports whether the verse is the synthetic invocation placeholder
func (a Ayah) IsPreamble() bool {
	return a.LocalNumber == 0
}

// AyahID returns the formatted ayah ID (XXXYYY format)
func (a Ayah) AyahID() string {
	return FormatAyahID(a.Chapter.Number, a.LocalNumber)
}

type MistakeKind string

const (
	MistakeForgot MistakeKind = "forgot"
	MistakeTajwid MistakeKind = "tajwid"
)

// Mistake is a single tagged word within a session's verse list
type Mistake struct {
	VerseIndex int         `json:"verse_index"`
	WordIndex  int         `json:"word_index"`
	Kind       MistakeKind `json:"kind"`
}

// SessionProgress is the mutable position of a running session
type SessionProgress struct {
	CurrentVerseIndex      int `json:"current_verse_index"`
	CurrentWordIndex       int `json:"current_word_index"`
	FurthestVerseIndex     int `json:"furthest_verse_index"`
	FurthestWordIndex      int `json:"furthest_word_index"`
	SessionStartVerseIndex int `json:"session_start_verse_index"`
	TotalWordsCounted      int `json:"total_words_counted"`
}

// MemorizationStats is the immutable result of a concluded session
type MemorizationStats struct {
	SessionID   string    `json:"session_id,omitempty"`
	TotalWords  int       `json:"total_words"`
	ForgotCount int       `json:"forgot_count"`
	TajwidCount int       `json:"tajwid_count"`
	Accuracy    float64   `json:"accuracy"`
	Mistakes    []Mistake `json:"mistakes"`
	EndedAt     time.Time `json:"ended_at"`
}

type SessionState string

const (
	SessionNotStarted      SessionState = "not_started"
	SessionShowingPreamble SessionState = "showing_preamble"
	SessionActive          SessionState = "active"
	SessionEnded           SessionState = "ended"
)

type PracticeMode string

const (
	ModeSurah PracticeMode = "surah"
	ModeJuz   PracticeMode = "juz"
)

// SessionSnapshot is everything needed to rebuild a session between events
type SessionSnapshot struct {
	ID          string             `json:"id"`
	Mode        PracticeMode       `json:"mode"`
	StartNumber int                `json:"start_number"`
	State       SessionState       `json:"state"`
	Verses      []Ayah             `json:"verses"`
	Progress    SessionProgress    `json:"progress"`
	Mistakes    []Mistake          `json:"mistakes"`
	Stats       *MemorizationStats `json:"stats,omitempty"`
}

// Language represents supported languages
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
	LangRussian Language = "ru"
)
