package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/escalopa/quran-hifz/internal/domain"
)

var ikhlasChapter = domain.Chapter{Number: 112, NativeName: "الإخلاص", EnglishName: "Al-Ikhlaas"}

func ikhlasVerses() []domain.Ayah {
	return []domain.Ayah{
		{LocalNumber: 0, Chapter: ikhlasChapter, Text: domain.Bismillah},
		{LocalNumber: 1, GlobalNumber: 6222, Chapter: ikhlasChapter, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ", Translation: "Say, He is Allah, [who is] One,"},
		{LocalNumber: 2, GlobalNumber: 6223, Chapter: ikhlasChapter, Text: "ٱللَّهُ ٱلصَّمَدُ", Translation: "Allah, the Eternal Refuge."},
		{LocalNumber: 3, GlobalNumber: 6224, Chapter: ikhlasChapter, Text: "لَمْ يَلِدْ وَلَمْ يُولَدْ", Translation: "He neither begets nor is born,"},
		{LocalNumber: 4, GlobalNumber: 6225, Chapter: ikhlasChapter, Text: "وَلَمْ يَكُن لَّهُۥ كُفُوًا أَحَدٌۢ", Translation: "Nor is there to Him any equivalent."},
	}
}

type fakeVerses struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeVerses) SurahVerses(_ context.Context, surah int) ([]domain.Ayah, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return ikhlasVerses(), nil
}

func (f *fakeVerses) JuzVerses(_ context.Context, juz int) ([]domain.Ayah, error) {
	return f.SurahVerses(context.Background(), 112)
}

// memStore is an in-memory FSM and session store
type memStore struct {
	mu       sync.Mutex
	states   map[string]domain.State
	data     map[string]string
	sessions map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{
		states:   make(map[string]domain.State),
		data:     make(map[string]string),
		sessions: make(map[string][]byte),
	}
}

func (m *memStore) SetState(_ context.Context, userID string, state domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = state
	return nil
}

func (m *memStore) GetState(_ context.Context, userID string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[userID]; ok {
		return s, nil
	}
	return domain.StateStart, nil
}

func (m *memStore) DeleteState(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

func (m *memStore) SetData(_ context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID+":"+key] = value
	return nil
}

func (m *memStore) GetData(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[userID+":"+key]
	if !ok {
		return "", fmt.Errorf("data %q not found", key)
	}
	return v, nil
}

func (m *memStore) DeleteData(_ context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID+":"+key)
	return nil
}

func (m *memStore) SaveSession(_ context.Context, userID string, snapshot *domain.SessionSnapshot) error {
	data, err := encode(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = data
	return nil
}

func (m *memStore) LoadSession(_ context.Context, userID string) (*domain.SessionSnapshot, error) {
	m.mu.Lock()
	data, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoSession
	}
	return decode(data)
}

func (m *memStore) DeleteSession(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

type keyI18n struct{}

func (keyI18n) Get(_ domain.Language, key string, _ ...interface{}) string { return key }

func (keyI18n) GetSurahName(_ domain.Language, n int) string { return fmt.Sprintf("Surah %d", n) }
