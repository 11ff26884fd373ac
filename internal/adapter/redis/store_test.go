package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "fsm:state:42", stateKey("42"))
	assert.Equal(t, "fsm:data:42:surah", dataKey("42", domain.SessionKeySurah))
	assert.Equal(t, "session:42", sessionKey("42"))
}

func TestSnapshotCodec(t *testing.T) {
	snap := &domain.SessionSnapshot{
		ID:          "abc",
		Mode:        domain.ModeSurah,
		StartNumber: 2,
		State:       domain.SessionActive,
		Verses: []domain.Ayah{
			{LocalNumber: 1, Chapter: domain.Chapter{Number: 112}, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ"},
		},
		Progress: domain.SessionProgress{CurrentWordIndex: 2, FurthestWordIndex: 2, TotalWordsCounted: 3},
		Mistakes: []domain.Mistake{{VerseIndex: 0, WordIndex: 1, Kind: domain.MistakeTajwid}},
	}

	data, err := encodeSnapshot(snap)
	require.NoError(t, err)
	got, err := decodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = encodeSnapshot(nil)
	assert.Error(t, err)
	_, err = decodeSnapshot([]byte("not json"))
	assert.Error(t, err)
}

// Runs against a real server when REDIS_URI is set.
func TestStoreIntegration(t *testing.T) {
	uri := os.Getenv("REDIS_URI")
	if uri == "" {
		t.Skip("REDIS_URI not set")
	}
	store, err := NewStore(uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	store.ttl = time.Minute

	ctx := context.Background()
	user := uuid.NewString()
	t.Cleanup(func() {
		_ = store.DeleteState(ctx, user)
		_ = store.DeleteData(ctx, user, domain.SessionKeySurah)
		_ = store.DeleteSession(ctx, user)
	})

	state, err := store.GetState(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, state)

	require.NoError(t, store.SetState(ctx, user, domain.StatePracticing))
	state, err = store.GetState(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePracticing, state)

	_, err = store.GetData(ctx, user, domain.SessionKeySurah)
	assert.Error(t, err)
	require.NoError(t, store.SetData(ctx, user, domain.SessionKeySurah, "78"))
	val, err := store.GetData(ctx, user, domain.SessionKeySurah)
	require.NoError(t, err)
	assert.Equal(t, "78", val)

	_, err = store.LoadSession(ctx, user)
	assert.True(t, errors.Is(err, domain.ErrNoSession))

	snap := &domain.SessionSnapshot{ID: "s1", Mode: domain.ModeJuz, State: domain.SessionActive}
	require.NoError(t, store.SaveSession(ctx, user, snap))
	got, err := store.LoadSession(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, domain.ModeJuz, got.Mode)

	require.NoError(t, store.DeleteSession(ctx, user))
	_, err = store.LoadSession(ctx, user)
	assert.True(t, errors.Is(err, domain.ErrNoSession))
}
