package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/session"
	"github.com/escalopa/quran-hifz/internal/summary"
)

var ikhlas = domain.Chapter{Number: 112, NativeName: "الإخلاص", EnglishName: "Al-Ikhlaas"}

func ikhlasSession() *session.Session {
	return session.New([]domain.Ayah{
		{LocalNumber: 0, Chapter: ikhlas, Text: domain.Bismillah},
		{LocalNumber: 1, Chapter: ikhlas, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ", Translation: "Say, He is Allah, [who is] One,"},
		{LocalNumber: 2, Chapter: ikhlas, Text: "ٱللَّهُ ٱلصَّمَدُ", Translation: "Allah, the Eternal Refuge."},
	}, domain.ModeSurah, 1)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestModelNavigation(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, t.TempDir())
	sess := m.Session()
	require.Equal(t, domain.SessionActive, sess.State())
	assert.Equal(t, 1, sess.Progress().CurrentVerseIndex)

	press(m, "left", "space", "left")
	assert.Equal(t, 3, sess.Progress().CurrentWordIndex)

	press(m, "left")
	assert.Equal(t, 2, sess.Progress().CurrentVerseIndex)
	assert.Equal(t, "Al-Ikhlaas 112:2", m.status)

	press(m, "right")
	assert.Equal(t, 1, sess.Progress().CurrentVerseIndex)
	assert.Equal(t, 3, sess.Progress().CurrentWordIndex)
	assert.Equal(t, 5, sess.Progress().TotalWordsCounted)
}

func TestModelMarks(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, t.TempDir())
	sess := m.Session()

	press(m, "f")
	mistake, ok := sess.Mistake(1, 0)
	require.True(t, ok)
	assert.Equal(t, domain.MistakeForgot, mistake.Kind)

	press(m, "t")
	assert.Equal(t, "word already marked", m.status)

	press(m, "u")
	_, ok = sess.Mistake(1, 0)
	assert.False(t, ok)

	press(m, "u")
	assert.Equal(t, "no mark on this word", m.status)

	press(m, "left", "t")
	assert.Len(t, sess.Mistakes(), 1)
	assert.Contains(t, m.View(), "tajwid 1")
}

func TestModelEndExports(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, "out")
	var exported *domain.SessionSnapshot
	m.export = func(dir string, snap *domain.SessionSnapshot, _ application.SummaryOptions) (Exported, error) {
		assert.Equal(t, "out", dir)
		exported = snap
		return Exported{StatsPath: "out/s.json"}, nil
	}

	press(m, "f", "left")
	cmd := press(m, "e")
	require.NotNil(t, cmd)
	assert.Equal(t, domain.SessionEnded, m.Session().State())

	msg := cmd()
	require.NotNil(t, exported)
	require.NotNil(t, exported.Stats)
	assert.Equal(t, 2, exported.Stats.TotalWords)
	assert.Equal(t, 1, exported.Stats.ForgotCount)

	m.Update(msg)
	view := m.View()
	assert.Contains(t, view, "Session complete")
	assert.Contains(t, view, "accuracy 50.00%")
	assert.Contains(t, view, "out/s.json")

	// keys other than quit are ignored once ended
	assert.Nil(t, press(m, "left"))
}

func TestModelAdvancePastEndExports(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, "out")
	m.export = func(string, *domain.SessionSnapshot, application.SummaryOptions) (Exported, error) {
		return Exported{}, errors.New("disk full")
	}

	var cmd tea.Cmd
	for i := 0; i < 6 && cmd == nil; i++ {
		cmd = press(m, "space")
	}
	require.NotNil(t, cmd)
	stats, ok := m.Session().Stats()
	require.True(t, ok)
	assert.Equal(t, 6, stats.TotalWords)

	m.Update(cmd())
	assert.Equal(t, "export failed: disk full", m.status)
}

func TestModelQuit(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, t.TempDir())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelViewShowsRevealedOnly(t *testing.T) {
	m := NewModel(ikhlasSession(), application.SummaryOptions{}, t.TempDir())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "قُلْ")
	assert.NotContains(t, view, "هُوَ")
	assert.NotContains(t, view, "Say, He is Allah")

	press(m, "left", "left", "left")
	view = m.View()
	assert.Contains(t, view, "أَحَدٌ")
	assert.Contains(t, view, "Say, He is Allah")
}

func TestExportWritesFiles(t *testing.T) {
	fonts, err := summary.LoadFonts("")
	require.NoError(t, err)

	sess := ikhlasSession()
	sess.Start()
	sess.MarkMistake(domain.MistakeTajwid)
	_, ok := sess.End()
	require.True(t, ok)

	dir := filepath.Join(t.TempDir(), "nested")
	files, err := Export(dir, sess.Snapshot(), application.SummaryOptions{
		Config: summary.DefaultConfig(),
		Theme:  summary.LightTheme,
		Fonts:  fonts,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(files.ImagePath), "hifz-summary-"))
	assert.True(t, strings.HasSuffix(files.StatsPath, ".json"))
	img, err := os.ReadFile(files.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, img[:2])

	snap, err := LoadSnapshot(files.StatsPath)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Stats.TajwidCount)
	assert.Len(t, snap.Verses, 3)
}

func TestExportRenderFailureLeavesNoFiles(t *testing.T) {
	fonts, err := summary.LoadFonts("")
	require.NoError(t, err)

	sess := ikhlasSession()
	sess.Start()
	_, ok := sess.End()
	require.True(t, ok)

	cfg := summary.DefaultConfig()
	cfg.Width = 0
	dir := t.TempDir()
	_, err = Export(dir, sess.Snapshot(), application.SummaryOptions{
		Config: cfg,
		Theme:  summary.LightTheme,
		Fonts:  fonts,
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportRequiresEndedSession(t *testing.T) {
	sess := ikhlasSession()
	sess.Start()

	_, err := Export(t.TempDir(), sess.Snapshot(), application.SummaryOptions{})
	assert.True(t, errors.Is(err, domain.ErrSessionNotEnded))
}

func TestWrapSegments(t *testing.T) {
	segs := []segment{{s: "aaaa", width: 4}, {s: "bb", width: 2}, {s: "cccc", width: 4}}
	assert.Equal(t, []string{"aaaa bb", "cccc"}, wrapSegments(segs, 7))
	assert.Equal(t, []string{"aaaa", "bb", "cccc"}, wrapSegments(segs, 3))
}
