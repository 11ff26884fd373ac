package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/domain"
)

func writeLocales(t *testing.T, files map[domain.Language]string) string {
	t.Helper()
	dir := t.TempDir()
	for lang, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(lang)+".yaml"), []byte(body), 0o600))
	}
	return dir
}

func TestGet(t *testing.T) {
	dir := writeLocales(t, map[domain.Language]string{
		domain.LangEnglish: "messages:\n  hello: \"Hello %s\"\n  only_en: English only\n",
		domain.LangArabic:  "messages:\n  hello: \"مرحبا %s\"\n",
		domain.LangRussian: "messages: {}\n",
	})

	tr, err := NewI18n(dir, domain.LangEnglish)
	require.NoError(t, err)

	assert.Equal(t, "Hello Zaid", tr.Get(domain.LangEnglish, "hello", "Zaid"))
	assert.Equal(t, "مرحبا Zaid", tr.Get(domain.LangArabic, "hello", "Zaid"))
	assert.Equal(t, "English only", tr.Get(domain.LangArabic, "only_en"))
	assert.Equal(t, "Hello %s", tr.Get(domain.LangRussian, "hello"))
	assert.Equal(t, "missing.key", tr.Get(domain.LangEnglish, "missing.key"))
}

func TestGetSurahName(t *testing.T) {
	dir := writeLocales(t, map[domain.Language]string{
		domain.LangEnglish: "messages: {}\n",
		domain.LangArabic:  "messages: {}\n",
		domain.LangRussian: "messages: {}\nsurahs:\n  - \" Аль-Фатиха \"\n",
	})

	tr, err := NewI18n(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "Аль-Фатиха", tr.GetSurahName(domain.LangRussian, 1))
	assert.Equal(t, "An-Naba", tr.GetSurahName(domain.LangRussian, 78))
	assert.Equal(t, "An-Naba", tr.GetSurahName(domain.LangEnglish, 78))
	assert.Equal(t, "Surah 200", tr.GetSurahName(domain.LangEnglish, 200))
	assert.Equal(t, "78. An-Naba", FormatSurahButton(domain.LangEnglish, tr, 78))

	surah, err := domain.GetSurah(78)
	require.NoError(t, err)
	assert.Equal(t, surah.ArabicName, tr.GetSurahName(domain.LangArabic, 78))
}

func TestNewI18nMissingLocale(t *testing.T) {
	dir := writeLocales(t, map[domain.Language]string{
		domain.LangEnglish: "messages: {}\n",
	})

	_, err := NewI18n(dir, domain.LangEnglish)
	assert.Error(t, err)
}

func TestShippedLocales(t *testing.T) {
	tr, err := NewI18n(filepath.Join("..", "..", "..", "locales"), domain.LangEnglish)
	require.NoError(t, err)

	for _, key := range []string{"welcome.message", "summary.title", "practice.header", "help.message"} {
		for _, lang := range Languages {
			assert.NotEqual(t, key, tr.Get(lang, key), "%s missing in %s", key, lang)
		}
	}
}
