package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/escalopa/quran-hifz/internal/domain"
)

type I18n struct {
	fallback     domain.Language
	translations map[domain.Language]map[string]string
	surahs       map[domain.Language][]string
}

type translationFile struct {
	Messages map[string]string `yaml:"messages"`
	Surahs   []string          `yaml:"surahs"`
}

// Languages lists the locales loaded from the locales directory
var Languages = []domain.Language{domain.LangEnglish, domain.LangArabic, domain.LangRussian}

// NewI18n loads <lang>.yaml for every supported language. Missing keys fall
// back to the default language and then to the key itself.
func NewI18n(localesDir string, fallback domain.Language) (*I18n, error) {
	if fallback == "" {
		fallback = domain.LangEnglish
	}
	i18n := &I18n{
		fallback:     fallback,
		translations: make(map[domain.Language]map[string]string),
		surahs:       make(map[domain.Language][]string),
	}

	for _, lang := range Languages {
		filename := filepath.Join(localesDir, string(lang)+".yaml")
		if err := i18n.loadTranslations(lang, filename); err != nil {
			return nil, fmt.Errorf("load %s translations: %w", lang, err)
		}
	}

	return i18n, nil
}

func (i *I18n) loadTranslations(lang domain.Language, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var tf translationFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	i.translations[lang] = tf.Messages
	i.surahs[lang] = tf.Surahs

	return nil
}

// Get retrieves a translated message
func (i *I18n) Get(lang domain.Language, key string, args ...interface{}) string {
	msg, ok := i.translations[lang][key]
	if !ok {
		msg, ok = i.translations[i.fallback][key]
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return msg
}

// GetSurahName retrieves the localized name of a Surah. Locales without a
// surah list use the built-in table.
func (i *I18n) GetSurahName(lang domain.Language, surahNumber int) string {
	if names := i.surahs[lang]; surahNumber >= 1 && surahNumber <= len(names) {
		return strings.TrimSpace(names[surahNumber-1])
	}

	surah, err := domain.GetSurah(surahNumber)
	if err != nil {
		return fmt.Sprintf("Surah %d", surahNumber)
	}
	if lang == domain.LangArabic {
		return surah.ArabicName
	}
	return surah.Name
}

// FormatSurahButton formats a surah button text with number and name
func FormatSurahButton(lang domain.Language, i18n domain.I18nPort, surahNumber int) string {
	return fmt.Sprintf("%d. %s", surahNumber, i18n.GetSurahName(lang, surahNumber))
}
