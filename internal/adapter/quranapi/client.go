package quranapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/escalopa/quran-hifz/internal/domain"
)

const (
	preambleTranslation     = "In the name of Allah, the Entirely Merciful, the Especially Merciful."
	preambleTransliteration = "Bismi Allahi alrrahmani alrraheemi"
)

// Editions names the provider editions merged into each verse
type Editions struct {
	Text            string
	Translation     string
	Transliteration string
	Audio           string // optional
}

type Client struct {
	baseURL    string
	editions   Editions
	httpClient *http.Client
}

func NewClient(baseURL string, editions Editions, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		editions: editions,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SurahVerses returns the verses of a chapter with its preamble inserted
func (c *Client) SurahVerses(ctx context.Context, surahNumber int) ([]domain.Ayah, error) {
	if _, err := domain.GetSurah(surahNumber); err != nil {
		return nil, err
	}
	return c.verses(ctx, fmt.Sprintf("surah/%d", surahNumber))
}

// JuzVerses returns the verses of a part with a preamble before every chapter
// that starts inside it
func (c *Client) JuzVerses(ctx context.Context, juz int) ([]domain.Ayah, error) {
	if err := domain.ValidateJuz(juz); err != nil {
		return nil, err
	}
	return c.verses(ctx, fmt.Sprintf("juz/%d", juz))
}

func (c *Client) verses(ctx context.Context, resource string) ([]domain.Ayah, error) {
	text, err := c.fetch(ctx, resource, c.editions.Text)
	if err != nil {
		return nil, fmt.Errorf("fetch text: %w", err)
	}
	if len(text.Ayahs) == 0 {
		return nil, fmt.Errorf("fetch text: empty %s", resource)
	}

	var translation, transliteration, audio *editionData
	if c.editions.Translation != "" {
		if translation, err = c.fetchAligned(ctx, resource, c.editions.Translation, len(text.Ayahs)); err != nil {
			return nil, fmt.Errorf("fetch translation: %w", err)
		}
	}
	if c.editions.Transliteration != "" {
		if transliteration, err = c.fetchAligned(ctx, resource, c.editions.Transliteration, len(text.Ayahs)); err != nil {
			return nil, fmt.Errorf("fetch transliteration: %w", err)
		}
	}
	if c.editions.Audio != "" {
		if audio, err = c.fetchAligned(ctx, resource, c.editions.Audio, len(text.Ayahs)); err != nil {
			return nil, fmt.Errorf("fetch audio: %w", err)
		}
	}

	verses := make([]domain.Ayah, 0, len(text.Ayahs)+1)
	for i, a := range text.Ayahs {
		chapter := text.chapter(a)
		ayah := domain.Ayah{
			LocalNumber:  a.NumberInSurah,
			GlobalNumber: a.Number,
			Chapter:      chapter,
			Text:         strings.TrimPrefix(a.Text, "\ufeff"),
		}
		if translation != nil {
			ayah.Translation = translation.Ayahs[i].Text
		}
		if transliteration != nil {
			ayah.Transliteration = transliteration.Ayahs[i].Text
		}
		if audio != nil {
			ayah.AudioRef = audio.Ayahs[i].Audio
		}

		if ayah.LocalNumber == 1 && domain.HasPreamble(chapter.Number) {
			ayah.Text = stripPreamble(ayah.Text)
			verses = append(verses, preamble(chapter))
		}
		verses = append(verses, ayah)
	}

	return verses, nil
}

func (c *Client) fetchAligned(ctx context.Context, resource, edition string, want int) (*editionData, error) {
	data, err := c.fetch(ctx, resource, edition)
	if err != nil {
		return nil, err
	}
	if len(data.Ayahs) != want {
		return nil, fmt.Errorf("edition %s has %d ayahs, want %d", edition, len(data.Ayahs), want)
	}
	return data, nil
}

func (c *Client) fetch(ctx context.Context, resource, edition string) (*editionData, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, edition)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Code   int         `json:"code"`
		Status string      `json:"status"`
		Data   editionData `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Code != http.StatusOK {
		return nil, fmt.Errorf("API error (code %d): %s", result.Code, result.Status)
	}

	return &result.Data, nil
}

type surahResponse struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

type ayahResponse struct {
	Number        int            `json:"number"`
	Text          string         `json:"text"`
	NumberInSurah int            `json:"numberInSurah"`
	Audio         string         `json:"audio"`
	Surah         *surahResponse `json:"surah"`
}

// editionData covers both the surah and the juz payloads. Surah payloads carry
// the chapter at the top level, juz payloads on every ayah.
type editionData struct {
	Number      int            `json:"number"`
	Name        string         `json:"name"`
	EnglishName string         `json:"englishName"`
	Ayahs       []ayahResponse `json:"ayahs"`
}

func (d *editionData) chapter(a ayahResponse) domain.Chapter {
	if a.Surah != nil {
		return domain.Chapter{Number: a.Surah.Number, NativeName: a.Surah.Name, EnglishName: a.Surah.EnglishName}
	}
	return domain.Chapter{Number: d.Number, NativeName: d.Name, EnglishName: d.EnglishName}
}

func preamble(chapter domain.Chapter) domain.Ayah {
	return domain.Ayah{
		LocalNumber:     0,
		Chapter:         chapter,
		Text:            domain.Bismillah,
		Translation:     preambleTranslation,
		Transliteration: preambleTransliteration,
	}
}

// stripPreamble removes the invocation some editions prepend to the first
// verse. Words are compared on their letters only, so differing diacritics
// still match. The rest of the verse is returned as the provider sent it.
func stripPreamble(text string) string {
	offset := 0
	for _, w := range strings.Fields(domain.Bismillah) {
		start, end := nextField(text, offset)
		if start == end || letters(text[start:end]) != letters(w) {
			return text
		}
		offset = end
	}
	rest := strings.TrimLeftFunc(text[offset:], unicode.IsSpace)
	if rest == "" {
		return text
	}
	return rest
}

// nextField returns the byte bounds of the first whitespace separated field at
// or after from.
func nextField(text string, from int) (int, int) {
	start := from
	for start < len(text) {
		r, size := utf8.DecodeRuneInString(text[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	end := start
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return start, end
}

func letters(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) && r != '\u0640' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
