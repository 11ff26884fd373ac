package quranapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-hifz/internal/domain"
)

var testEditions = Editions{
	Text:            "quran-uthmani",
	Translation:     "en.sahih",
	Transliteration: "en.transliteration",
	Audio:           "ar.alafasy",
}

func envelope(data any) map[string]any {
	return map[string]any{"code": 200, "status": "OK", "data": data}
}

func ikhlas(edition string) map[string]any {
	texts := map[string][]string{
		"quran-uthmani": {
			"بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ قُلْ هُوَ ٱللَّهُ أَحَدٌ",
			"ٱللَّهُ ٱلصَّمَدُ",
		},
		"en.sahih":           {"Say, He is Allah, [who is] One,", "Allah, the Eternal Refuge."},
		"en.transliteration": {"Qul huwa Allahu ahad", "Allahu alssamad"},
		"ar.alafasy":         {"", ""},
	}
	ayahs := make([]map[string]any, 0, 2)
	for i, text := range texts[edition] {
		a := map[string]any{"number": 6222 + i, "text": text, "numberInSurah": i + 1}
		if edition == "ar.alafasy" {
			a["audio"] = "https://cdn.example/audio/" + string(rune('1'+i)) + ".mp3"
		}
		ayahs = append(ayahs, a)
	}
	return envelope(map[string]any{
		"number":      112,
		"name":        "سُورَةُ الإِخۡلَاصِ",
		"englishName": "Al-Ikhlaas",
		"ayahs":       ayahs,
	})
}

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", testEditions, time.Second)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSurahVerses(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		edition := r.URL.Path[len("/surah/112/"):]
		writeJSON(t, w, ikhlas(edition))
	})

	verses, err := client.SurahVerses(context.Background(), 112)
	require.NoError(t, err)
	require.Len(t, verses, 3)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"/surah/112/quran-uthmani",
		"/surah/112/en.sahih",
		"/surah/112/en.transliteration",
		"/surah/112/ar.alafasy",
	}, paths)

	pre := verses[0]
	assert.True(t, pre.IsPreamble())
	assert.Equal(t, domain.Bismillah, pre.Text)
	assert.Equal(t, 112, pre.Chapter.Number)

	first := verses[1]
	assert.Equal(t, 1, first.LocalNumber)
	assert.Equal(t, 6222, first.GlobalNumber)
	assert.Equal(t, "قُلْ هُوَ ٱللَّهُ أَحَدٌ", first.Text)
	assert.Equal(t, "Say, He is Allah, [who is] One,", first.Translation)
	assert.Equal(t, "Qul huwa Allahu ahad", first.Transliteration)
	assert.Equal(t, "https://cdn.example/audio/1.mp3", first.AudioRef)
	assert.Equal(t, domain.Chapter{Number: 112, NativeName: "سُورَةُ الإِخۡلَاصِ", EnglishName: "Al-Ikhlaas"}, first.Chapter)

	assert.Equal(t, "ٱللَّهُ ٱلصَّمَدُ", verses[2].Text)
}

func TestJuzVersesUsesPerAyahChapter(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, envelope(map[string]any{
			"number": 30,
			"ayahs": []map[string]any{
				{"number": 5672, "text": "وَٱلَّذِينَ", "numberInSurah": 40, "surah": map[string]any{"number": 77, "name": "المرسلات", "englishName": "Al-Mursalaat"}},
				{"number": 5673, "text": "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ عَمَّ يَتَسَآءَلُونَ", "numberInSurah": 1, "surah": map[string]any{"number": 78, "name": "النبأ", "englishName": "An-Naba"}},
			},
		}))
	})
	client.editions = Editions{Text: "quran-uthmani"}

	verses, err := client.JuzVerses(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, verses, 3)

	assert.Equal(t, 77, verses[0].Chapter.Number)
	assert.Equal(t, 40, verses[0].LocalNumber)
	assert.True(t, verses[1].IsPreamble())
	assert.Equal(t, 78, verses[1].Chapter.Number)
	assert.Equal(t, "عَمَّ يَتَسَآءَلُونَ", verses[2].Text)
	assert.Empty(t, verses[2].Translation)
}

func TestNoPreambleForOpeningAndRepentance(t *testing.T) {
	for _, number := range []int{1, 9} {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, envelope(map[string]any{
				"number":      number,
				"englishName": "X",
				"ayahs": []map[string]any{
					{"number": 1, "text": "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", "numberInSurah": 1},
				},
			}))
		})
		client.editions = Editions{Text: "quran-uthmani"}

		verses, err := client.SurahVerses(context.Background(), number)
		require.NoError(t, err)
		require.Len(t, verses, 1)
		assert.Equal(t, 1, verses[0].LocalNumber)
		assert.Equal(t, domain.Bismillah, verses[0].Text)
	}
}

func TestVersesErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "provider code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{"code": 404, "status": "Not Found", "data": "missing"})
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{"))
			},
		},
		{
			name: "edition length mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				body := ikhlas("quran-uthmani")
				if r.URL.Path == "/surah/112/en.sahih" {
					data := body["data"].(map[string]any)
					data["ayahs"] = data["ayahs"].([]map[string]any)[:1]
				}
				writeJSON(t, w, body)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, tt.handler)
			_, err := client.SurahVerses(context.Background(), 112)
			assert.Error(t, err)
		})
	}
}

func TestVersesValidatesInput(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", testEditions, time.Second)

	_, err := client.SurahVerses(context.Background(), 115)
	assert.True(t, errors.Is(err, domain.ErrInvalidSurah))

	_, err = client.JuzVerses(context.Background(), 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidJuz))
}

func TestStripPreamble(t *testing.T) {
	assert.Equal(t, "عَمَّ يَتَسَآءَلُونَ", stripPreamble("بِسْمِ ٱللَّهِ ٱلرَّحْمَـٰنِ ٱلرَّحِيمِ عَمَّ يَتَسَآءَلُونَ"))
	assert.Equal(t, "قُلْ هُوَ", stripPreamble("قُلْ هُوَ"))
	assert.Equal(t, domain.Bismillah, stripPreamble(domain.Bismillah))
}

func TestStripPreambleKeepsVerseWhitespace(t *testing.T) {
	text := "بِسْمِ ٱللَّهِ ٱلرَّحْمَـٰنِ ٱلرَّحِيمِ\n عَمَّ  يَتَسَآءَلُونَ ۝"
	assert.Equal(t, "عَمَّ  يَتَسَآءَلُونَ ۝", stripPreamble(text))

	// a partial invocation is not stripped
	assert.Equal(t, "بِسْمِ ٱللَّهِ عَمَّ", stripPreamble("بِسْمِ ٱللَّهِ عَمَّ"))
}
