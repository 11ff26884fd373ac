package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/escalopa/quran-hifz/internal/domain"
)

// sendVerseAudio posts the recitation of a verse. Telegram downloads the file
// from the provider's CDN itself.
func (b *Bot) sendVerseAudio(chatID int64, lang domain.Language, verse domain.Ayah) {
	if verse.AudioRef == "" {
		b.sendMessage(chatID, b.i18n.Get(lang, "practice.no_audio"))
		return
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(verse.AudioRef))
	audio.Title = audioTitle(b.i18n.GetSurahName(lang, verse.Chapter.Number), verse)
	audio.Caption = verse.AyahID()
	if _, ok := b.send(audio); !ok {
		b.sendMessage(chatID, b.i18n.Get(lang, "practice.no_audio"))
	}
}

func audioTitle(surahName string, verse domain.Ayah) string {
	return fmt.Sprintf("%s %d:%d", surahName, verse.Chapter.Number, verse.LocalNumber)
}
