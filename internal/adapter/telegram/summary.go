package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
)

// finish concludes the session shown on msg and posts its summary
func (b *Bot) finish(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	chatID := msg.Chat.ID

	result, err := b.service.End(ctx, userID, lang)
	switch {
	case errors.Is(err, domain.ErrNothingRevealed):
		b.sendMessage(chatID, b.i18n.Get(lang, "practice.nothing_revealed"))
		return
	case errors.Is(err, domain.ErrNoSession):
		b.sendMessage(chatID, b.i18n.Get(lang, "error.no_session"))
		return
	case err != nil:
		b.log.WithError(err).WithField("user_id", userID).Error("end session")
		b.sendMessage(chatID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.editMessageWithKeyboard(msg, b.formatSummary(lang, result), b.finishedKeyboard(lang))

	if len(result.SummaryJPEG) == 0 {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: result.FileName, Bytes: result.SummaryJPEG})
	photo.Caption = b.i18n.Get(lang, "summary.title")
	b.send(photo)
}

// formatSummary renders the end-of-session statistics as plain text
func (b *Bot) formatSummary(lang domain.Language, result *application.Result) string {
	var text strings.Builder
	stats := result.Stats

	fmt.Fprintf(&text, "🏁 %s\n\n", b.i18n.Get(lang, "summary.title"))
	fmt.Fprintf(&text, "🏆 %s: %d\n", b.i18n.Get(lang, "summary.score"), result.Score.Score)
	fmt.Fprintf(&text, "🎯 %s: %.2f%%\n", b.i18n.Get(lang, "summary.accuracy"), stats.Accuracy)
	fmt.Fprintf(&text, "🏅 %s: %s\n", b.i18n.Get(lang, "summary.rank"), result.Score.Rank)
	fmt.Fprintf(&text, "📖 %s: %d\n", b.i18n.Get(lang, "summary.words"), stats.TotalWords)
	fmt.Fprintf(&text, "❌ %s: %d\n", b.i18n.Get(lang, "summary.forgot"), stats.ForgotCount)
	fmt.Fprintf(&text, "⚠️ %s: %d\n", b.i18n.Get(lang, "summary.tajwid"), stats.TajwidCount)

	if len(stats.Mistakes) > 0 {
		fmt.Fprintf(&text, "\n%s:\n", b.i18n.Get(lang, "summary.review"))
		for _, m := range stats.Mistakes {
			if m.VerseIndex < 0 || m.VerseIndex >= len(result.Verses) {
				continue
			}
			verse := result.Verses[m.VerseIndex]
			fmt.Fprintf(&text, "%s %d:%d #%d\n", mistakeEmoji(m.Kind), verse.Chapter.Number, verse.LocalNumber, m.WordIndex+1)
		}
	}

	return text.String()
}
