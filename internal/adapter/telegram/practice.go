package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
)

func (b *Bot) handlePractice(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language, action practiceAction) {
	log := b.log.WithFields(logrus.Fields{"user_id": userID, "action": action})

	var (
		view  application.View
		toast string
		err   error
	)

	switch action {
	case actionNext:
		view, err = b.service.Advance(ctx, userID)
	case actionBack:
		view, err = b.service.Retreat(ctx, userID)
	case actionForgot, actionTajwid:
		kind := domain.MistakeForgot
		if action == actionTajwid {
			kind = domain.MistakeTajwid
		}
		var marked bool
		view, marked, err = b.service.Mark(ctx, userID, kind)
		toast = b.i18n.Get(lang, "practice.already_marked")
		if marked {
			toast = b.i18n.Get(lang, "practice.marked_"+string(kind))
		}
	case actionUndo:
		var removed bool
		view, removed, err = b.service.Unmark(ctx, userID)
		toast = b.i18n.Get(lang, "practice.nothing_to_undo")
		if removed {
			toast = b.i18n.Get(lang, "practice.unmarked")
		}
	case actionAudio:
		view, err = b.service.Current(ctx, userID)
		if err == nil {
			b.answerCallback(callback.ID, "")
			b.sendVerseAudio(callback.Message.Chat.ID, lang, view.Verse)
			return
		}
	case actionEnd:
		b.answerCallback(callback.ID, "")
		b.finish(ctx, callback.Message, userID, lang)
		return
	default:
		b.answerCallback(callback.ID, "")
		return
	}

	if errors.Is(err, domain.ErrNoSession) {
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.no_session"))
		return
	}
	if err != nil {
		log.WithError(err).Error("practice event")
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	if toast == "" && view.VerseChanged && view.State == domain.SessionActive {
		toast = fmt.Sprintf("%d:%d", view.Verse.Chapter.Number, view.Verse.LocalNumber)
	}
	b.answerCallback(callback.ID, toast)

	if view.State == domain.SessionEnded {
		b.finish(ctx, callback.Message, userID, lang)
		return
	}
	b.editCard(callback.Message, lang, view)
}

// showCard turns an existing message into the practice card
func (b *Bot) showCard(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, view application.View) {
	b.editCard(msg, lang, view)
	if err := b.service.SetPracticeMessage(ctx, userID, msg.MessageID); err != nil {
		b.log.WithError(err).WithField("user_id", userID).Warn("remember practice message")
	}
}

func (b *Bot) sendCard(ctx context.Context, chatID int64, userID string, lang domain.Language, view application.View) {
	msg := tgbotapi.NewMessage(chatID, b.formatCard(lang, view))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = b.practiceKeyboard(lang, view.Verse.AudioRef != "")

	sent, ok := b.send(msg)
	if !ok {
		return
	}
	if err := b.service.SetPracticeMessage(ctx, userID, sent.MessageID); err != nil {
		b.log.WithError(err).WithField("user_id", userID).Warn("remember practice message")
	}
}

func (b *Bot) editCard(msg *tgbotapi.Message, lang domain.Language, view application.View) {
	keyboard := b.practiceKeyboard(lang, view.Verse.AudioRef != "")
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, b.formatCard(lang, view))
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = &keyboard
	b.send(edit)
}

// formatCard renders the revealed part of the current verse. The translation
// is shown once the whole verse is revealed.
func (b *Bot) formatCard(lang domain.Language, view application.View) string {
	var text strings.Builder

	verse := view.Verse
	fmt.Fprintf(&text, "<b>%s</b>\n", html.EscapeString(b.i18n.Get(lang, "practice.header",
		b.i18n.GetSurahName(lang, verse.Chapter.Number), verse.Chapter.Number, verse.LocalNumber)))
	fmt.Fprintf(&text, "<i>%s</i>\n\n", html.EscapeString(b.i18n.Get(lang, "practice.position",
		view.WordIndex+1, view.WordCount)))

	fmt.Fprintf(&text, "%s\n", html.EscapeString(strings.TrimSpace(view.Revealed)))

	if view.WordCount > 0 && view.WordIndex == view.WordCount-1 {
		if verse.Transliteration != "" {
			fmt.Fprintf(&text, "\n<i>%s</i>", html.EscapeString(verse.Transliteration))
		}
		if verse.Translation != "" {
			fmt.Fprintf(&text, "\n%s", html.EscapeString(verse.Translation))
		}
		text.WriteString("\n")
	}

	if view.Mistake != nil {
		fmt.Fprintf(&text, "\n%s %s\n", mistakeEmoji(view.Mistake.Kind), html.EscapeString(b.i18n.Get(lang, "practice.word_marked_"+string(view.Mistake.Kind))))
	}

	fmt.Fprintf(&text, "\n%s", html.EscapeString(b.i18n.Get(lang, "practice.counters",
		view.TotalWords, view.ForgotCount, view.TajwidCount)))

	return text.String()
}

func mistakeEmoji(kind domain.MistakeKind) string {
	if kind == domain.MistakeTajwid {
		return "⚠️"
	}
	return "❌"
}
