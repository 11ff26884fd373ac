package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/escalopa/quran-hifz/internal/adapter/i18n"
	"github.com/escalopa/quran-hifz/internal/domain"
)

const (
	surahsPerPage = 10
	juzPerRow     = 5
)

type practiceAction string

const (
	actionNext   practiceAction = "next"
	actionBack   practiceAction = "back"
	actionForgot practiceAction = "forgot"
	actionTajwid practiceAction = "tajwid"
	actionUndo   practiceAction = "undo"
	actionAudio  practiceAction = "audio"
	actionEnd    practiceAction = "end"
)

func practiceData(a practiceAction) string {
	return "p:" + string(a)
}

func (b *Bot) modeKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 "+b.i18n.Get(lang, "mode.surah"), "mode:"+string(domain.ModeSurah)),
			tgbotapi.NewInlineKeyboardButtonData("📚 "+b.i18n.Get(lang, "mode.juz"), "mode:"+string(domain.ModeJuz)),
		),
	)
}

func (b *Bot) languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:"+string(domain.LangEnglish)),
			tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", "lang:"+string(domain.LangArabic)),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang:"+string(domain.LangRussian)),
		),
	)
}

func (b *Bot) surahKeyboard(lang domain.Language, page int) tgbotapi.InlineKeyboardMarkup {
	surahs := domain.GetAllSurahs()
	totalPages := (len(surahs) + surahsPerPage - 1) / surahsPerPage

	page = max(0, min(page, totalPages-1))
	start := page * surahsPerPage
	end := min(start+surahsPerPage, len(surahs))

	var rows [][]tgbotapi.InlineKeyboardButton

	// two surahs per row
	for i := start; i < end; i += 2 {
		row := []tgbotapi.InlineKeyboardButton{b.surahButton(lang, surahs[i].Number)}
		if i+1 < end {
			row = append(row, b.surahButton(lang, surahs[i+1].Number))
		}
		rows = append(rows, row)
	}

	if totalPages > 1 {
		var navRow []tgbotapi.InlineKeyboardButton
		if page > 0 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.prev"), fmt.Sprintf("spage:%d", page-1)))
		}
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), "noop"))
		if page < totalPages-1 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "nav.next")+" ➡️", fmt.Sprintf("spage:%d", page+1)))
		}
		rows = append(rows, navRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) surahButton(lang domain.Language, number int) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(
		i18n.FormatSurahButton(lang, b.i18n, number),
		fmt.Sprintf("surah:%d", number),
	)
}

func (b *Bot) ayahKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	digit := func(d int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(fmt.Sprint(d), fmt.Sprintf("digit:%d", d))
	}

	// Telephone-style number keyboard (3x3 + bottom row)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(digit(1), digit(2), digit(3)),
		tgbotapi.NewInlineKeyboardRow(digit(4), digit(5), digit(6)),
		tgbotapi.NewInlineKeyboardRow(digit(7), digit(8), digit(9)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⌫ "+b.i18n.Get(lang, "nav.back"), "clear"),
			digit(0),
			tgbotapi.NewInlineKeyboardButtonData("✅ "+b.i18n.Get(lang, "nav.done"), "done"),
		),
	)
}

func (b *Bot) juzKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 1; start <= domain.JuzCount; start += juzPerRow {
		var row []tgbotapi.InlineKeyboardButton
		for juz := start; juz < start+juzPerRow && juz <= domain.JuzCount; juz++ {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprint(juz), fmt.Sprintf("juz:%d", juz)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) practiceKeyboard(lang domain.Language, hasAudio bool) tgbotapi.InlineKeyboardMarkup {
	button := func(label string, a practiceAction) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, practiceData(a))
	}

	utility := []tgbotapi.InlineKeyboardButton{button("↩️ "+b.i18n.Get(lang, "practice.undo"), actionUndo)}
	if hasAudio {
		utility = append(utility, button("🔊 "+b.i18n.Get(lang, "practice.audio"), actionAudio))
	}
	utility = append(utility, button("🏁 "+b.i18n.Get(lang, "practice.end"), actionEnd))

	// Next on the left, matching right-to-left reading
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button(b.i18n.Get(lang, "practice.next")+" ◀", actionNext),
			button("▶ "+b.i18n.Get(lang, "practice.back"), actionBack),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("❌ "+b.i18n.Get(lang, "practice.forgot"), actionForgot),
			button("⚠️ "+b.i18n.Get(lang, "practice.tajwid"), actionTajwid),
		),
		utility,
	)
}

func (b *Bot) finishedKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 "+b.i18n.Get(lang, "practice.again"), "again"),
		),
	)
}
