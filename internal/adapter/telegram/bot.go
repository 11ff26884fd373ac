package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
)

var _ domain.BotPort = (*Bot)(nil)

type Bot struct {
	api      *tgbotapi.BotAPI
	service  *application.PracticeService
	i18n     domain.I18nPort
	log      logrus.FieldLogger
	commands map[string]CommandHandler
	updates  *dispatcher
	cancel   context.CancelFunc
}

func NewBot(token string, service *application.PracticeService, i18n domain.I18nPort, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{
		api:      api,
		service:  service,
		i18n:     i18n,
		log:      log,
		commands: make(map[string]CommandHandler),
	}
	bot.updates = newDispatcher(bot.getUserID, bot.handleUpdate)

	bot.registerCommands()

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	b.log.WithField("account", b.api.Self.UserName).Info("telegram bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	defer b.updates.wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.updates.dispatch(ctx, update)
		}
	}
}

func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	userID := b.getUserID(update)
	if userID == "" {
		return
	}

	lang := b.service.GetUserLanguage(ctx, userID)

	if update.Message != nil && update.Message.IsCommand() {
		b.handleCommand(ctx, update.Message, lang)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery, lang)
		return
	}

	if update.Message != nil && update.Message.Text != "" {
		b.handleText(ctx, update.Message, lang)
		return
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	handler, exists := b.commands[msg.Command()]
	if !exists {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.unknown_command"))
		return
	}

	handler(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, lang domain.Language) {
	if callback.Message == nil {
		return
	}
	userID := strconv.FormatInt(callback.From.ID, 10)
	chatID := callback.Message.Chat.ID
	log := b.log.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID, "data": callback.Data})

	prefix, arg, _ := strings.Cut(callback.Data, ":")

	switch prefix {
	case "p":
		// practice callbacks answer themselves with a toast
		b.handlePractice(ctx, callback, userID, lang, practiceAction(arg))
		return
	case "noop":
		b.answerCallback(callback.ID, "")
		return
	}
	b.answerCallback(callback.ID, "")

	switch prefix {
	case "lang":
		newLang := domain.Language(arg)
		if err := b.service.HandleStart(ctx, userID, newLang); err != nil {
			log.WithError(err).Error("set language")
			return
		}
		b.editMessageWithKeyboard(callback.Message, b.i18n.Get(newLang, "welcome.message"), b.modeKeyboard(newLang))

	case "mode":
		b.handleModeChoice(ctx, callback.Message, userID, lang, arg)

	case "spage":
		page, _ := strconv.Atoi(arg)
		b.editMessageWithKeyboard(callback.Message, b.i18n.Get(lang, "surah.select"), b.surahKeyboard(lang, page))

	case "surah":
		surahNum, err := strconv.Atoi(arg)
		if err != nil {
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
			return
		}
		if err := b.service.HandleSurahSelection(ctx, userID, surahNum); err != nil {
			log.WithError(err).Error("select surah")
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.generic"))
			return
		}
		_ = b.service.ClearAyahInput(ctx, userID)
		b.editMessageWithKeyboard(callback.Message, b.ayahPrompt(lang, surahNum, "", ""), b.ayahKeyboard(lang))

	case "digit":
		b.handleDigitInput(ctx, callback.Message, userID, lang, arg)

	case "clear":
		b.handleClearDigit(ctx, callback.Message, userID, lang)

	case "done":
		b.handleAyahDone(ctx, callback.Message, userID, lang)

	case "juz":
		juz, err := strconv.Atoi(arg)
		if err != nil {
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
			return
		}
		b.editMessage(callback.Message, b.i18n.Get(lang, "practice.loading"))
		view, err := b.service.StartJuz(ctx, userID, juz)
		if err != nil {
			log.WithError(err).WithField("juz", juz).Error("start juz")
			b.editMessage(callback.Message, b.i18n.Get(lang, "error.fetch_verses"))
			return
		}
		b.showCard(ctx, callback.Message, userID, lang, view)

	case "again":
		if err := b.service.HandleStart(ctx, userID, lang); err != nil {
			log.WithError(err).Error("restart")
			return
		}
		b.sendModeChoice(callback.Message.Chat.ID, lang)
	}
}

func (b *Bot) handleModeChoice(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, mode string) {
	switch domain.PracticeMode(mode) {
	case domain.ModeSurah:
		if err := b.service.ChooseSurahMode(ctx, userID); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("choose surah mode")
			return
		}
		b.editMessageWithKeyboard(msg, b.i18n.Get(lang, "surah.select"), b.surahKeyboard(lang, 0))
	case domain.ModeJuz:
		if err := b.service.ChooseJuzMode(ctx, userID); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("choose juz mode")
			return
		}
		b.editMessageWithKeyboard(msg, b.i18n.Get(lang, "juz.select"), b.juzKeyboard())
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	state, err := b.service.GetCurrentState(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("get state")
		b.sendMessage(chatID, b.i18n.Get(lang, "error.generic"))
		return
	}

	switch state {
	case domain.StateEnterAyah:
		b.startSurah(ctx, chatID, userID, lang, strings.TrimSpace(msg.Text))
	case domain.StatePracticing:
		b.sendMessage(chatID, b.i18n.Get(lang, "practice.use_buttons"))
	default:
		b.sendMessage(chatID, b.i18n.Get(lang, "help.message"))
	}
}

func (b *Bot) handleDigitInput(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, digit string) {
	currentInput := b.service.GetAyahInput(ctx, userID)

	// longest surah has 286 ayahs
	if len(currentInput) < 3 {
		currentInput += digit
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("set ayah input")
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) handleClearDigit(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	currentInput := b.service.GetAyahInput(ctx, userID)

	if len(currentInput) > 0 {
		currentInput = currentInput[:len(currentInput)-1]
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("set ayah input")
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) handleAyahDone(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	ayahInput := b.service.GetAyahInput(ctx, userID)
	if ayahInput == "" {
		b.refreshAyahPrompt(ctx, msg, userID, lang, "", b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}

	b.editMessage(msg, b.i18n.Get(lang, "practice.loading"))
	view, err := b.service.HandleAyahInput(ctx, userID, ayahInput)
	if errors.Is(err, domain.ErrInvalidAyah) {
		b.refreshAyahPrompt(ctx, msg, userID, lang, ayahInput, b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("start surah")
		b.editMessage(msg, b.i18n.Get(lang, "error.fetch_verses"))
		return
	}

	_ = b.service.ClearAyahInput(ctx, userID)
	b.showCard(ctx, msg, userID, lang, view)
}

// startSurah handles a typed start verse
func (b *Bot) startSurah(ctx context.Context, chatID int64, userID string, lang domain.Language, input string) {
	view, err := b.service.HandleAyahInput(ctx, userID, input)
	if errors.Is(err, domain.ErrInvalidAyah) {
		b.sendMessage(chatID, b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("start surah")
		b.sendMessage(chatID, b.i18n.Get(lang, "error.fetch_verses"))
		return
	}

	_ = b.service.ClearAyahInput(ctx, userID)
	b.sendCard(ctx, chatID, userID, lang, view)
}

func (b *Bot) refreshAyahPrompt(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, input, warning string) {
	surahNum, err := b.service.GetSelectedSurah(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("get selected surah")
		return
	}
	b.editMessageWithKeyboard(msg, b.ayahPrompt(lang, surahNum, input, warning), b.ayahKeyboard(lang))
}

func (b *Bot) ayahPrompt(lang domain.Language, surahNum int, input, warning string) string {
	surah, err := domain.GetSurah(surahNum)
	if err != nil {
		return b.i18n.Get(lang, "error.generic")
	}

	text := b.i18n.Get(lang, "ayah.select", b.i18n.GetSurahName(lang, surahNum), surah.Ayahs)
	if input != "" {
		text += fmt.Sprintf("\n\n📝 %s", input)
	}
	if warning != "" {
		text += "\n\n⚠️ " + warning
	}
	return text
}

func (b *Bot) sendModeChoice(chatID int64, lang domain.Language) {
	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(lang, "welcome.message"))
	msg.ReplyMarkup = b.modeKeyboard(lang)
	b.send(msg)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	sent, err := b.api.Send(c)
	if err != nil {
		b.log.WithError(err).Warn("telegram send")
		return sent, false
	}
	return sent, true
}

func (b *Bot) editMessage(msg *tgbotapi.Message, text string) {
	b.send(tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text))
}

func (b *Bot) editMessageWithKeyboard(msg *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	edit.ReplyMarkup = &keyboard
	b.send(edit)
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.WithError(err).Debug("answer callback")
	}
}

func (b *Bot) answerCallbackAlert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		b.log.WithError(err).Debug("answer callback")
	}
}

func (b *Bot) getUserID(update tgbotapi.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return strconv.FormatInt(update.Message.From.ID, 10)
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return strconv.FormatInt(update.CallbackQuery.From.ID, 10)
	}
	return ""
}
