package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type CommandHandler func(ctx context.Context, msg *tgbotapi.Message)

// registerCommands registers all bot commands
func (b *Bot) registerCommands() {
	b.commands = map[string]CommandHandler{
		"start":    b.commandStart,
		"help":     b.commandHelp,
		"language": b.commandLanguage,
		"reset":    b.commandReset,
	}

	// Set bot commands for Telegram UI
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start a practice session"},
		{Command: "reset", Description: "Discard the current session"},
		{Command: "language", Description: "Change language"},
		{Command: "help", Description: "Show help"},
	}

	cmdConfig := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cmdConfig); err != nil {
		b.log.WithError(err).Warn("set bot commands")
	}
}

func (b *Bot) commandStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("handle start")
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendModeChoice(msg.Chat.ID, lang)
}

func (b *Bot) commandHelp(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "help.message"))
}

func (b *Bot) commandLanguage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.i18n.Get(lang, "language.select"))
	reply.ReplyMarkup = b.languageKeyboard()
	b.send(reply)
}

func (b *Bot) commandReset(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	if err := b.service.Reset(ctx, userID); err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("reset session")
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "practice.reset"))
	b.sendModeChoice(msg.Chat.ID, lang)
}
