package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/escalopa/quran-hifz/internal/adapter/i18n"
	"github.com/escalopa/quran-hifz/internal/adapter/quranapi"
	"github.com/escalopa/quran-hifz/internal/adapter/redis"
	"github.com/escalopa/quran-hifz/internal/adapter/telegram"
	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/summary"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE:  runBotCmd,
	}
}

func runBotCmd(_ *cobra.Command, _ []string) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	i18nService, err := i18n.NewI18n(cfg.App.LocalesDir, domain.Language(cfg.App.DefaultLanguage))
	if err != nil {
		return err
	}
	logger.Info("i18n initialized")

	store, err := redis.NewStore(cfg.Redis.URI)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("redis store connected")

	verses := quranapi.NewClient(cfg.QuranAPI.BaseURL, quranapi.Editions{
		Text:            cfg.QuranAPI.TextEdition,
		Translation:     cfg.QuranAPI.TranslationEdition,
		Transliteration: cfg.QuranAPI.TransliterationEdition,
		Audio:           cfg.QuranAPI.AudioEdition,
	}, cfg.QuranAPI.Timeout)

	fonts, err := summary.LoadFonts(cfg.Summary.ArabicFont)
	if err != nil {
		logger.WithError(err).Warn("summary images disabled")
	}
	opts := summaryOptions(cfg, fonts, summary.DefaultConfig().Labels, cfg.Summary.Dark)

	service := application.NewPracticeService(verses, store, store, i18nService, opts, logger)
	logger.Info("practice service initialized")

	bot, err := telegram.NewBot(cfg.Telegram.Token, service, i18nService, logger)
	if err != nil {
		return err
	}
	logger.Info("telegram bot initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting bot")
		if err := bot.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received shutdown signal, stopping bot")
		cancel()
		if err := bot.Stop(); err != nil {
			logger.WithError(err).Error("stop bot")
		}
	case err := <-errChan:
		logger.WithError(err).Error("bot failed")
		return err
	}

	logger.Info("bot stopped")
	return nil
}
