// Package main provides the hifz CLI: the Telegram bot, the terminal
// practice mode and the summary tools.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/escalopa/quran-hifz/internal/adapter/i18n"
	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/config"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/logging"
	"github.com/escalopa/quran-hifz/internal/summary"
)

var (
	configPath string

	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "hifz",
		Short:             "Word-by-word Qur'an memorization practice",
		SilenceUsage:      true,
		PersistentPreRunE: loadRuntime,
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the config file")

	rootCmd.AddCommand(newBotCmd())
	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newScoreCmd())

	return rootCmd
}

func loadRuntime(_ *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	l, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

// summaryOptions maps the summary section of the config onto the renderer.
func summaryOptions(c *config.Config, fonts *summary.Fonts, labels summary.Labels, dark bool) application.SummaryOptions {
	sc := summary.DefaultConfig()
	sc.Width = c.Summary.Width
	if c.Summary.VerseFontSize > 0 {
		sc.VerseSize = c.Summary.VerseFontSize
	}
	sc.ShowTranslation = c.Summary.ShowTranslation
	sc.Labels = labels

	return application.SummaryOptions{
		Config:  sc,
		Theme:   summary.ThemeFor(dark),
		Fonts:   fonts,
		Quality: c.Summary.JPEGQuality,
	}
}

// labelsFor loads the localized summary captions, keeping the built-in
// English ones when the locales cannot be read.
func labelsFor(c *config.Config, lang string) summary.Labels {
	if lang == "" {
		lang = c.App.DefaultLanguage
	}
	tr, err := i18n.NewI18n(c.App.LocalesDir, domain.Language(c.App.DefaultLanguage))
	if err != nil {
		logger.WithError(err).Warn("locales unavailable, using built-in labels")
		return summary.DefaultConfig().Labels
	}
	return application.SummaryLabels(tr, domain.Language(lang))
}
