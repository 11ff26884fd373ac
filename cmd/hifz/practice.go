package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/escalopa/quran-hifz/internal/adapter/quranapi"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/session"
	"github.com/escalopa/quran-hifz/internal/summary"
	"github.com/escalopa/quran-hifz/internal/tui"
)

var (
	practiceSurah int
	practiceAyah  int
	practiceJuz   int
	practiceLang  string
	practiceOut   string
	practiceDark  bool
)

func newPracticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practice a surah or a juz in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPracticeCmd,
	}
	cmd.Flags().IntVar(&practiceSurah, "surah", 0, "surah number (1-114)")
	cmd.Flags().IntVar(&practiceAyah, "ayah", 1, "ayah to start from in surah mode")
	cmd.Flags().IntVar(&practiceJuz, "juz", 0, "juz number (1-30)")
	cmd.Flags().StringVar(&practiceLang, "lang", "", "language of the summary captions")
	cmd.Flags().StringVar(&practiceOut, "out", "", "directory for the exported summary (default from config)")
	cmd.Flags().BoolVar(&practiceDark, "dark", false, "render the summary with the dark theme")
	cmd.MarkFlagsMutuallyExclusive("surah", "juz")
	return cmd
}

// practiceTarget resolves the flags into a mode after validating them, so
// nothing is fetched for an invalid selection.
func practiceTarget(surah, ayah, juz int) (domain.PracticeMode, error) {
	switch {
	case surah != 0 && juz != 0:
		return "", fmt.Errorf("choose either --surah or --juz")
	case surah != 0:
		return domain.ModeSurah, domain.ValidateStartAyah(surah, ayah)
	case juz != 0:
		return domain.ModeJuz, domain.ValidateJuz(juz)
	default:
		return "", fmt.Errorf("one of --surah or --juz is required")
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	mode, err := practiceTarget(practiceSurah, practiceAyah, practiceJuz)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := quranapi.NewClient(cfg.QuranAPI.BaseURL, quranapi.Editions{
		Text:            cfg.QuranAPI.TextEdition,
		Translation:     cfg.QuranAPI.TranslationEdition,
		Transliteration: cfg.QuranAPI.TransliterationEdition,
	}, cfg.QuranAPI.Timeout)

	verses, err := fetchVerses(ctx, client, mode)
	if err != nil {
		return fmt.Errorf("fetch verses: %w", err)
	}

	fonts, err := summary.LoadFonts(cfg.Summary.ArabicFont)
	if err != nil {
		logger.WithError(err).Warn("summary image disabled")
	}
	dark := practiceDark || cfg.Summary.Dark
	opts := summaryOptions(cfg, fonts, labelsFor(cfg, practiceLang), dark)

	outDir := practiceOut
	if outDir == "" {
		outDir = cfg.Summary.OutputDir
	}

	sess := session.New(verses, mode, practiceAyah)
	model := tui.NewModel(sess, opts, outDir)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	if stats, ok := model.Session().Stats(); ok {
		logger.WithFields(logrus.Fields{
			"session":  stats.SessionID,
			"words":    stats.TotalWords,
			"accuracy": stats.Accuracy,
		}).Info("practice finished")
	}
	return nil
}

func fetchVerses(ctx context.Context, verses domain.VersePort, mode domain.PracticeMode) ([]domain.Ayah, error) {
	if mode == domain.ModeJuz {
		return verses.JuzVerses(ctx, practiceJuz)
	}
	return verses.SurahVerses(ctx, practiceSurah)
}
