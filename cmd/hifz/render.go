package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/escalopa/quran-hifz/internal/summary"
	"github.com/escalopa/quran-hifz/internal/tui"
)

var (
	renderOut  string
	renderDark bool
	renderLang string
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <stats.json>",
		Short: "Render the summary image of an exported session",
		Args:  cobra.ExactArgs(1),
		RunE:  runRenderCmd,
	}
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", "output JPEG path (default next to the stats file)")
	cmd.Flags().BoolVar(&renderDark, "dark", false, "use the dark theme")
	cmd.Flags().StringVar(&renderLang, "lang", "", "language of the captions")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	snap, err := tui.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	fonts, err := summary.LoadFonts(cfg.Summary.ArabicFont)
	if err != nil {
		return err
	}
	opts := summaryOptions(cfg, fonts, labelsFor(cfg, renderLang), renderDark || cfg.Summary.Dark)

	jpeg, err := summary.Render(*snap.Stats, snap.Verses, opts.Config, opts.Theme, opts.Fonts, opts.Quality)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	out := renderOut
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".jpg"
	}
	if err := os.WriteFile(out, jpeg, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
