package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/escalopa/quran-hifz/internal/scoring"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <words> <forgot> <tajwid>",
		Short: "Print the score, accuracy and rank for a set of counts",
		Args:  cobra.ExactArgs(3),
		RunE:  runScoreCmd,
	}
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	counts := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q", arg)
		}
		counts[i] = n
	}

	result := scoring.Score(counts[0], counts[1], counts[2])
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "score     %d\n", result.Score)
	fmt.Fprintf(out, "accuracy  %.2f%%\n", result.Accuracy)
	fmt.Fprintf(out, "rank      %s\n", result.Rank)
	return nil
}
