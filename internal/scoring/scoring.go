// Package scoring turns a session's mistake tally into a score, an accuracy
// percentage and a letter rank.
package scoring

import "math"

const (
	forgotWeight = 1.0
	tajwidWeight = 0.6

	// tajwid mistakes cost half a word in accuracy
	tajwidAccuracyWeight = 0.5

	decayRate = 50.0
)

type Rank string

const (
	RankX   Rank = "X"
	RankSSS Rank = "SSS"
	RankSS  Rank = "SS"
	RankS   Rank = "S"
	RankA   Rank = "A"
	RankB   Rank = "B"
	RankC   Rank = "C"
	RankD   Rank = "D"
	RankF   Rank = "F"
)

// Result is the outcome of scoring a session
type Result struct {
	Score    int     `json:"score"`
	Accuracy float64 `json:"accuracy"`
	Rank     Rank    `json:"rank"`
}

// Score computes the exponentially decayed score for totalWords revealed words.
// A perfect run scores totalWords; a weighted mistake ratio r multiplies it by
// e^(-50r).
func Score(totalWords, forgotCount, tajwidCount int) Result {
	acc := Accuracy(totalWords, forgotCount, tajwidCount)
	return Result{
		Score:    points(totalWords, forgotCount, tajwidCount),
		Accuracy: acc,
		Rank:     RankFor(acc),
	}
}

func points(totalWords, forgotCount, tajwidCount int) int {
	if totalWords <= 0 {
		return 0
	}
	weighted := float64(forgotCount)*forgotWeight + float64(tajwidCount)*tajwidWeight
	if weighted == 0 {
		return totalWords
	}
	ratio := weighted / float64(totalWords)
	return int(math.Round(float64(totalWords) * math.Exp(-decayRate*ratio)))
}

// Accuracy is the linear share of words recited correctly, 0-100 with two
// decimals.
func Accuracy(totalWords, forgotCount, tajwidCount int) float64 {
	if totalWords <= 0 {
		return 0
	}
	n := float64(totalWords)
	lost := float64(forgotCount) + float64(tajwidCount)*tajwidAccuracyWeight
	acc := math.Max(0, (n-lost)/n*100)
	return math.Round(acc*100) / 100
}

var bands = []struct {
	min  float64
	rank Rank
}{
	{100, RankX},
	{99.5, RankSSS},
	{99, RankSS},
	{98, RankS},
	{95, RankA},
	{90, RankB},
	{82.5, RankC},
	{75, RankD},
}

// RankFor maps an accuracy percentage to its letter rank. Each band includes
// its lower bound.
func RankFor(accuracy float64) Rank {
	for _, b := range bands {
		if accuracy >= b.min {
			return b.rank
		}
	}
	return RankF
}
