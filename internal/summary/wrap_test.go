package summary

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		widths  []float64
		spacing float64
		max     float64
		want    [][]int
	}{
		{name: "empty", widths: nil, spacing: 10, max: 100, want: nil},
		{name: "exact fit", widths: []float64{30, 30, 30}, spacing: 10, max: 70, want: [][]int{{0, 1}, {2}}},
		{name: "single line", widths: []float64{10, 10, 10}, spacing: 5, max: 100, want: [][]int{{0, 1, 2}}},
		{name: "oversized word alone", widths: []float64{20, 100, 20}, spacing: 5, max: 50, want: [][]int{{0}, {1}, {2}}},
		{name: "order preserved", widths: []float64{40, 5, 40, 5}, spacing: 5, max: 50, want: [][]int{{0, 1}, {2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.widths, tt.spacing, tt.max))
		})
	}
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for run := 0; run < 200; run++ {
		widths := make([]float64, rng.Intn(40))
		for i := range widths {
			widths[i] = 5 + rng.Float64()*120
		}
		const spacing, max = 12.0, 300.0

		next := 0
		for _, line := range Wrap(widths, spacing, max) {
			for _, i := range line {
				assert.Equal(t, next, i, "words keep logical order")
				next++
			}
			if len(line) > 1 {
				assert.LessOrEqual(t, LineWidth(widths, line, spacing), max)
			}
		}
		assert.Equal(t, len(widths), next)
	}
}
