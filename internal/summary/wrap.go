package summary

// Wrap breaks a run of measured words into lines no wider than maxWidth.
// Words are taken in logical order; a word wider than maxWidth gets a line of
// its own. The result holds indices into widths.
func Wrap(widths []float64, spacing, maxWidth float64) [][]int {
	var (
		lines [][]int
		line  []int
		used  float64
	)
	for i, w := range widths {
		if len(line) > 0 && used+spacing+w > maxWidth {
			lines = append(lines, line)
			line = nil
			used = 0
		}
		if len(line) > 0 {
			used += spacing
		}
		used += w
		line = append(line, i)
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// LineWidth is the width Wrap accounts for a line.
func LineWidth(widths []float64, line []int, spacing float64) float64 {
	if len(line) == 0 {
		return 0
	}
	total := spacing * float64(len(line)-1)
	for _, i := range line {
		total += widths[i]
	}
	return total
}
