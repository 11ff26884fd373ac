package summary

// Labels are the localized captions drawn on the image
type Labels struct {
	Title    string
	Score    string
	Accuracy string
	Rank     string
	Words    string
	Forgot   string
	Tajwid   string
	Review   string
}

// Config carries the caller's display preferences into the layout
type Config struct {
	Width   int
	Padding float64

	TitleSize       float64
	ScoreSize       float64
	HeadingSize     float64
	BodySize        float64
	VerseSize       float64
	TranslationSize float64

	WordSpacing  float64
	LineSpacing  float64 // line height as a multiple of the font size
	HighlightPad float64

	ShowTranslation bool
	Labels          Labels
}

// DefaultConfig returns the layout used for exported summaries.
func DefaultConfig() Config {
	return Config{
		Width:           1080,
		Padding:         60,
		TitleSize:       44,
		ScoreSize:       96,
		HeadingSize:     36,
		BodySize:        24,
		VerseSize:       40,
		TranslationSize: 22,
		WordSpacing:     14,
		LineSpacing:     1.6,
		HighlightPad:    4,
		ShowTranslation: true,
		Labels: Labels{
			Title:    "Memorization Summary",
			Score:    "Score",
			Accuracy: "Accuracy",
			Rank:     "Rank",
			Words:    "Words",
			Forgot:   "Forgot",
			Tajwid:   "Tajwid",
			Review:   "Mistakes review",
		},
	}
}

func (c Config) contentWidth() float64 {
	return float64(c.Width) - 2*c.Padding
}
