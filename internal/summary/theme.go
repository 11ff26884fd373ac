package summary

import "image/color"

// Theme is the palette of a summary image
type Theme struct {
	Name       string
	Background color.NRGBA
	Foreground color.NRGBA
	Muted      color.NRGBA
	Accent     color.NRGBA
	Divider    color.NRGBA

	// Highlight fills drawn behind mistaken words
	Forgot color.NRGBA
	Tajwid color.NRGBA
}

var (
	LightTheme = Theme{
		Name:       "light",
		Background: color.NRGBA{R: 250, G: 248, B: 242, A: 255},
		Foreground: color.NRGBA{R: 33, G: 37, B: 41, A: 255},
		Muted:      color.NRGBA{R: 110, G: 117, B: 125, A: 255},
		Accent:     color.NRGBA{R: 22, G: 120, B: 90, A: 255},
		Divider:    color.NRGBA{R: 214, G: 208, B: 196, A: 255},
		Forgot:     color.NRGBA{R: 229, G: 57, B: 53, A: 96},
		Tajwid:     color.NRGBA{R: 251, G: 176, B: 0, A: 110},
	}
	DarkTheme = Theme{
		Name:       "dark",
		Background: color.NRGBA{R: 18, G: 20, B: 24, A: 255},
		Foreground: color.NRGBA{R: 236, G: 236, B: 236, A: 255},
		Muted:      color.NRGBA{R: 150, G: 156, B: 164, A: 255},
		Accent:     color.NRGBA{R: 72, G: 199, B: 142, A: 255},
		Divider:    color.NRGBA{R: 52, G: 56, B: 64, A: 255},
		Forgot:     color.NRGBA{R: 239, G: 83, B: 80, A: 120},
		Tajwid:     color.NRGBA{R: 255, G: 193, B: 7, A: 120},
	}
)

// ThemeFor selects the light or dark variant.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
