package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"
	"os"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/escalopa/quran-hifz/internal/domain"
)

// DefaultJPEGQuality is used when the caller passes no quality
const DefaultJPEGQuality = 90

type faceKey struct {
	rtl  bool
	size float64
}

// Fonts holds the parsed typefaces used for measuring and drawing. Latin text
// uses the Go font; right-to-left runs use the Arabic font when one is loaded.
type Fonts struct {
	latin  *opentype.Font
	arabic *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// LoadFonts parses the built-in Latin font and, when arabicPath is set, the
// Arabic font file at that path.
func LoadFonts(arabicPath string) (*Fonts, error) {
	latin, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse latin font: %w", err)
	}

	arabic := latin
	if arabicPath != "" {
		data, err := os.ReadFile(arabicPath)
		if err != nil {
			return nil, fmt.Errorf("read arabic font: %w", err)
		}
		arabic, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse arabic font: %w", err)
		}
	}

	return &Fonts{
		latin:  latin,
		arabic: arabic,
		faces:  make(map[faceKey]font.Face),
	}, nil
}

func (f *Fonts) face(rtl bool, size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := faceKey{rtl: rtl, size: size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}

	src := f.latin
	if rtl {
		src = f.arabic
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %.1f: %w", size, err)
	}
	f.faces[key] = face
	return face, nil
}

// Measure implements Measurer with real glyph advances.
func (f *Fonts) Measure(text string, size float64) float64 {
	face, err := f.face(IsRTL(text), size)
	if err != nil {
		return MonoMeasurer{}.Measure(text, size)
	}
	return fixedToFloat(font.MeasureString(face, text))
}

// Rasterize paints the document and encodes it as JPEG. Any failure is
// returned without partial output.
func Rasterize(doc Document, fonts *Fonts, quality int) ([]byte, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", doc.Width, doc.Height)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img := image.NewRGBA(image.Rect(0, 0, doc.Width, doc.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(doc.Background), image.Point{}, draw.Src)

	for _, p := range doc.Primitives {
		switch p.Kind {
		case FilledRect:
			r := image.Rect(
				int(math.Round(p.Rect.X)),
				int(math.Round(p.Rect.Y)),
				int(math.Round(p.Rect.X+p.Rect.W)),
				int(math.Round(p.Rect.Y+p.Rect.H)),
			)
			draw.Draw(img, r, image.NewUniform(p.Color), image.Point{}, draw.Over)
		case TextRun:
			face, err := fonts.face(p.RTL, p.Size)
			if err != nil {
				return nil, err
			}
			text := p.Text
			if p.RTL {
				text = visualOrder(text)
			}
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(p.Color),
				Face: face,
				Dot:  fixed.P(int(math.Round(p.Rect.X)), int(math.Round(p.Rect.Y))),
			}
			d.DrawString(text)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Render lays out and rasterizes a summary in one step.
func Render(stats domain.MemorizationStats, verses []domain.Ayah, cfg Config, theme Theme, fonts *Fonts, quality int) ([]byte, error) {
	doc := Layout(stats, verses, cfg, theme, fonts)
	return Rasterize(doc, fonts, quality)
}

// visualOrder reverses a right-to-left run for a left-to-right glyph drawer,
// keeping combining marks after their base letter.
func visualOrder(text string) string {
	var clusters [][]rune
	for _, r := range text {
		if unicode.Is(unicode.Mn, r) && len(clusters) > 0 {
			last := len(clusters) - 1
			clusters[last] = append(clusters[last], r)
			continue
		}
		clusters = append(clusters, []rune{r})
	}

	out := make([]rune, 0, len(text))
	for i := len(clusters) - 1; i >= 0; i-- {
		out = append(out, clusters[i]...)
	}
	return string(out)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
