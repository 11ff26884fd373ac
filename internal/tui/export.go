package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/summary"
)

// Exported lists the files written for a finished session
type Exported struct {
	ImagePath string
	StatsPath string
}

// Export writes the summary image and the session snapshot next to each other
// in dir. The snapshot can be re-rendered later with the render command. The
// image is rendered before anything touches the disk, and a failed write
// leaves no files behind.
func Export(dir string, snap *domain.SessionSnapshot, opts application.SummaryOptions) (Exported, error) {
	if snap == nil || snap.Stats == nil {
		return Exported{}, domain.ErrSessionNotEnded
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Exported{}, fmt.Errorf("encode stats: %w", err)
	}
	var jpeg []byte
	if opts.Fonts != nil {
		jpeg, err = summary.Render(*snap.Stats, snap.Verses, opts.Config, opts.Theme, opts.Fonts, opts.Quality)
		if err != nil {
			return Exported{}, fmt.Errorf("render summary: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Exported{}, fmt.Errorf("create output dir: %w", err)
	}
	name := summary.FileName(snap.Stats.EndedAt)
	out := Exported{StatsPath: filepath.Join(dir, strings.TrimSuffix(name, ".jpg")+".json")}

	if jpeg != nil {
		out.ImagePath = filepath.Join(dir, name)
		if err := os.WriteFile(out.ImagePath, jpeg, 0o644); err != nil {
			os.Remove(out.ImagePath)
			return Exported{}, fmt.Errorf("write summary: %w", err)
		}
	}
	if err := os.WriteFile(out.StatsPath, data, 0o644); err != nil {
		os.Remove(out.StatsPath)
		if out.ImagePath != "" {
			os.Remove(out.ImagePath)
		}
		return Exported{}, fmt.Errorf("write stats: %w", err)
	}
	return out, nil
}

// LoadSnapshot reads a snapshot written by Export
func LoadSnapshot(path string) (*domain.SessionSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	if snap.Stats == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrSessionNotEnded)
	}
	return &snap, nil
}
