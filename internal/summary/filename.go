package summary

import (
	"strings"
	"time"
)

// FileName names an exported summary after its creation time.
func FileName(t time.Time) string {
	stamp := strings.ReplaceAll(t.UTC().Format(time.RFC3339), ":", "-")
	return "hifz-summary-" + stamp + ".jpg"
}
