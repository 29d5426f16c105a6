package subtitles

import (
	"fmt"
	"strings"

	"subvault/internal/titles"
)

// Synthesize produces a deterministic placeholder SRT track for a title and
// language. The same inputs always yield the same bytes, so repeated misses
// cache identically.
func Synthesize(title, language string) []byte {
	displayTitle := titles.DisplayTitle(title)
	displayLanguage := titles.LanguageDisplayName(language)

	cues := []string{
		fmt.Sprintf("%s\n%s subtitles", displayTitle, displayLanguage),
		"Subtitles for this title are not available yet.",
		"This placeholder track was generated automatically.",
		"Real subtitles will replace it once a provider has them.",
	}

	var b strings.Builder
	start := 1
	for i, cue := range cues {
		end := start + 5
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTimecode(start), srtTimecode(end), cue)
		start = end
	}
	return []byte(b.String())
}

func srtTimecode(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d,000", seconds/3600, seconds/60%60, seconds%60)
}
