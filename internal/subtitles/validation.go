package subtitles

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var timecodeLinePattern = regexp.MustCompile(`(?m)^\d{2}:\d{2}:\d{2}[,.]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[,.]\d{3}`)

const maxSubtitleBytes = 10 << 20

// ValidSubtitle reports whether data looks like playable SRT content: valid
// UTF-8 of sane size with at least one timecode line. Provider responses that
// fail this check are treated as fetch failures.
func ValidSubtitle(data []byte) bool {
	if len(data) == 0 || len(data) > maxSubtitleBytes {
		return false
	}
	if !utf8.Valid(data) {
		return false
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return false
	}
	// Some providers wrap error pages in a 200.
	lowered := strings.ToLower(text[:min(len(text), 512)])
	if strings.Contains(lowered, "<!doctype html") || strings.Contains(lowered, "<html") {
		return false
	}
	return timecodeLinePattern.MatchString(text)
}
