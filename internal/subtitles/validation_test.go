package subtitles

import (
	"strings"
	"testing"
)

func TestValidSubtitle(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"well formed srt", "1\n00:00:01,000 --> 00:00:02,500\nHello\n", true},
		{"dot separated millis", "1\n00:00:01.000 --> 00:00:02.500\nHello\n", true},
		{"empty", "", false},
		{"whitespace only", "   \n\t\n", false},
		{"no timecodes", "just some prose without any cues", false},
		{"html error page", "<!DOCTYPE html><html><body>429 Too Many Requests</body></html>", false},
		{"invalid utf8", "1\n00:00:01,000 --> 00:00:02,000\n\xff\xfe\n", false},
		{"timecode mid file", "WEBVTT-ish preamble\n\n1\n00:12:01,000 --> 00:12:04,000\nLine\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidSubtitle([]byte(tt.data)); got != tt.want {
				t.Errorf("ValidSubtitle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidSubtitleRejectsOversizedPayload(t *testing.T) {
	huge := strings.Repeat("a", maxSubtitleBytes+1)
	if ValidSubtitle([]byte(huge)) {
		t.Fatal("oversized payload accepted")
	}
}
