package subtitles

import (
	"bytes"
	"strings"
	"testing"
)

func TestSynthesizeDeterministic(t *testing.T) {
	first := Synthesize("KGF.2018.1080p.BluRay", "english")
	second := Synthesize("KGF.2018.1080p.BluRay", "english")
	if !bytes.Equal(first, second) {
		t.Fatal("synthesized output differs between calls")
	}
}

func TestSynthesizeMentionsTitleAndLanguage(t *testing.T) {
	content := string(Synthesize("KGF.2018.1080p.BluRay", "korean"))
	if !strings.Contains(content, "Kgf 2018") {
		t.Errorf("missing display title in:\n%s", content)
	}
	if !strings.Contains(content, "Korean") {
		t.Errorf("missing language name in:\n%s", content)
	}
}

func TestSynthesizeIsValidSubtitle(t *testing.T) {
	for _, tt := range []struct{ title, language string }{
		{"KGF.2018.1080p.BluRay", "english"},
		{"", ""},
		{"1080p.BluRay", "klingon"},
	} {
		if !ValidSubtitle(Synthesize(tt.title, tt.language)) {
			t.Errorf("Synthesize(%q, %q) is not a valid subtitle", tt.title, tt.language)
		}
	}
}

func TestSynthesizeHandlesEmptyTitle(t *testing.T) {
	content := string(Synthesize("", "english"))
	if !strings.Contains(content, "Unknown Title") {
		t.Errorf("expected placeholder title in:\n%s", content)
	}
}
