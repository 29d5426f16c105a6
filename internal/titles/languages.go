package titles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageCodes maps the language names users type to ISO 639-1 codes
// understood by subtitle providers.
var languageCodes = map[string]string{
	"english":    "en",
	"korean":     "ko",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"chinese":    "zh",
	"japanese":   "ja",
	"arabic":     "ar",
	"hindi":      "hi",
	"tamil":      "ta",
	"malayalam":  "ml",
	"telugu":     "te",
	"sinhala":    "si",
}

var titleCaser = cases.Title(language.English)

// LanguageCode resolves a user-supplied language name to an ISO 639-1 code.
// Inputs that already look like a code are passed through lowercased;
// anything unrecognized falls back to English.
func LanguageCode(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if code, ok := languageCodes[normalized]; ok {
		return code
	}
	if tag, err := language.Parse(normalized); err == nil {
		if base, confidence := tag.Base(); confidence >= language.High {
			return base.String()
		}
	}
	return "en"
}

// LanguageDisplayName returns a human-readable English name for a
// user-supplied language, for use in synthesized subtitle text.
func LanguageDisplayName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "Unknown"
	}
	code := normalized
	if mapped, ok := languageCodes[normalized]; ok {
		code = mapped
	}
	if tag, err := language.Parse(code); err == nil {
		if displayName := display.English.Languages().Name(tag); displayName != "" {
			return displayName
		}
	}
	return titleCaser.String(normalized)
}

// DisplayTitle renders a normalized title for human-facing text.
func DisplayTitle(title string) string {
	normalized := Normalize(title)
	if normalized == "" {
		return "Unknown Title"
	}
	return titleCaser.String(normalized)
}

// KnownLanguage reports whether the language name is in the supported set.
func KnownLanguage(name string) bool {
	_, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
