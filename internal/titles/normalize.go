package titles

import "strings"

// qualityTokens are release tags stripped from titles wherever they occur.
// Longer tokens come first so their substrings do not pre-empt them
// ("hdtv" before "hd", "camrip" before "cam").
var qualityTokens = []string{
	"2160p",
	"1080p",
	"720p",
	"480p",
	"camrip",
	"dvdrip",
	"webrip",
	"web-dl",
	"bluray",
	"hdtv",
	"4k",
	"hd",
	"cam",
}

var separatorReplacer = strings.NewReplacer("@", " ", "_", " ", ".", " ")

// Normalize reduces a raw media title to its canonical form: lowercase,
// separator characters replaced by spaces, quality tags removed, and
// whitespace collapsed. Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = separatorReplacer.Replace(s)
	// Removing a tag can expose another occurrence, so strip to a fixpoint
	// to keep the function idempotent.
	for {
		next := s
		for _, token := range qualityTokens {
			next = strings.ReplaceAll(next, token, "")
		}
		if next == s {
			break
		}
		s = next
	}
	return strings.Join(strings.Fields(s), " ")
}

// CacheKey derives the subtitle store key for a title and language. It is
// the single source of truth for cache addressing: identical inputs always
// produce identical keys regardless of case or separator noise.
func CacheKey(title, language string) string {
	return Normalize(title) + "_" + strings.ToLower(strings.TrimSpace(language))
}

// MovieKey derives the language-independent popularity key for a title.
func MovieKey(title string) string {
	return Normalize(title)
}
