// Package titles canonicalizes raw media titles into stable lookup keys.
//
// A normalized title is lowercase, quality-tag-stripped, and
// whitespace-collapsed; it addresses the popularity tracker. The cache key
// appends a lowercase language code and addresses the subtitle store. Both
// derivations are pure and idempotent.
//
// The package also maps human language names (as users type them) to
// ISO 639-1 codes for provider queries and to display names for synthesized
// subtitles.
package titles
