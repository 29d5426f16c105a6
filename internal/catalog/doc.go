// Package catalog searches the indexed media library and suggests titles
// worth warming the subtitle cache for.
//
// Queries are treated as case-insensitive regular expressions over
// normalized titles, degrading to plain substring matching when the pattern
// does not compile. Structured filters (language, resolution, category)
// narrow the candidate set before the pattern runs.
package catalog
