// Package subtitles implements the subtitle delivery pipeline: cache lookup,
// quota-aware admission, remote provider fetch, and fallback synthesis.
//
// The pipeline is total. GetSubtitle always returns playable SRT bytes; when
// the cache misses, admission denies, or every provider fails, a synthesized
// placeholder is served and cached instead. Real provider content is never
// overwritten by a placeholder.
package subtitles
