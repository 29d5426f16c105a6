package catalog

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"subvault/internal/logging"
	"subvault/internal/store"
	"subvault/internal/titles"
)

// MediaIndex is the persistence surface the catalog reads from.
type MediaIndex interface {
	ListMedia(ctx context.Context, filter store.MediaFilter) ([]store.MediaRecord, error)
	TopMovies(ctx context.Context, limit int) ([]store.PopularityRecord, error)
	GetSubtitle(ctx context.Context, key string) (*store.SubtitleRecord, error)
}

// SearchRequest describes one catalog query.
type SearchRequest struct {
	Query      string
	Language   string
	Resolution string
	Category   string
	Limit      int
	Offset     int
}

// SearchResult is one page of catalog matches.
type SearchResult struct {
	Items   []store.MediaRecord
	Total   int
	HasMore bool
}

// DefaultPageSize bounds result pages when the request does not.
const DefaultPageSize = 20

// Catalog answers media search queries.
type Catalog struct {
	index  MediaIndex
	logger *slog.Logger
}

// New builds a catalog over the given media index.
func New(index MediaIndex, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Catalog{
		index:  index,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Search returns the page of media entries matching the request. The query
// matches against normalized titles; an empty query matches everything that
// passes the structured filters.
func (c *Catalog) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	records, err := c.index.ListMedia(ctx, store.MediaFilter{
		Language:   req.Language,
		Resolution: req.Resolution,
		Category:   req.Category,
	})
	if err != nil {
		return SearchResult{}, err
	}

	matcher := compileMatcher(req.Query)
	var matches []store.MediaRecord
	for _, record := range records {
		if matcher(record.NormalizedTitle) {
			matches = append(matches, record)
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(matches)
	if offset >= total {
		return SearchResult{Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return SearchResult{
		Items:   matches[offset:end],
		Total:   total,
		HasMore: end < total,
	}, nil
}

// compileMatcher builds a predicate for the query: a case-insensitive regexp
// when it compiles, a normalized substring check otherwise.
func compileMatcher(query string) func(string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return func(string) bool { return true }
	}
	if pattern, err := regexp.Compile("(?i)" + query); err == nil {
		return pattern.MatchString
	}
	needle := titles.Normalize(query)
	return func(normalizedTitle string) bool {
		return strings.Contains(normalizedTitle, needle)
	}
}

// Suggestion names a popular title whose subtitles are not cached yet for
// one of its requested languages.
type Suggestion struct {
	MovieKey     string
	Language     string
	RequestCount int64
}

// PreloadSuggestions lists cache-warming candidates: the most requested
// movies, in each language they were requested in, that have no cached
// subtitle or only a synthesized placeholder.
func (c *Catalog) PreloadSuggestions(ctx context.Context, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	top, err := c.index.TopMovies(ctx, limit)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, movie := range top {
		for _, language := range movie.Languages {
			key := movie.MovieKey + "_" + language
			record, err := c.index.GetSubtitle(ctx, key)
			if err != nil {
				c.logger.Warn("subtitle lookup failed during preload scan",
					logging.String(logging.FieldKey, key),
					logging.Error(err))
				continue
			}
			if record != nil && record.Source == store.SourceRemote {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				MovieKey:     movie.MovieKey,
				Language:     language,
				RequestCount: movie.RequestCount,
			})
		}
	}
	return suggestions, nil
}
