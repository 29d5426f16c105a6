package catalog

import (
	"context"
	"testing"

	"subvault/internal/store"
)

type fakeIndex struct {
	media     []store.MediaRecord
	top       []store.PopularityRecord
	subtitles map[string]*store.SubtitleRecord
}

func (f *fakeIndex) ListMedia(_ context.Context, filter store.MediaFilter) ([]store.MediaRecord, error) {
	var out []store.MediaRecord
	for _, record := range f.media {
		if filter.Language != "" && record.Language != filter.Language {
			continue
		}
		if filter.Resolution != "" && record.Resolution != filter.Resolution {
			continue
		}
		if filter.Category != "" && record.Category != filter.Category {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeIndex) TopMovies(_ context.Context, limit int) ([]store.PopularityRecord, error) {
	if limit > len(f.top) {
		limit = len(f.top)
	}
	return f.top[:limit], nil
}

func (f *fakeIndex) GetSubtitle(_ context.Context, key string) (*store.SubtitleRecord, error) {
	return f.subtitles[key], nil
}

func testIndex() *fakeIndex {
	return &fakeIndex{
		media: []store.MediaRecord{
			{ID: 1, Title: "KGF 2018", NormalizedTitle: "kgf 2018", Language: "english", Resolution: "1080p", Category: "movie"},
			{ID: 2, Title: "KGF Chapter 2", NormalizedTitle: "kgf chapter 2", Language: "english", Resolution: "720p", Category: "movie"},
			{ID: 3, Title: "Dark S01", NormalizedTitle: "dark s01", Language: "german", Resolution: "1080p", Category: "series"},
		},
		subtitles: make(map[string]*store.SubtitleRecord),
	}
}

func TestSearchRegexQuery(t *testing.T) {
	c := New(testIndex(), nil)
	result, err := c.Search(context.Background(), SearchRequest{Query: "^kgf"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2", result.Total)
	}
}

func TestSearchInvalidRegexFallsBackToSubstring(t *testing.T) {
	c := New(testIndex(), nil)
	result, err := c.Search(context.Background(), SearchRequest{Query: "kgf ("})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// "kgf (" normalizes to "kgf (" which matches nothing, but must not error.
	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
}

func TestSearchStructuredFilters(t *testing.T) {
	c := New(testIndex(), nil)
	result, err := c.Search(context.Background(), SearchRequest{Language: "english", Resolution: "1080p"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 || result.Items[0].ID != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	c := New(testIndex(), nil)
	result, err := c.Search(context.Background(), SearchRequest{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
}

func TestSearchPagination(t *testing.T) {
	c := New(testIndex(), nil)

	first, err := c.Search(context.Background(), SearchRequest{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(first.Items) != 2 || !first.HasMore {
		t.Fatalf("first page: %d items, hasMore=%v", len(first.Items), first.HasMore)
	}

	second, err := c.Search(context.Background(), SearchRequest{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(second.Items) != 1 || second.HasMore {
		t.Fatalf("second page: %d items, hasMore=%v", len(second.Items), second.HasMore)
	}

	past, err := c.Search(context.Background(), SearchRequest{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(past.Items) != 0 || past.Total != 3 {
		t.Fatalf("past-end page: %+v", past)
	}
}

func TestPreloadSuggestions(t *testing.T) {
	index := testIndex()
	index.top = []store.PopularityRecord{
		{MovieKey: "kgf 2018", RequestCount: 9, Languages: []string{"english", "korean"}},
		{MovieKey: "dark s01", RequestCount: 4, Languages: []string{"german"}},
	}
	index.subtitles["kgf 2018_english"] = &store.SubtitleRecord{Source: store.SourceRemote}
	index.subtitles["dark s01_german"] = &store.SubtitleRecord{Source: store.SourceFallback}

	c := New(index, nil)
	suggestions, err := c.PreloadSuggestions(context.Background(), 10)
	if err != nil {
		t.Fatalf("preload suggestions: %v", err)
	}
	// kgf/english is already remote-cached; kgf/korean is missing and
	// dark/german only has a placeholder.
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions: %+v", len(suggestions), suggestions)
	}
	if suggestions[0].MovieKey != "kgf 2018" || suggestions[0].Language != "korean" {
		t.Errorf("first suggestion: %+v", suggestions[0])
	}
	if suggestions[1].MovieKey != "dark s01" || suggestions[1].Language != "german" {
		t.Errorf("second suggestion: %+v", suggestions[1])
	}
}
