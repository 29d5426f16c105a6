package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subvault/internal/api"
	"subvault/internal/logging"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testConfig(t)
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func newTestServer(t *testing.T) (*Daemon, *httptest.Server) {
	t.Helper()
	d := newTestDaemon(t)
	server := httptest.NewServer(d.api.server.Handler)
	t.Cleanup(server.Close)
	return d, server
}

func getBody(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestSubtitleEndpointServesFallbackAndCaches(t *testing.T) {
	_, server := newTestServer(t)

	resp, body := getBody(t, server.URL+"/api/subtitle?title=KGF.2018.1080p.BluRay&language=english")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Subtitle-Source"); got != "fallback" {
		t.Errorf("source = %q, want fallback", got)
	}
	if got := resp.Header.Get("X-Subtitle-Cache"); got != "miss" {
		t.Errorf("cache = %q, want miss", got)
	}
	if !strings.Contains(string(body), "-->") {
		t.Errorf("body is not SRT:\n%s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}

	second, secondBody := getBody(t, server.URL+"/api/subtitle?title=kgf_2018&language=English")
	if got := second.Header.Get("X-Subtitle-Cache"); got != "hit" {
		t.Errorf("cache = %q, want hit for equivalent title", got)
	}
	if !bytes.Equal(body, secondBody) {
		t.Error("cached content differs from original")
	}
}

func TestSubtitleEndpointRequiresTitle(t *testing.T) {
	_, server := newTestServer(t)
	resp, _ := getBody(t, server.URL+"/api/subtitle")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubtitleEndpointDefaultsLanguage(t *testing.T) {
	d, server := newTestServer(t)
	resp, _ := getBody(t, server.URL+"/api/subtitle?title=Solo+Movie")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	record, err := d.store.GetSubtitle(context.Background(), "solo movie_"+d.cfg.Languages.Default)
	if err != nil || record == nil {
		t.Fatalf("default-language key not cached: record=%v err=%v", record, err)
	}
}

func TestPopularEndpoint(t *testing.T) {
	_, server := newTestServer(t)

	for i := 0; i < 3; i++ {
		getBody(t, server.URL+"/api/subtitle?title=Hot+Movie&language=english")
	}
	getBody(t, server.URL+"/api/subtitle?title=Cold+Movie&language=korean")

	resp, body := getBody(t, server.URL+"/api/popular?limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var popular api.PopularResponse
	if err := json.Unmarshal(body, &popular); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(popular.Movies) != 2 {
		t.Fatalf("got %d movies", len(popular.Movies))
	}
	if popular.Movies[0].MovieKey != "hot movie" || popular.Movies[0].RequestCount != 3 {
		t.Errorf("top movie: %+v", popular.Movies[0])
	}
}

func TestMediaAndSearchEndpoints(t *testing.T) {
	_, server := newTestServer(t)

	for i := 0; i < 3; i++ {
		payload := fmt.Sprintf(`{"title": "KGF Part %d", "language": "english", "resolution": "1080p", "category": "movie"}`, i+1)
		resp, err := http.Post(server.URL+"/api/media", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("post media: %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, body := getBody(t, server.URL+"/api/search?query=kgf&limit=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var first api.SearchResponse
	if err := json.Unmarshal(body, &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Total != 3 || len(first.Items) != 2 || !first.HasMore {
		t.Fatalf("first page: %+v", first)
	}
	if first.Session == "" {
		t.Fatal("expected a session cursor")
	}

	resp, body = getBody(t, server.URL+"/api/search?session="+first.Session)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var second api.SearchResponse
	if err := json.Unmarshal(body, &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(second.Items) != 1 || second.HasMore {
		t.Fatalf("second page: %+v", second)
	}

	// The cursor is deleted after the final page.
	resp, _ = getBody(t, server.URL+"/api/search?session="+first.Session)
	if resp.StatusCode != http.StatusGone {
		t.Fatalf("status = %d, want 410 for finished session", resp.StatusCode)
	}
}

func TestSearchUnknownSession(t *testing.T) {
	_, server := newTestServer(t)
	resp, _ := getBody(t, server.URL+"/api/search?session=nonexistent")
	if resp.StatusCode != http.StatusGone {
		t.Fatalf("status = %d, want 410", resp.StatusCode)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	_, server := newTestServer(t)

	// A fallback-only cache entry keeps the movie on the suggestion list.
	getBody(t, server.URL+"/api/subtitle?title=Wanted+Movie&language=english")

	resp, body := getBody(t, server.URL+"/api/suggestions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var suggestions api.SuggestionsResponse
	if err := json.Unmarshal(body, &suggestions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(suggestions.Suggestions) != 1 {
		t.Fatalf("got %d suggestions: %+v", len(suggestions.Suggestions), suggestions)
	}
	if suggestions.Suggestions[0].MovieKey != "wanted movie" || suggestions.Suggestions[0].Language != "english" {
		t.Errorf("suggestion: %+v", suggestions.Suggestions[0])
	}
}

func TestStatusEndpoint(t *testing.T) {
	d, server := newTestServer(t)
	getBody(t, server.URL+"/api/subtitle?title=Any+Movie&language=english")

	resp, body := getBody(t, server.URL+"/api/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.RemoteEnabled {
		t.Error("remote should be disabled without an api key")
	}
	if status.Quota != nil {
		t.Error("quota should be omitted without an api key")
	}
	if status.Subtitles.FallbackCount != 1 {
		t.Errorf("fallback count = %d, want 1", status.Subtitles.FallbackCount)
	}
	if status.DatabasePath != d.cfg.DatabasePath() {
		t.Errorf("database path = %q", status.DatabasePath)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, server := newTestServer(t)
	resp, err := http.Post(server.URL+"/api/popular", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestMediaEndpointRejectsMissingTitle(t *testing.T) {
	_, server := newTestServer(t)
	resp, err := http.Post(server.URL+"/api/media", "application/json", strings.NewReader(`{"language": "english"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
