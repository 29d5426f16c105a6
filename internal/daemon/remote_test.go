package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subvault/internal/api"
	"subvault/internal/logging"
	"subvault/internal/testsupport"
)

// fakeProviderServer emulates enough of the OpenSubtitles API for an
// end-to-end daemon test: quota info, search, and download.
func fakeProviderServer(t *testing.T, downloadsToday int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/infos/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"allowed_downloads": 200,
				"downloads_count":   downloadsToday,
			},
		})
	})
	mux.HandleFunc("/subtitles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{"id": "1", "attributes": {"language": "en", "files": [{"file_id": 55}]}}],
			"meta": {"total_count": 1}
		}`))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"link": "` + server.URL + `/payload.srt", "file_name": "x.srt"}`))
	})
	mux.HandleFunc("/payload.srt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nReal subtitle line\n"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newRemoteTestServer(t *testing.T, downloadsToday int) (*Daemon, *httptest.Server) {
	t.Helper()
	provider := fakeProviderServer(t, downloadsToday)
	cfg := testsupport.NewConfig(t,
		testsupport.WithAPIKey("test-key"),
		testsupport.WithProviderBaseURL(provider.URL))
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	server := httptest.NewServer(d.api.server.Handler)
	t.Cleanup(server.Close)
	return d, server
}

func TestSubtitleEndpointFetchesRemoteWhenQuotaPlentiful(t *testing.T) {
	_, server := newRemoteTestServer(t, 0)

	resp, body := getBody(t, server.URL+"/api/subtitle?title=KGF+2018&language=english")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Subtitle-Source"); got != "remote" {
		t.Fatalf("source = %q, want remote", got)
	}
	if got := resp.Header.Get("X-Subtitle-Provider"); got != "opensubtitles" {
		t.Errorf("provider = %q", got)
	}
	if !strings.Contains(string(body), "Real subtitle line") {
		t.Errorf("unexpected body:\n%s", body)
	}
}

func TestSubtitleEndpointDeniesUnpopularWhenQuotaLow(t *testing.T) {
	_, server := newRemoteTestServer(t, 190)

	resp, _ := getBody(t, server.URL+"/api/subtitle?title=Fresh+Movie&language=english")
	if got := resp.Header.Get("X-Subtitle-Source"); got != "fallback" {
		t.Fatalf("source = %q, want fallback for unpopular title under low quota", got)
	}
}

func TestStatusEndpointReportsQuota(t *testing.T) {
	_, server := newRemoteTestServer(t, 42)

	_, body := getBody(t, server.URL+"/api/status")
	var status api.DaemonStatus
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.RemoteEnabled {
		t.Error("remote should be enabled")
	}
	if status.Quota == nil {
		t.Fatal("quota missing")
	}
	if status.Quota.UsedToday != 42 || status.Quota.Remaining != 158 {
		t.Errorf("quota: %+v", status.Quota)
	}
}
