package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Admission.DailyLimit != defaultDailyLimit {
		t.Errorf("daily limit = %d, want %d", cfg.Admission.DailyLimit, defaultDailyLimit)
	}
	if cfg.OpenSubtitles.BaseURL != defaultOpenSubtitlesBaseURL {
		t.Errorf("base url = %q, want default", cfg.OpenSubtitles.BaseURL)
	}
	if cfg.Languages.Default != "english" {
		t.Errorf("default language = %q, want english", cfg.Languages.Default)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"

[opensubtitles]
api_key = "abc123"

[admission]
daily_limit = 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Admission.DailyLimit != 50 {
		t.Errorf("daily limit = %d, want 50", cfg.Admission.DailyLimit)
	}
	if !cfg.RemoteFetchEnabled() {
		t.Error("expected remote fetch enabled with api key set")
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Errorf("data dir should be absolute, got %q", cfg.Paths.DataDir)
	}
	if got := cfg.DatabasePath(); !strings.HasSuffix(got, "subvault.db") {
		t.Errorf("unexpected database path %q", got)
	}
}

func TestRemoteFetchDisabledWithoutKey(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.OpenSubtitles.APIKey = ""
	if cfg.RemoteFetchEnabled() {
		t.Error("remote fetch should be disabled without an api key")
	}
	cfg.OpenSubtitles.APIKey = "key"
	cfg.OpenSubtitles.Enabled = false
	if cfg.RemoteFetchEnabled() {
		t.Error("remote fetch should be disabled when provider disabled")
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("OPENSUBTITLES_API_KEY", "  env-key  ")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.OpenSubtitles.APIKey != "env-key" {
		t.Errorf("api key = %q, want env-key", cfg.OpenSubtitles.APIKey)
	}
}

func TestValidateRejectsNonDescendingBuckets(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Admission.ModerateRemaining = cfg.Admission.PlentyRemaining
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for equal bucket boundaries")
	}
}

func TestValidateRejectsNonAscendingPopularity(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Admission.LowPopularity = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for non-ascending popularity thresholds")
	}
}

func TestNormalizeLanguagesDeduplicates(t *testing.T) {
	cfg := Default()
	cfg.Languages.Priority = []string{" English ", "english", "", "Tamil"}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{"english", "tamil"}
	if len(cfg.Languages.Priority) != len(want) {
		t.Fatalf("priority = %v, want %v", cfg.Languages.Priority, want)
	}
	for i, lang := range want {
		if cfg.Languages.Priority[i] != lang {
			t.Errorf("priority[%d] = %q, want %q", i, cfg.Languages.Priority[i], lang)
		}
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[admission]") {
		t.Error("sample config missing admission section")
	}
}
