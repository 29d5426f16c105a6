// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"subvault/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithAPIKey enables remote fetching with the given provider key.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.OpenSubtitles.APIKey = key
	}
}

// WithProviderBaseURL points the provider client at a test server.
func WithProviderBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.OpenSubtitles.BaseURL = url
	}
}
