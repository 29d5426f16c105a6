package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// OpenSubtitles contains configuration for the OpenSubtitles provider.
type OpenSubtitles struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	UserAgent      string `toml:"user_agent"`
	UserToken      string `toml:"user_token"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Admission contains the quota-aware admission-control tuning. The bucket
// boundaries and popularity thresholds are hand-tuned heuristics, exposed
// here so deployments can adjust them without a rebuild.
type Admission struct {
	DailyLimit int `toml:"daily_limit"`

	// Remaining-quota bucket boundaries, descending.
	PlentyRemaining   int `toml:"plenty_remaining"`
	ModerateRemaining int `toml:"moderate_remaining"`
	LowRemaining      int `toml:"low_remaining"`

	// Popularity required to spend quota inside each bucket.
	ModeratePopularity  int `toml:"moderate_popularity"`
	LowPopularity       int `toml:"low_popularity"`
	EmergencyPopularity int `toml:"emergency_popularity"`
}

// Languages contains subtitle language preferences.
type Languages struct {
	Default  string   `toml:"default"`
	Priority []string `toml:"priority"`
}

// Sessions contains session store tuning for the API surface.
type Sessions struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subvault.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - OpenSubtitles: remote subtitle provider credentials and endpoint
//   - Admission: daily quota ceiling and popularity thresholds
//   - Languages: default language and priority ordering
//   - Sessions: API session cursor lifetime
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	OpenSubtitles OpenSubtitles `toml:"opensubtitles"`
	Admission     Admission     `toml:"admission"`
	Languages     Languages     `toml:"languages"`
	Sessions      Sessions      `toml:"sessions"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subvault/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Configuration is read
// once at startup; there is no hot reload.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subvault.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RemoteFetchEnabled reports whether the remote-fetch stage can run. A
// missing API key disables remote fetching rather than failing startup; the
// pipeline then serves cache and fallback only.
func (c *Config) RemoteFetchEnabled() bool {
	return c.OpenSubtitles.Enabled && strings.TrimSpace(c.OpenSubtitles.APIKey) != ""
}

// DatabasePath returns the SQLite database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "subvault.db")
}

// LockFilePath returns the daemon single-instance lock location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.DataDir, "subvaultd.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
