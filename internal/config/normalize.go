package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenSubtitles()
	c.normalizeAdmission()
	c.normalizeLanguages()
	c.normalizeSessions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeOpenSubtitles() {
	c.OpenSubtitles.APIKey = strings.TrimSpace(c.OpenSubtitles.APIKey)
	if c.OpenSubtitles.APIKey == "" {
		if value, ok := os.LookupEnv("OPENSUBTITLES_API_KEY"); ok {
			c.OpenSubtitles.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenSubtitles.UserToken = strings.TrimSpace(c.OpenSubtitles.UserToken)
	if c.OpenSubtitles.UserToken == "" {
		if value, ok := os.LookupEnv("OPENSUBTITLES_USER_TOKEN"); ok {
			c.OpenSubtitles.UserToken = strings.TrimSpace(value)
		}
	}
	c.OpenSubtitles.UserAgent = strings.TrimSpace(c.OpenSubtitles.UserAgent)
	if c.OpenSubtitles.UserAgent == "" {
		c.OpenSubtitles.UserAgent = defaultOpenSubtitlesUserAgent
	}
	c.OpenSubtitles.BaseURL = strings.TrimSpace(c.OpenSubtitles.BaseURL)
	if c.OpenSubtitles.BaseURL == "" {
		c.OpenSubtitles.BaseURL = defaultOpenSubtitlesBaseURL
	}
	if c.OpenSubtitles.TimeoutSeconds <= 0 {
		c.OpenSubtitles.TimeoutSeconds = defaultProviderTimeoutSeconds
	}
}

func (c *Config) normalizeAdmission() {
	if c.Admission.DailyLimit <= 0 {
		c.Admission.DailyLimit = defaultDailyLimit
	}
	if c.Admission.PlentyRemaining <= 0 {
		c.Admission.PlentyRemaining = defaultPlentyRemaining
	}
	if c.Admission.ModerateRemaining <= 0 {
		c.Admission.ModerateRemaining = defaultModerateRemaining
	}
	if c.Admission.LowRemaining <= 0 {
		c.Admission.LowRemaining = defaultLowRemaining
	}
	if c.Admission.ModeratePopularity <= 0 {
		c.Admission.ModeratePopularity = defaultModeratePopularity
	}
	if c.Admission.LowPopularity <= 0 {
		c.Admission.LowPopularity = defaultLowPopularity
	}
	if c.Admission.EmergencyPopularity <= 0 {
		c.Admission.EmergencyPopularity = defaultEmergencyPopularity
	}
}

func (c *Config) normalizeLanguages() {
	c.Languages.Default = strings.ToLower(strings.TrimSpace(c.Languages.Default))
	if c.Languages.Default == "" {
		c.Languages.Default = defaultLanguage
	}
	if len(c.Languages.Priority) == 0 {
		c.Languages.Priority = Default().Languages.Priority
		return
	}
	langs := make([]string, 0, len(c.Languages.Priority))
	seen := make(map[string]struct{}, len(c.Languages.Priority))
	for _, lang := range c.Languages.Priority {
		normalized := strings.ToLower(strings.TrimSpace(lang))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		langs = append(langs, normalized)
	}
	if len(langs) == 0 {
		langs = Default().Languages.Priority
	}
	c.Languages.Priority = langs
}

func (c *Config) normalizeSessions() {
	if c.Sessions.TTLSeconds <= 0 {
		c.Sessions.TTLSeconds = defaultSessionTTLSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
