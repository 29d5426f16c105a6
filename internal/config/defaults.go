package config

const (
	defaultDataDir                = "~/.local/share/subvault"
	defaultLogDir                 = "~/.local/share/subvault/logs"
	defaultAPIBind                = "127.0.0.1:7519"
	defaultOpenSubtitlesBaseURL   = "https://api.opensubtitles.com/api/v1"
	defaultOpenSubtitlesUserAgent = "subvault/dev"
	defaultProviderTimeoutSeconds = 30
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultSessionTTLSeconds      = 900

	defaultDailyLimit          = 200
	defaultPlentyRemaining     = 100
	defaultModerateRemaining   = 50
	defaultLowRemaining        = 20
	defaultModeratePopularity  = 2
	defaultLowPopularity       = 5
	defaultEmergencyPopularity = 10

	defaultLanguage = "english"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		OpenSubtitles: OpenSubtitles{
			Enabled:        true,
			BaseURL:        defaultOpenSubtitlesBaseURL,
			UserAgent:      defaultOpenSubtitlesUserAgent,
			TimeoutSeconds: defaultProviderTimeoutSeconds,
		},
		Admission: Admission{
			DailyLimit:          defaultDailyLimit,
			PlentyRemaining:     defaultPlentyRemaining,
			ModerateRemaining:   defaultModerateRemaining,
			LowRemaining:        defaultLowRemaining,
			ModeratePopularity:  defaultModeratePopularity,
			LowPopularity:       defaultLowPopularity,
			EmergencyPopularity: defaultEmergencyPopularity,
		},
		Languages: Languages{
			Default: defaultLanguage,
			Priority: []string{
				"english", "korean", "spanish", "french", "german", "italian",
				"portuguese", "chinese", "japanese", "arabic", "hindi", "tamil",
				"malayalam", "telugu",
			},
		},
		Sessions: Sessions{
			TTLSeconds: defaultSessionTTLSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
