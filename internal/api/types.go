package api

// DaemonStatus summarizes daemon runtime state.
type DaemonStatus struct {
	Running       bool            `json:"running"`
	PID           int             `json:"pid"`
	DatabasePath  string          `json:"databasePath"`
	LockFilePath  string          `json:"lockFilePath"`
	RemoteEnabled bool            `json:"remoteEnabled"`
	Subtitles     SubtitleStats   `json:"subtitles"`
	Popularity    PopularityStats `json:"popularity"`
	MediaCount    int64           `json:"mediaCount"`
	Quota         *QuotaStatus    `json:"quota,omitempty"`
}

// SubtitleStats aggregates the subtitle cache.
type SubtitleStats struct {
	Total         int64 `json:"total"`
	RemoteCount   int64 `json:"remoteCount"`
	FallbackCount int64 `json:"fallbackCount"`
	TotalBytes    int64 `json:"totalBytes"`
}

// PopularityStats aggregates tracked demand.
type PopularityStats struct {
	TrackedMovies int64 `json:"trackedMovies"`
	TotalRequests int64 `json:"totalRequests"`
}

// QuotaStatus reports remote download quota consumption.
type QuotaStatus struct {
	UsedToday  int    `json:"usedToday"`
	DailyLimit int    `json:"dailyLimit"`
	Remaining  int    `json:"remaining"`
	Error      string `json:"error,omitempty"`
}

// PopularMovie is one entry in the popularity ranking.
type PopularMovie struct {
	MovieKey        string   `json:"movieKey"`
	RequestCount    int64    `json:"requestCount"`
	Languages       []string `json:"languages,omitempty"`
	LastRequestedAt string   `json:"lastRequestedAt,omitempty"`
}

// PopularResponse lists the most requested movies.
type PopularResponse struct {
	Movies []PopularMovie `json:"movies"`
}

// MediaEntry describes one indexed media file.
type MediaEntry struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	FileName   string `json:"fileName,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
	Language   string `json:"language,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Category   string `json:"category,omitempty"`
	FileRef    string `json:"fileRef,omitempty"`
	AddedAt    string `json:"addedAt,omitempty"`
}

// SearchResponse is one page of catalog matches. Session identifies the
// paging cursor; passing it back resumes where the page left off.
type SearchResponse struct {
	Items   []MediaEntry `json:"items"`
	Total   int          `json:"total"`
	HasMore bool         `json:"hasMore"`
	Session string       `json:"session,omitempty"`
}

// AddMediaRequest registers a media file in the catalog.
type AddMediaRequest struct {
	Title      string `json:"title"`
	FileName   string `json:"fileName,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
	Language   string `json:"language,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Category   string `json:"category,omitempty"`
	FileRef    string `json:"fileRef,omitempty"`
}

// AddMediaResponse returns the assigned catalog entry ID.
type AddMediaResponse struct {
	ID int64 `json:"id"`
}

// PreloadSuggestion names a popular title with no real cached subtitle.
type PreloadSuggestion struct {
	MovieKey     string `json:"movieKey"`
	Language     string `json:"language"`
	RequestCount int64  `json:"requestCount"`
}

// SuggestionsResponse lists cache-warming candidates.
type SuggestionsResponse struct {
	Suggestions []PreloadSuggestion `json:"suggestions"`
}

// SubtitleResult pairs subtitle content with how it was resolved.
type SubtitleResult struct {
	Content  []byte `json:"-"`
	Source   string `json:"source"`
	CacheHit bool   `json:"cacheHit"`
	Provider string `json:"provider,omitempty"`
}

// ErrorResponse is the error envelope for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
