package subtitles

import (
	"context"
	"log/slog"

	"subvault/internal/logging"
	"subvault/internal/providers/opensubtitles"
	"subvault/internal/services"
	"subvault/internal/titles"
)

// OpenSubtitlesProvider adapts the OpenSubtitles REST client to the pipeline.
// It implements both Provider and QuotaReporter, since the same account
// backs downloads and the daily quota.
type OpenSubtitlesProvider struct {
	client *opensubtitles.Client
	logger *slog.Logger
}

// NewOpenSubtitlesProvider wraps an OpenSubtitles client.
func NewOpenSubtitlesProvider(client *opensubtitles.Client, logger *slog.Logger) *OpenSubtitlesProvider {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OpenSubtitlesProvider{
		client: client,
		logger: logging.NewComponentLogger(logger, "opensubtitles"),
	}
}

// Name identifies the provider in logs and fetch results.
func (p *OpenSubtitlesProvider) Name() string { return "opensubtitles" }

// Fetch searches for the best subtitle candidate and downloads it.
func (p *OpenSubtitlesProvider) Fetch(ctx context.Context, title, language string) ([]byte, error) {
	query := titles.Normalize(title)
	code := titles.LanguageCode(language)

	resp, err := p.client.Search(ctx, query, code)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "opensubtitles", "fetch", "search subtitles", err)
	}
	if len(resp.Subtitles) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "opensubtitles", "fetch", "no candidates for "+query, nil)
	}

	// Results arrive ordered by download count; the first candidate wins.
	candidate := resp.Subtitles[0]
	p.logger.Debug("selected subtitle candidate",
		logging.String(logging.FieldTitle, query),
		logging.String(logging.FieldLanguage, code),
		logging.String("release", candidate.Release),
		logging.Int("downloads", candidate.Downloads))

	result, err := p.client.Download(ctx, candidate.FileID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "opensubtitles", "fetch", "download subtitle", err)
	}
	return result.Data, nil
}

// UsedToday reports the account's remote downloads consumed today.
func (p *OpenSubtitlesProvider) UsedToday(ctx context.Context) (int, error) {
	usage, err := p.client.UserUsage(ctx)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "opensubtitles", "quota", "query user usage", err)
	}
	return usage.DownloadsToday, nil
}
