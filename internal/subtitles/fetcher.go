package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subvault/internal/logging"
	"subvault/internal/services"
)

// DefaultProviderTimeout bounds each provider attempt.
const DefaultProviderTimeout = 30 * time.Second

// Provider fetches subtitle content for a title and language from one
// upstream source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, title, language string) ([]byte, error)
}

// Fetcher tries providers in fixed priority order until one returns valid
// subtitle content.
type Fetcher struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// NewFetcher builds a fetcher over the given providers, tried in slice
// order. A non-positive timeout falls back to DefaultProviderTimeout.
func NewFetcher(providers []Provider, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		providers: providers,
		timeout:   timeout,
		logger:    logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Fetch returns the first valid subtitle any provider produces, along with
// the provider's name. Provider failures, panics, and implausible payloads
// all count as misses for that provider; the next one is tried. When every
// provider misses, Fetch returns a not-found error.
func (f *Fetcher) Fetch(ctx context.Context, title, language string) ([]byte, string, error) {
	if len(f.providers) == 0 {
		return nil, "", services.Wrap(services.ErrNotFound, "fetcher", "fetch", "no providers configured", nil)
	}
	for _, provider := range f.providers {
		if err := ctx.Err(); err != nil {
			return nil, "", services.Wrap(services.ErrTimeout, "fetcher", "fetch", "request cancelled", err)
		}
		data, err := f.tryProvider(ctx, provider, title, language)
		if err != nil {
			f.logger.Warn("provider fetch failed",
				logging.String("provider", provider.Name()),
				logging.String(logging.FieldTitle, title),
				logging.String(logging.FieldLanguage, language),
				logging.Error(err))
			continue
		}
		if !ValidSubtitle(data) {
			f.logger.Warn("provider returned implausible subtitle content",
				logging.String("provider", provider.Name()),
				logging.String(logging.FieldTitle, title),
				logging.Int("bytes", len(data)))
			continue
		}
		return data, provider.Name(), nil
	}
	return nil, "", services.Wrap(services.ErrNotFound, "fetcher", "fetch",
		fmt.Sprintf("no provider had subtitles for %q (%s)", title, language), nil)
}

func (f *Fetcher) tryProvider(ctx context.Context, provider Provider, title, language string) (data []byte, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("provider %s panicked: %v", provider.Name(), recovered)
		}
	}()
	return provider.Fetch(attemptCtx, title, language)
}
