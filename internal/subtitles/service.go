package subtitles

import (
	"context"
	"log/slog"

	"subvault/internal/logging"
	"subvault/internal/store"
	"subvault/internal/titles"
)

// SubtitleCache is the persistence surface the pipeline needs.
type SubtitleCache interface {
	GetSubtitle(ctx context.Context, key string) (*store.SubtitleRecord, error)
	PutSubtitle(ctx context.Context, key string, content []byte, source store.SubtitleSource) error
	RecordRequest(ctx context.Context, movieKey, language string) error
}

// Admitter decides whether a cache miss may spend a remote download.
type Admitter interface {
	Admit(ctx context.Context, movieKey string) Decision
}

// RemoteFetcher retrieves subtitle content from upstream providers.
type RemoteFetcher interface {
	Fetch(ctx context.Context, title, language string) ([]byte, string, error)
}

// Result describes how a subtitle request was satisfied.
type Result struct {
	Key      string
	Content  []byte
	Source   store.SubtitleSource
	CacheHit bool
	Provider string
}

// Service orchestrates the delivery pipeline. Admitter and RemoteFetcher may
// be nil, in which case the service runs in cache-and-fallback mode.
type Service struct {
	cache     SubtitleCache
	admission Admitter
	fetcher   RemoteFetcher
	logger    *slog.Logger
}

// NewService assembles the pipeline.
func NewService(cache SubtitleCache, admission Admitter, fetcher RemoteFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cache:     cache,
		admission: admission,
		fetcher:   fetcher,
		logger:    logging.NewComponentLogger(logger, "subtitles"),
	}
}

// GetSubtitle resolves subtitle content for a raw title and language. It
// never fails: cache hits are served as-is, admitted misses try the remote
// providers, and everything else gets a synthesized placeholder. Write-backs
// are detached from the request context so an impatient caller cannot leave
// the cache stale.
func (s *Service) GetSubtitle(ctx context.Context, title, language string) Result {
	key := titles.CacheKey(title, language)
	movieKey := titles.MovieKey(title)
	log := s.logger.With(
		logging.String(logging.FieldKey, key),
		logging.String(logging.FieldLanguage, language))

	// Demand is recorded for every request, hit or miss. Losing a count is
	// not worth failing the request over.
	if err := s.cache.RecordRequest(ctx, movieKey, language); err != nil {
		log.Warn("failed to record request", logging.Error(err))
	}

	if record, err := s.cache.GetSubtitle(ctx, key); err != nil {
		log.Warn("cache lookup failed, treating as miss", logging.Error(err))
	} else if record != nil {
		log.Debug("cache hit", logging.String("source", string(record.Source)))
		return Result{Key: key, Content: record.Content, Source: record.Source, CacheHit: true}
	}

	if data, provider, ok := s.tryRemote(ctx, log, title, language, movieKey); ok {
		s.writeBack(ctx, log, key, data, store.SourceRemote)
		return Result{Key: key, Content: data, Source: store.SourceRemote, Provider: provider}
	}

	data := Synthesize(title, language)
	s.writeBack(ctx, log, key, data, store.SourceFallback)
	log.Info("served synthesized fallback subtitle")
	return Result{Key: key, Content: data, Source: store.SourceFallback}
}

func (s *Service) tryRemote(ctx context.Context, log *slog.Logger, title, language, movieKey string) ([]byte, string, bool) {
	if s.admission == nil || s.fetcher == nil {
		log.Debug("remote fetch disabled")
		return nil, "", false
	}

	decision := s.admission.Admit(ctx, movieKey)
	if !decision.Allowed {
		log.Info("remote fetch denied",
			logging.String("reason", decision.Reason),
			logging.Int("remaining", decision.Remaining),
			logging.Int64("popularity", decision.Popularity))
		return nil, "", false
	}
	log.Debug("remote fetch admitted",
		logging.String("reason", decision.Reason),
		logging.Int("remaining", decision.Remaining))

	data, provider, err := s.fetcher.Fetch(ctx, title, language)
	if err != nil {
		log.Warn("remote fetch failed", logging.Error(err))
		return nil, "", false
	}
	log.Info("fetched subtitle from provider",
		logging.String("provider", provider),
		logging.Int("bytes", len(data)))
	return data, provider, true
}

func (s *Service) writeBack(ctx context.Context, log *slog.Logger, key string, data []byte, source store.SubtitleSource) {
	if err := s.cache.PutSubtitle(context.WithoutCancel(ctx), key, data, source); err != nil {
		log.Warn("cache write-back failed",
			logging.String("source", string(source)),
			logging.Error(err))
	}
}
