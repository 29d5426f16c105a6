package subtitles

import (
	"context"
	"fmt"
	"log/slog"

	"subvault/internal/config"
	"subvault/internal/logging"
)

// QuotaReporter reports how many remote downloads the account has consumed
// today.
type QuotaReporter interface {
	UsedToday(ctx context.Context) (int, error)
}

// PopularityReader exposes the request counter for a movie.
type PopularityReader interface {
	Popularity(ctx context.Context, movieKey string) (int64, error)
}

// Decision records the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	Popularity int64
	Reason     string
}

// AdmissionController decides whether a cache miss may spend one remote
// download. The more of the daily quota is gone, the more popular a movie
// must be to qualify.
type AdmissionController struct {
	quota      QuotaReporter
	popularity PopularityReader
	cfg        config.Admission
	logger     *slog.Logger
}

// NewAdmissionController builds a controller over the given quota source and
// popularity counters.
func NewAdmissionController(quota QuotaReporter, popularity PopularityReader, cfg config.Admission, logger *slog.Logger) *AdmissionController {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AdmissionController{
		quota:      quota,
		popularity: popularity,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "admission"),
	}
}

// Admit reports whether a remote fetch for movieKey may proceed. The check
// fails closed: when the quota source cannot be queried the fetch is denied
// and the pipeline falls through to the synthesizer.
func (c *AdmissionController) Admit(ctx context.Context, movieKey string) Decision {
	used, err := c.quota.UsedToday(ctx)
	if err != nil {
		c.logger.Warn("quota source unavailable, denying remote fetch",
			logging.String(logging.FieldKey, movieKey),
			logging.Error(err))
		return Decision{Allowed: false, Reason: "quota unavailable"}
	}

	remaining := c.cfg.DailyLimit - used
	decision := Decision{Remaining: remaining}
	if remaining <= 0 {
		decision.Reason = "quota exhausted"
		return decision
	}
	if remaining > c.cfg.PlentyRemaining {
		decision.Allowed = true
		decision.Reason = "plenty of quota remaining"
		return decision
	}

	popularity, err := c.popularity.Popularity(ctx, movieKey)
	if err != nil {
		// Unknown demand counts as zero demand.
		c.logger.Warn("popularity lookup failed",
			logging.String(logging.FieldKey, movieKey),
			logging.Error(err))
		popularity = 0
	}
	decision.Popularity = popularity

	var threshold int
	switch {
	case remaining > c.cfg.ModerateRemaining:
		threshold = c.cfg.ModeratePopularity
	case remaining > c.cfg.LowRemaining:
		threshold = c.cfg.LowPopularity
	default:
		threshold = c.cfg.EmergencyPopularity
	}

	if popularity > int64(threshold) {
		decision.Allowed = true
		decision.Reason = fmt.Sprintf("popularity %d exceeds threshold %d", popularity, threshold)
	} else {
		decision.Reason = fmt.Sprintf("popularity %d at or below threshold %d", popularity, threshold)
	}
	return decision
}
