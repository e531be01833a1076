package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"reelmatch/internal/config"
	"reelmatch/internal/logging"
	"reelmatch/internal/metrics"
	"reelmatch/internal/omdb"
	"reelmatch/internal/services"
)

// DefaultConcurrency bounds parallel lookups when no setting is supplied.
const DefaultConcurrency = 5

// Enricher fetches metadata for titles. It is safe for concurrent use.
type Enricher struct {
	looker      omdb.Looker
	shaping     Shaping
	concurrency int
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*omdb.Response]
	logger      *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithShaping replaces the placeholder URLs and plot length.
func WithShaping(s Shaping) Option {
	return func(e *Enricher) {
		e.shaping = s
	}
}

// WithConcurrency bounds FetchAll parallelism. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRateLimit allows at most rps lookups per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(e *Enricher) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCircuitBreaker opens the breaker after failures consecutive lookup
// failures and keeps it open for cooldown. Zero failures disables it.
func WithCircuitBreaker(failures int, cooldown time.Duration) Option {
	return func(e *Enricher) {
		if failures <= 0 {
			e.breaker = nil
			return
		}
		e.breaker = gobreaker.NewCircuitBreaker[*omdb.Response](gobreaker.Settings{
			Name:        "omdb",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(failures)
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.BreakerState.Set(float64(to))
				e.logger.Info("circuit breaker state changed",
					logging.String("breaker", name),
					logging.String("from", from.String()),
					logging.String("to", to.String()),
				)
			},
		})
	}
}

// New builds an Enricher around any Looker.
func New(looker omdb.Looker, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		looker:      looker,
		shaping:     defaultShaping(),
		concurrency: DefaultConcurrency,
		logger:      logging.NewComponentLogger(logger, "enrich"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig builds an OMDb-backed Enricher. The OMDb API key must be set.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Enricher, error) {
	if err := cfg.RequireOMDbKey(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "init", "", err)
	}
	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, omdb.WithTimeout(cfg.OMDbTimeout()))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "init", "omdb client", err)
	}
	return New(client, logger,
		WithShaping(ShapingFromConfig(cfg)),
		WithConcurrency(cfg.Enrich.Concurrency),
		WithRateLimit(cfg.OMDb.RequestsPerSecond),
		WithCircuitBreaker(cfg.OMDb.BreakerFailures, cfg.BreakerCooldown()),
	), nil
}

// Fallback returns the value used for failed lookups.
func (e *Enricher) Fallback() Metadata {
	return e.shaping.Fallback()
}

// outcome keeps the provider failure visible until the package boundary.
type outcome struct {
	meta     Metadata
	err      error
	rejected bool
}

// Fetch returns display metadata for title. It never fails; provider errors
// are logged and replaced with the fallback value.
func (e *Enricher) Fetch(ctx context.Context, title string) Metadata {
	start := time.Now()
	result := e.lookup(ctx, title)
	elapsed := time.Since(start)

	if result.err == nil {
		metrics.RecordEnrichment(metrics.OutcomeOK, elapsed)
		logging.WithContext(ctx, e.logger).Debug("metadata fetched",
			logging.String(logging.FieldTitle, title),
			logging.Duration("latency", elapsed),
		)
		return result.meta
	}

	label := metrics.OutcomeFallback
	hint := "check omdb.api_key and network access to omdb.base_url"
	if result.rejected {
		label = metrics.OutcomeRejected
		hint = "lookups are paused after repeated failures or throttled; they resume automatically"
	}
	metrics.RecordEnrichment(label, elapsed)
	logging.WarnWithContext(logging.WithContext(ctx, e.logger), "metadata lookup failed; using fallback", "omdb_lookup_failed",
		logging.String(logging.FieldTitle, title),
		logging.Error(result.err),
		logging.Duration("latency", elapsed),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "result card shows placeholder poster and plot"),
	)
	return e.shaping.Fallback()
}

func (e *Enricher) lookup(ctx context.Context, title string) outcome {
	if e.looker == nil {
		return outcome{err: services.Wrap(services.ErrConfiguration, "omdb", "lookup", "no metadata provider configured", nil)}
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return outcome{err: services.Wrap(services.ErrUnavailable, "omdb", "rate limit", title, err), rejected: true}
		}
	}

	var (
		resp *omdb.Response
		err  error
	)
	if e.breaker != nil {
		resp, err = e.breaker.Execute(func() (*omdb.Response, error) {
			return e.looker.Lookup(ctx, title)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return outcome{err: services.Wrap(services.ErrUnavailable, "omdb", "circuit breaker", title, err), rejected: true}
		}
	} else {
		resp, err = e.looker.Lookup(ctx, title)
	}
	if err != nil {
		return outcome{err: services.Wrap(services.ErrExternal, "omdb", "lookup", title, err)}
	}
	return outcome{meta: e.shaping.Shape(resp)}
}

// FetchAll enriches titles in parallel and returns metadata aligned with the
// input order.
func (e *Enricher) FetchAll(ctx context.Context, titles []string) []Metadata {
	out := make([]Metadata, len(titles))
	if len(titles) == 0 {
		return out
	}
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for idx, title := range titles {
		g.Go(func() error {
			out[idx] = e.Fetch(ctx, title)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
