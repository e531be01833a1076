package api

import (
	"context"
	"log/slog"
	"time"

	"reelmatch/internal/enrich"
	"reelmatch/internal/logging"
	"reelmatch/internal/metrics"
	"reelmatch/internal/recommend"
	"reelmatch/internal/services"
)

// MetadataFetcher enriches titles in order.
type MetadataFetcher interface {
	FetchAll(ctx context.Context, titles []string) []enrich.Metadata
}

// Limits bounds the result count a caller may request.
type Limits struct {
	DefaultK int
	MaxK     int
}

// Service combines the recommender and enricher into view types.
type Service struct {
	recommender *recommend.Recommender
	enricher    MetadataFetcher
	limits      Limits
	logger      *slog.Logger
}

// NewService constructs a Service. enricher may be nil to skip metadata.
func NewService(rec *recommend.Recommender, enricher MetadataFetcher, limits Limits, logger *slog.Logger) *Service {
	if limits.DefaultK <= 0 {
		limits.DefaultK = recommend.DefaultK
	}
	if limits.MaxK < limits.DefaultK {
		limits.MaxK = limits.DefaultK
	}
	return &Service{
		recommender: rec,
		enricher:    enricher,
		limits:      limits,
		logger:      logging.NewComponentLogger(logger, "recommend"),
	}
}

// ClampK maps a requested result count onto the service limits. Non-positive
// values select the default.
func (s *Service) ClampK(k int) int {
	if k <= 0 {
		return s.limits.DefaultK
	}
	if k > s.limits.MaxK {
		return s.limits.MaxK
	}
	return k
}

// Recommend ranks titles similar to title and attaches metadata. A title
// missing from the catalog is not an error: the response has Found=false and
// no results.
func (s *Service) Recommend(ctx context.Context, title string, k int) (RecommendationResponse, error) {
	if title == "" {
		return RecommendationResponse{}, services.Wrap(services.ErrValidation, "api", "recommend", "title is required", nil)
	}
	k = s.ClampK(k)
	logger := logging.WithContext(ctx, s.logger)

	start := time.Now()
	recs := s.recommender.Recommend(title, k)
	metrics.RecordRecommendation(len(recs), time.Since(start))

	_, found := s.recommender.Catalog().Lookup(title)
	resp := RecommendationResponse{
		Title: title,
		K:     k,
		Found: found,
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		resp.RequestID = rid
	}

	if len(recs) == 0 {
		logger.Info("no recommendations available",
			logging.String(logging.FieldTitle, title),
			logging.Bool("found", found),
		)
		resp.Results = []Card{}
		return resp, nil
	}

	var metas []enrich.Metadata
	if s.enricher != nil {
		titles := make([]string, len(recs))
		for idx, rec := range recs {
			titles[idx] = rec.Title
		}
		metas = s.enricher.FetchAll(ctx, titles)
		resp.Enriched = true
	}
	resp.Results = FromRecommendations(recs, metas)

	logger.Info("recommendations served",
		logging.String(logging.FieldTitle, title),
		logging.Int("k", k),
		logging.Int("results", len(recs)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// Titles lists catalog titles containing query (case and accent
// insensitive). limit <= 0 returns every match.
func (s *Service) Titles(query string, limit int) TitleList {
	items := s.recommender.Catalog().Search(query, limit)
	titles := make([]string, len(items))
	for idx, item := range items {
		titles[idx] = item.Title
	}
	return TitleList{Query: query, Total: len(titles), Titles: titles}
}

// Health reports the loaded catalog size.
func (s *Service) Health() Health {
	return Health{Status: "ok", Items: s.recommender.Catalog().Len()}
}
