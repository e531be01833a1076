package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reelmatch/internal/catalog"
	"reelmatch/internal/config"
	"reelmatch/internal/fileutil"
	"reelmatch/internal/logging"
	"reelmatch/internal/metrics"
	"reelmatch/internal/services"
	"reelmatch/internal/similarity"
)

// Sources records the local files an artifact Set was read from.
type Sources struct {
	Catalog    string `json:"catalog,omitempty"`
	Similarity string `json:"similarity,omitempty"`
	Bundle     string `json:"bundle,omitempty"`
}

// Set is the read-only context every recommendation is computed against.
type Set struct {
	Catalog *catalog.Catalog
	Matrix  *similarity.Matrix
	Sources Sources
}

// LoadOptions tweaks a single Load call.
type LoadOptions struct {
	// Refresh re-downloads remote sources even when cached.
	Refresh bool
}

// Load resolves, verifies, and decodes the configured artifacts. Every error
// is wrapped with services.ErrArtifact.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts LoadOptions) (*Set, error) {
	logger = logging.NewComponentLogger(logger, "artifact")
	fetcher := NewFetcher(cfg.Artifacts.CacheDir, cfg.DownloadTimeout(), logger)
	start := time.Now()

	var (
		set *Set
		err error
	)
	if cfg.UsesBundle() {
		set, err = loadBundle(ctx, cfg, fetcher, opts)
	} else {
		set, err = loadSeparate(ctx, cfg, fetcher, opts)
	}
	if err != nil {
		return nil, err
	}

	if set.Matrix.Dim() != set.Catalog.Len() {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "load",
			fmt.Sprintf("similarity dimension %d does not match catalog size %d", set.Matrix.Dim(), set.Catalog.Len()), nil)
	}

	nonFinite := set.Matrix.NonFinite()
	metrics.RecordArtifacts(set.Catalog.Len(), nonFinite)
	logger.Info("artifacts loaded",
		logging.Int("items", set.Catalog.Len()),
		logging.Int("dimension", set.Matrix.Dim()),
		logging.Int("non_finite", nonFinite),
		logging.Duration("elapsed", time.Since(start)),
	)
	if nonFinite > 0 {
		logging.WarnWithContext(logger, "similarity matrix contains NaN or infinite scores", "similarity_non_finite",
			logging.Int("non_finite", nonFinite),
			logging.String(logging.FieldErrorHint, "regenerate the similarity matrix"),
			logging.String(logging.FieldImpact, "affected titles rank after every finite score"),
		)
	}
	return set, nil
}

func loadBundle(ctx context.Context, cfg *config.Config, fetcher *Fetcher, opts LoadOptions) (*Set, error) {
	path, err := resolveVerified(ctx, fetcher, cfg.Artifacts.Bundle, cfg.Artifacts.BundleSHA256, opts.Refresh)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "resolve bundle", "", err)
	}
	c, m, err := ReadBundle(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "read bundle", path, err)
	}
	return &Set{Catalog: c, Matrix: m, Sources: Sources{Bundle: path}}, nil
}

func loadSeparate(ctx context.Context, cfg *config.Config, fetcher *Fetcher, opts LoadOptions) (*Set, error) {
	catalogPath, err := resolveVerified(ctx, fetcher, cfg.Artifacts.Catalog, cfg.Artifacts.CatalogSHA256, opts.Refresh)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "resolve catalog", "", err)
	}
	similarityPath, err := resolveVerified(ctx, fetcher, cfg.Artifacts.Similarity, cfg.Artifacts.SimilaritySHA256, opts.Refresh)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "resolve similarity", "", err)
	}

	c, err := ReadCatalogFile(catalogPath)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "read catalog", catalogPath, err)
	}
	m, err := ReadNPYFile(similarityPath)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifact, "artifact", "read similarity", similarityPath, err)
	}
	return &Set{
		Catalog: c,
		Matrix:  m,
		Sources: Sources{Catalog: catalogPath, Similarity: similarityPath},
	}, nil
}

func resolveVerified(ctx context.Context, fetcher *Fetcher, source, digest string, refresh bool) (string, error) {
	path, err := fetcher.Resolve(ctx, source, refresh)
	if err != nil {
		return "", err
	}
	if err := fileutil.VerifySHA256(path, digest); err != nil {
		return "", err
	}
	return path, nil
}
