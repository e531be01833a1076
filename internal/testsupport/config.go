package testsupport

import (
	"path/filepath"
	"testing"

	"reelmatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Artifact paths point inside the temp directory but no files are written
// unless WithArtifacts is supplied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.OMDb.APIKey = "test"
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.Bind = "127.0.0.1:0"
	cfgVal.Artifacts.Catalog = filepath.Join(base, "artifacts", "movies.json")
	cfgVal.Artifacts.Similarity = filepath.Join(base, "artifacts", "similarity.npy")
	cfgVal.Artifacts.CacheDir = filepath.Join(base, "cache")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOMDb points the OMDb client at baseURL using the given key.
func WithOMDb(baseURL, key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.BaseURL = baseURL
		b.cfg.OMDb.APIKey = key
	}
}

// WithArtifacts writes a JSON catalog and .npy matrix for titles and rows.
func WithArtifacts(titles []string, rows [][]float64) ConfigOption {
	return func(b *configBuilder) {
		WriteCatalogJSON(b.t, b.cfg.Artifacts.Catalog, titles)
		WriteNPY(b.t, b.cfg.Artifacts.Similarity, rows)
	}
}

// WithBundle writes a SQLite bundle for titles and rows and selects it as the
// artifact source.
func WithBundle(titles []string, rows [][]float64) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "artifacts", "movies.db")
		WriteBundle(b.t, path, titles, rows)
		b.cfg.Artifacts.Bundle = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
