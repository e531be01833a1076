package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeArtifacts(); err != nil {
		return err
	}
	c.normalizeOMDb()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Bind = strings.TrimSpace(c.Paths.Bind)
	if c.Paths.Bind == "" {
		c.Paths.Bind = defaultBind
	}
	return nil
}

func (c *Config) normalizeArtifacts() error {
	var err error
	if c.Artifacts.Catalog, err = expandSource(c.Artifacts.Catalog); err != nil {
		return fmt.Errorf("artifacts.catalog: %w", err)
	}
	if c.Artifacts.Similarity, err = expandSource(c.Artifacts.Similarity); err != nil {
		return fmt.Errorf("artifacts.similarity: %w", err)
	}
	if c.Artifacts.Bundle, err = expandSource(c.Artifacts.Bundle); err != nil {
		return fmt.Errorf("artifacts.bundle: %w", err)
	}
	if strings.TrimSpace(c.Artifacts.CacheDir) == "" {
		c.Artifacts.CacheDir = defaultCacheDir()
	}
	if c.Artifacts.CacheDir, err = expandPath(c.Artifacts.CacheDir); err != nil {
		return fmt.Errorf("artifacts.cache_dir: %w", err)
	}
	if c.Artifacts.DownloadTimeout <= 0 {
		c.Artifacts.DownloadTimeout = defaultDownloadTimeout
	}
	c.Artifacts.CatalogSHA256 = strings.ToLower(strings.TrimSpace(c.Artifacts.CatalogSHA256))
	c.Artifacts.SimilaritySHA256 = strings.ToLower(strings.TrimSpace(c.Artifacts.SimilaritySHA256))
	c.Artifacts.BundleSHA256 = strings.ToLower(strings.TrimSpace(c.Artifacts.BundleSHA256))
	return nil
}

func (c *Config) normalizeOMDb() {
	if value, ok := os.LookupEnv("OMDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.OMDb.APIKey = value
	}
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		c.OMDb.BaseURL = defaultOMDbBaseURL
	}
	c.OMDb.PosterPlaceholder = strings.TrimSpace(c.OMDb.PosterPlaceholder)
	if c.OMDb.PosterPlaceholder == "" {
		c.OMDb.PosterPlaceholder = defaultPosterPlaceholder
	}
	c.OMDb.PosterError = strings.TrimSpace(c.OMDb.PosterError)
	if c.OMDb.PosterError == "" {
		c.OMDb.PosterError = defaultPosterError
	}
	if c.OMDb.PlotMaxLength == 0 {
		c.OMDb.PlotMaxLength = defaultPlotMaxLength
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
