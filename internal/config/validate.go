package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateOMDb(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if c.Enrich.Concurrency <= 0 {
		return errors.New("enrich.concurrency must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateArtifacts() error {
	if !c.UsesBundle() {
		if strings.TrimSpace(c.Artifacts.Catalog) == "" {
			return errors.New("artifacts.catalog must be set when artifacts.bundle is empty")
		}
		if strings.TrimSpace(c.Artifacts.Similarity) == "" {
			return errors.New("artifacts.similarity must be set when artifacts.bundle is empty")
		}
	}
	if c.Artifacts.DownloadTimeout <= 0 {
		return errors.New("artifacts.download_timeout must be positive (seconds)")
	}
	for key, value := range map[string]string{
		"artifacts.catalog_sha256":    c.Artifacts.CatalogSHA256,
		"artifacts.similarity_sha256": c.Artifacts.SimilaritySHA256,
		"artifacts.bundle_sha256":     c.Artifacts.BundleSHA256,
	} {
		if value != "" && !isHexDigest(value) {
			return fmt.Errorf("%s must be a 64-character hex SHA-256 digest", key)
		}
	}
	return nil
}

func (c *Config) validateOMDb() error {
	parsed, err := url.Parse(c.OMDb.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("omdb.base_url must be an absolute URL, got %q", c.OMDb.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"omdb.timeout_seconds": c.OMDb.TimeoutSeconds,
		"omdb.plot_max_length": c.OMDb.PlotMaxLength,
	}); err != nil {
		return err
	}
	if c.OMDb.RequestsPerSecond < 0 {
		return errors.New("omdb.requests_per_second must be >= 0 (0 disables rate limiting)")
	}
	if c.OMDb.BreakerFailures < 0 {
		return errors.New("omdb.breaker_failures must be >= 0 (0 disables the circuit breaker)")
	}
	if c.OMDb.BreakerFailures > 0 && c.OMDb.BreakerCooldownSeconds <= 0 {
		return errors.New("omdb.breaker_cooldown_seconds must be positive when omdb.breaker_failures is set")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK <= 0 {
		return errors.New("recommend.default_k must be positive")
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return errors.New("recommend.max_k must be >= recommend.default_k")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func isHexDigest(value string) bool {
	if len(value) != 64 {
		return false
	}
	for _, r := range value {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
