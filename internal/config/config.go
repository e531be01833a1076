package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelmatch/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
	Bind   string `toml:"bind"`
}

// Artifacts locates the precomputed catalog and similarity matrix. Each
// source is a local path or an http(s) URL. When Bundle is set it replaces
// both Catalog and Similarity.
type Artifacts struct {
	Catalog          string `toml:"catalog"`
	Similarity       string `toml:"similarity"`
	Bundle           string `toml:"bundle"`
	CacheDir         string `toml:"cache_dir"`
	DownloadTimeout  int    `toml:"download_timeout"`
	CatalogSHA256    string `toml:"catalog_sha256"`
	SimilaritySHA256 string `toml:"similarity_sha256"`
	BundleSHA256     string `toml:"bundle_sha256"`
}

// OMDb contains configuration for the Open Movie Database metadata lookups.
type OMDb struct {
	APIKey                 string  `toml:"api_key"`
	BaseURL                string  `toml:"base_url"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	RequestsPerSecond      float64 `toml:"requests_per_second"`
	BreakerFailures        int     `toml:"breaker_failures"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
	PosterPlaceholder      string  `toml:"poster_placeholder"`
	PosterError            string  `toml:"poster_error"`
	PlotMaxLength          int     `toml:"plot_max_length"`
}

// Recommend sizes recommendation requests.
type Recommend struct {
	DefaultK int `toml:"default_k"`
	MaxK     int `toml:"max_k"`
}

// Enrich controls how result metadata is fetched.
type Enrich struct {
	Concurrency int `toml:"concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelmatch.
//
// Configuration sections by subsystem:
//   - Paths: log directory and HTTP bind address
//   - Artifacts: catalog/similarity sources, download cache, checksums
//   - OMDb: metadata provider credentials, timeouts, fallback images
//   - Recommend: default and maximum result counts
//   - Enrich: metadata lookup parallelism
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Artifacts Artifacts `toml:"artifacts"`
	OMDb      OMDb      `toml:"omdb"`
	Recommend Recommend `toml:"recommend"`
	Enrich    Enrich    `toml:"enrich"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelmatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and artifact cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Artifacts.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireOMDbKey reports a descriptive error when no OMDb API key is configured.
// Only commands that enrich results need the key.
func (c *Config) RequireOMDbKey() error {
	if strings.TrimSpace(c.OMDb.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("omdb.api_key is required. Set OMDB_API_KEY env var or edit %s (create with 'reelmatch config init')", defaultPath)
}

// OMDbTimeout returns the per-request timeout for metadata lookups.
func (c *Config) OMDbTimeout() time.Duration {
	return time.Duration(c.OMDb.TimeoutSeconds) * time.Second
}

// BreakerCooldown returns how long an open circuit breaker rejects lookups.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.OMDb.BreakerCooldownSeconds) * time.Second
}

// DownloadTimeout returns the timeout for remote artifact downloads.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Artifacts.DownloadTimeout) * time.Second
}

// UsesBundle reports whether artifacts come from a single SQLite bundle.
func (c *Config) UsesBundle() bool {
	return strings.TrimSpace(c.Artifacts.Bundle) != ""
}

// IsRemote reports whether an artifact source is an http(s) URL.
func IsRemote(source string) bool {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// expandSource expands local artifact paths and leaves URLs untouched.
func expandSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" || IsRemote(source) {
		return source, nil
	}
	return expandPath(source)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "reelmatch", "artifacts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/reelmatch/artifacts"
	}
	return filepath.Join(home, ".cache", "reelmatch", "artifacts")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
