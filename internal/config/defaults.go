package config

const (
	defaultConfigPath             = "~/.config/reelmatch/config.toml"
	defaultLogDir                 = "~/.local/share/reelmatch/logs"
	defaultBind                   = "127.0.0.1:8501"
	defaultCatalogSource          = "~/.local/share/reelmatch/movies.json"
	defaultSimilaritySource       = "~/.local/share/reelmatch/similarity.npy"
	defaultDownloadTimeout        = 300
	defaultOMDbBaseURL            = "https://www.omdbapi.com/"
	defaultOMDbTimeoutSeconds     = 10
	defaultBreakerFailures        = 5
	defaultBreakerCooldownSeconds = 30
	defaultPosterPlaceholder      = "https://via.placeholder.com/500x750?text=No+Poster"
	defaultPosterError            = "https://via.placeholder.com/500x750?text=Error"
	defaultPlotMaxLength          = 180
	defaultK                      = 5
	defaultMaxK                   = 50
	defaultEnrichConcurrency      = 5
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
			Bind:   defaultBind,
		},
		Artifacts: Artifacts{
			Catalog:         defaultCatalogSource,
			Similarity:      defaultSimilaritySource,
			CacheDir:        defaultCacheDir(),
			DownloadTimeout: defaultDownloadTimeout,
		},
		OMDb: OMDb{
			BaseURL:                defaultOMDbBaseURL,
			TimeoutSeconds:         defaultOMDbTimeoutSeconds,
			BreakerFailures:        defaultBreakerFailures,
			BreakerCooldownSeconds: defaultBreakerCooldownSeconds,
			PosterPlaceholder:      defaultPosterPlaceholder,
			PosterError:            defaultPosterError,
			PlotMaxLength:          defaultPlotMaxLength,
		},
		Recommend: Recommend{
			DefaultK: defaultK,
			MaxK:     defaultMaxK,
		},
		Enrich: Enrich{
			Concurrency: defaultEnrichConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
