package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reelmatch/internal/api"
	"reelmatch/internal/artifact"
	"reelmatch/internal/config"
	"reelmatch/internal/enrich"
	"reelmatch/internal/logging"
	"reelmatch/internal/recommend"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, flagValue(c.logLevelFlag), flagValue(c.logFormatFlag))
	})
	return c.logger, c.loggerErr
}

// session is everything a query command needs once artifacts are loaded.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	set    *artifact.Set
	svc    *api.Service
}

type sessionOptions struct {
	refresh  bool
	metadata bool
}

// openSession loads artifacts and wires the recommender, plus the enricher
// when metadata is requested. Missing or corrupt artifacts are fatal.
func (c *commandContext) openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	set, err := artifact.Load(ctx, cfg, logger, artifact.LoadOptions{Refresh: opts.refresh})
	if err != nil {
		return nil, err
	}
	rec, err := recommend.New(set.Catalog, set.Matrix)
	if err != nil {
		return nil, err
	}

	var fetcher api.MetadataFetcher
	if opts.metadata {
		enricher, err := enrich.NewFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		fetcher = enricher
	}

	limits := api.Limits{DefaultK: cfg.Recommend.DefaultK, MaxK: cfg.Recommend.MaxK}
	return &session{
		cfg:    cfg,
		logger: logger,
		set:    set,
		svc:    api.NewService(rec, fetcher, limits, logger),
	}, nil
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
