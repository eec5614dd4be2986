package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/fetch"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/store"
)

type globalFlags struct {
	config   string
	store    string
	videoDir string
	logLevel string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
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

// applyOverrides layers command-line flags over the loaded file and
// environment, then revalidates.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if value := strings.TrimSpace(c.flags.store); value != "" {
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return fmt.Errorf("--store: %w", err)
		}
		cfg.Paths.StorePath = expanded
	}
	if value := strings.TrimSpace(c.flags.videoDir); value != "" {
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return fmt.Errorf("--video-dir: %w", err)
		}
		cfg.Paths.VideoDir = expanded
	}
	if value := strings.TrimSpace(c.flags.logLevel); value != "" {
		cfg.Logging.Level = strings.ToLower(value)
	}
	return cfg.Validate()
}

// ensureLogger builds the per-run logger and prunes old run logs.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, runID, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		removed := logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, logging.RunLogPattern)
		logger.Debug("logger ready",
			logging.String("run_id", runID),
			logging.Int("pruned_logs", removed),
		)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openStore takes the store lock. Callers must Close the store.
func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.Paths.StorePath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Paths.StorePath, err)
	}
	return s, nil
}

func (c *commandContext) fetchClient() (*fetch.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	policy := fetch.DefaultPolicy()
	policy.Attempts = cfg.Rankings.RetryAttempts
	policy.BaseDelay = cfg.RetryBaseDelay()
	return fetch.New(fetch.Options{
		UserAgent: cfg.Rankings.UserAgent,
		Timeout:   cfg.RequestTimeout(),
		Policy:    policy,
		Logger:    logger,
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
