package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRankings(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StorePath) == "" {
		return errors.New("paths.store_path must be set")
	}
	if strings.TrimSpace(c.Paths.VideoDir) == "" {
		return errors.New("paths.video_dir must be set")
	}
	if c.Paths.NewDownloadsPath != "" && c.Paths.NewDownloadsPath == c.Paths.StorePath {
		return errors.New("paths.new_downloads_path must differ from paths.store_path")
	}
	return nil
}

func (c *Config) validateRankings() error {
	parsed, err := url.Parse(c.Rankings.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("rankings.base_url must be an absolute http(s) URL, got %q", c.Rankings.BaseURL)
	}
	if c.Rankings.RequestTimeout < 0 {
		return errors.New("rankings.request_timeout must be positive")
	}
	if c.Rankings.RetryAttempts < 1 {
		return errors.New("rankings.retry_attempts must be at least 1")
	}
	if c.Rankings.RetryBaseDelayMS < 0 {
		return errors.New("rankings.retry_base_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Timeout < 0 {
		return errors.New("download.timeout must be positive")
	}
	if c.Download.CheckpointEvery < 0 {
		return errors.New("download.checkpoint_every must not be negative")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if topic := c.Notifications.NtfyTopic; topic != "" {
		parsed, err := url.Parse(topic)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("notifications.ntfy_topic must be an absolute http(s) URL, got %q", topic)
		}
	}
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}
