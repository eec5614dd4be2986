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
	c.normalizeRankings()
	c.normalizeDownload()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envStorePath); ok && strings.TrimSpace(value) != "" {
		c.Paths.StorePath = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv(envVideoDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.VideoDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StorePath) == "" {
		c.Paths.StorePath = defaultStorePath
	}
	if strings.TrimSpace(c.Paths.VideoDir) == "" {
		c.Paths.VideoDir = defaultVideoDir
	}

	var err error
	if c.Paths.StorePath, err = expandPath(strings.TrimSpace(c.Paths.StorePath)); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	if c.Paths.VideoDir, err = expandPath(strings.TrimSpace(c.Paths.VideoDir)); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.NewDownloadsPath, err = expandPath(strings.TrimSpace(c.Paths.NewDownloadsPath)); err != nil {
		return fmt.Errorf("paths.new_downloads_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRankings() {
	c.Rankings.BaseURL = strings.TrimRight(strings.TrimSpace(c.Rankings.BaseURL), "/")
	if c.Rankings.BaseURL == "" {
		c.Rankings.BaseURL = defaultRankingsBaseURL
	}
	c.Rankings.UserAgent = strings.TrimSpace(c.Rankings.UserAgent)
	if c.Rankings.UserAgent == "" {
		c.Rankings.UserAgent = defaultUserAgent
	}
	if c.Rankings.RequestTimeout == 0 {
		c.Rankings.RequestTimeout = defaultRequestTimeout
	}
	if c.Rankings.RetryAttempts == 0 {
		c.Rankings.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeDownload() {
	c.Download.YtdlpBinary = strings.TrimSpace(c.Download.YtdlpBinary)
	if c.Download.YtdlpBinary == "" {
		c.Download.YtdlpBinary = defaultYtdlpBinary
	}
	if c.Download.Timeout == 0 {
		c.Download.Timeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
