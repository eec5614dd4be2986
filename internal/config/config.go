package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the store, the video root and log output.
type Paths struct {
	StorePath        string `toml:"store_path"`
	VideoDir         string `toml:"video_dir"`
	LogDir           string `toml:"log_dir"`
	NewDownloadsPath string `toml:"new_downloads_path"`
}

// Rankings configures access to the rankings site.
type Rankings struct {
	BaseURL          string `toml:"base_url"`
	UserAgent        string `toml:"user_agent"`
	RequestTimeout   int    `toml:"request_timeout"`
	RetryAttempts    int    `toml:"retry_attempts"`
	RetryBaseDelayMS int    `toml:"retry_base_delay_ms"`
}

// Download configures the video download pass.
type Download struct {
	YtdlpBinary     string `toml:"ytdlp_binary"`
	LowQuality      bool   `toml:"low_quality"`
	TryAll          bool   `toml:"try_all"`
	Timeout         int    `toml:"timeout"`
	CheckpointEvery int    `toml:"checkpoint_every"`
}

// Notifications configures optional ntfy pushes.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for truthsaver.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Rankings      Rankings      `toml:"rankings"`
	Download      Download      `toml:"download"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigRelativePath)
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfigName)
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

// EnsureDirectories creates the video root, log directory and the store's
// parent directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.VideoDir, c.Paths.LogDir, filepath.Dir(c.Paths.StorePath)}
	if c.Paths.NewDownloadsPath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.NewDownloadsPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Rankings.RequestTimeout) * time.Second
}

// RetryBaseDelay returns the initial backoff used for rankings requests.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Rankings.RetryBaseDelayMS) * time.Millisecond
}

// DownloadTimeout returns the time limit for a single video download.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Download.Timeout) * time.Second
}

// LogFilePath returns the per-run log file location, or "" when file logging is off.
func (c *Config) LogFilePath(runStarted time.Time) string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, fmt.Sprintf("truthsaver-%s.log", runStarted.UTC().Format("20060102T150405Z")))
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var sb strings.Builder
	encoder := toml.NewEncoder(&sb)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(sb.String()), nil
}
