package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TRUTHSAVER_STORE", "")
	t.Setenv("TRUTHSAVER_VIDEO_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "truthsaver", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStore := filepath.Join(tempHome, ".local", "share", "truthsaver", "times.json")
	if cfg.Paths.StorePath != wantStore {
		t.Fatalf("unexpected store path: got %q want %q", cfg.Paths.StorePath, wantStore)
	}
	if cfg.Paths.VideoDir != filepath.Join(tempHome, "truthsaver", "videos") {
		t.Fatalf("unexpected video dir: %q", cfg.Paths.VideoDir)
	}
	if cfg.Paths.NewDownloadsPath != "" {
		t.Fatalf("expected new downloads list disabled by default, got %q", cfg.Paths.NewDownloadsPath)
	}
	if cfg.Rankings.BaseURL != "https://rankings.the-elite.net" {
		t.Fatalf("unexpected base url %q", cfg.Rankings.BaseURL)
	}
	if cfg.Rankings.RetryAttempts != 5 {
		t.Fatalf("expected 5 retry attempts, got %d", cfg.Rankings.RetryAttempts)
	}
	if cfg.RetryBaseDelay() != 2*time.Second {
		t.Fatalf("unexpected retry base delay %s", cfg.RetryBaseDelay())
	}
	if cfg.Download.LowQuality || cfg.Download.TryAll {
		t.Fatal("expected low_quality and try_all off by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	videoDir := filepath.Join(tempHome, "env-videos")
	t.Setenv("TRUTHSAVER_VIDEO_DIR", videoDir)
	t.Setenv("TRUTHSAVER_STORE", "")

	configPath := filepath.Join(tempHome, "custom.toml")
	content := `
[paths]
store_path = "~/data/times.db"
new_downloads_path = "~/data/new.txt"

[rankings]
base_url = "http://localhost:8080/"
retry_attempts = 2

[download]
low_quality = true
checkpoint_every = 3

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to exist, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.StorePath != filepath.Join(tempHome, "data", "times.db") {
		t.Fatalf("unexpected store path %q", cfg.Paths.StorePath)
	}
	if cfg.Paths.VideoDir != videoDir {
		t.Fatalf("expected env video dir, got %q", cfg.Paths.VideoDir)
	}
	if cfg.Paths.NewDownloadsPath != filepath.Join(tempHome, "data", "new.txt") {
		t.Fatalf("unexpected new downloads path %q", cfg.Paths.NewDownloadsPath)
	}
	if cfg.Rankings.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Rankings.BaseURL)
	}
	if cfg.Rankings.RetryAttempts != 2 || !cfg.Download.LowQuality || cfg.Download.CheckpointEvery != 3 {
		t.Fatalf("file values not applied: %+v %+v", cfg.Rankings, cfg.Download)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging values lowercased, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateErrorsNameTheField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"base url", func(c *config.Config) { c.Rankings.BaseURL = "rankings" }, "rankings.base_url"},
		{"attempts", func(c *config.Config) { c.Rankings.RetryAttempts = 0 }, "rankings.retry_attempts"},
		{"checkpoint", func(c *config.Config) { c.Download.CheckpointEvery = -1 }, "download.checkpoint_every"},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "ntfy.sh/topic" }, "notifications.ntfy_topic"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"store", func(c *config.Config) { c.Paths.StorePath = "" }, "paths.store_path"},
		{"new downloads", func(c *config.Config) {
			c.Paths.StorePath = "/tmp/x.json"
			c.Paths.NewDownloadsPath = "/tmp/x.json"
		}, "paths.new_downloads_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected error to mention %q, got %v", tt.field, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRUTHSAVER_STORE", "")
	t.Setenv("TRUTHSAVER_VIDEO_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if decoded.Rankings.BaseURL != config.Default().Rankings.BaseURL {
		t.Fatalf("sample base url drifted from default: %q", decoded.Rankings.BaseURL)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorePath = filepath.Join(base, "state", "times.json")
	cfg.Paths.VideoDir = filepath.Join(base, "videos")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.NewDownloadsPath = filepath.Join(base, "lists", "new.txt")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"state", "videos", "logs", "lists"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory, err=%v", dir, err)
		}
	}
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	cfg := config.Default()
	cfg.Download.TryAll = true
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(data), "try_all = true") {
		t.Fatalf("expected try_all in encoded config:\n%s", data)
	}
}
