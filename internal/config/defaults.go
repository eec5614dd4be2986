package config

const (
	defaultStorePath          = "~/.local/share/truthsaver/times.json"
	defaultVideoDir           = "~/truthsaver/videos"
	defaultLogDir             = "~/.local/share/truthsaver/logs"
	defaultLogRetentionDays   = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultRankingsBaseURL    = "https://rankings.the-elite.net"
	defaultUserAgent          = "truthsaver/dev"
	defaultRequestTimeout     = 30
	defaultRetryAttempts      = 5
	defaultRetryBaseDelayMS   = 2000
	defaultYtdlpBinary        = "yt-dlp"
	defaultDownloadTimeout    = 1800
	defaultCheckpointEvery    = 10
	defaultNtfyTimeout        = 10
	defaultConfigRelativePath = "~/.config/truthsaver/config.toml"
	defaultProjectConfigName  = "truthsaver.toml"
	envStorePath              = "TRUTHSAVER_STORE"
	envVideoDir               = "TRUTHSAVER_VIDEO_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorePath: defaultStorePath,
			VideoDir:  defaultVideoDir,
			LogDir:    defaultLogDir,
		},
		Rankings: Rankings{
			BaseURL:          defaultRankingsBaseURL,
			UserAgent:        defaultUserAgent,
			RequestTimeout:   defaultRequestTimeout,
			RetryAttempts:    defaultRetryAttempts,
			RetryBaseDelayMS: defaultRetryBaseDelayMS,
		},
		Download: Download{
			YtdlpBinary:     defaultYtdlpBinary,
			Timeout:         defaultDownloadTimeout,
			CheckpointEvery: defaultCheckpointEvery,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
