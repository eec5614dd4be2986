// Package config loads, normalizes, and validates truthsaver configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the TRUTHSAVER_STORE and TRUTHSAVER_VIDEO_DIR
// environment fallbacks. Command-line flags are applied by the CLI on top of
// the loaded Config and re-validated there.
package config
