package main

import (
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireFile(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	// The sample must load as-is.
	t.Setenv("HOME", t.TempDir())
	if _, _, err := runCLI(t, []string{"config", "validate", "--store", filepath.Join(env.baseDir, "s.json"), "--video-dir", env.cfg.Paths.VideoDir}, target); err != nil {
		t.Fatalf("validate sample config: %v", err)
	}
}

func TestConfigShowAppliesFlagOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	storePath := filepath.Join(env.baseDir, "other", "times.db")

	out, _, err := runCLI(t, []string{"--store", storePath, "--log-level", "DEBUG", "config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path: "+env.configPath)
	requireContains(t, out, storePath)
	requireContains(t, out, "debug")
	requireFile(t, filepath.Dir(storePath))
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Logging.Level = "loud"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	requireContains(t, err.Error(), "logging.level")
}

func TestInvalidLogLevelFlagFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--log-level", "loud", "list"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid --log-level to fail")
	}
	requireContains(t, err.Error(), "logging.level")
}
