package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogPattern matches the per-run log files written under log_dir.
const RunLogPattern = "truthsaver-*.log"

// CleanupOldLogs removes files in dir matching pattern whose modification time
// is older than retentionDays. keep lists paths that must survive (the current
// run's log). A retentionDays value of 0 disables pruning. It returns the
// number of files removed.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, dir, pattern string, keep ...string) int {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	exclusions := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			if abs, err := filepath.Abs(trimmed); err == nil {
				exclusions[abs] = struct{}{}
			}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if pattern != "" {
			matched, err := filepath.Match(pattern, name)
			if err != nil || !matched {
				continue
			}
		}
		fullPath := filepath.Join(dir, name)
		if absPath, err := filepath.Abs(fullPath); err == nil {
			fullPath = absPath
		}
		if _, skip := exclusions[fullPath]; skip {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(fullPath); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", fullPath),
				Error(err),
				String(FieldErrorHint, "check file permissions and log_dir ownership"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", fullPath), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
