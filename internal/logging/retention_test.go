package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -40)

	write := func(name string, mtime time.Time) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}

	stale := write("truthsaver-20240101T000000Z.log", old)
	current := write("truthsaver-20240102T000000Z.log", old)
	fresh := write("truthsaver-20990101T000000Z.log", time.Now())
	other := write("notes.txt", old)

	removed := CleanupOldLogs(NewNop(), 30, dir, RunLogPattern, current)
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, err=%v", err)
	}
	for _, path := range []string{current, fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", filepath.Base(path), err)
		}
	}
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	if got := CleanupOldLogs(nil, 0, t.TempDir(), RunLogPattern); got != 0 {
		t.Fatalf("expected no pruning when retention is 0, got %d", got)
	}
}
