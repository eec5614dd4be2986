package testsupport

import (
	"testing"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/store"
)

// MustOpenStore opens the store configured in cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg.Paths.StorePath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// Seed merges entries into s and then applies each entry's status.
func Seed(t testing.TB, s *store.Store, entries ...records.TimeEntry) {
	t.Helper()

	current := make(map[string]records.TimeEntry, len(entries))
	for _, entry := range entries {
		current[entry.URL] = entry
	}
	s.Merge(current)
	for _, entry := range entries {
		if entry.Status == records.StatusNew || entry.Status == "" {
			continue
		}
		if err := s.SetStatus(entry.URL, entry.Status); err != nil {
			t.Fatalf("seed status for %s: %v", entry.URL, err)
		}
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save seeded store: %v", err)
	}
}

// Entry builds a regular-mode time for stage with sensible defaults.
func Entry(url, player, stage string, mode records.Mode, seconds int, status records.Status) records.TimeEntry {
	return records.TimeEntry{
		URL:    url,
		TimeID: 1,
		Player: player,
		Mode:   mode,
		Stage:  stage,
		Time:   seconds,
		Status: status,
	}
}
