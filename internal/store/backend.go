package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

// backend reads and writes the full entry set.
type backend interface {
	Kind() string
	Load(ctx context.Context) (map[string]records.TimeEntry, error)
	Save(ctx context.Context, entries []records.TimeEntry) error
	Close() error
}

const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// KindForPath reports which backend a store path selects.
func KindForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindJSON
	}
}

func openBackend(path string) (backend, error) {
	if KindForPath(path) == KindSQLite {
		return openSQLite(path)
	}
	return &jsonBackend{path: path}, nil
}
