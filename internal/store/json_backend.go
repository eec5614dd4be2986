package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/WodahsReklaw/TruthSaver/internal/fileutil"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

const jsonFormatVersion = 1

type jsonDocument struct {
	Version int                 `json:"version"`
	Entries []records.TimeEntry `json:"entries"`
}

type jsonBackend struct {
	path string
}

func (b *jsonBackend) Kind() string { return KindJSON }

func (b *jsonBackend) Load(context.Context) (map[string]records.TimeEntry, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]records.TimeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]records.TimeEntry{}, nil
	}

	var doc jsonDocument
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, b.path, err)
	}
	if doc.Version != jsonFormatVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorrupt, b.path, doc.Version)
	}
	entries := make(map[string]records.TimeEntry, len(doc.Entries))
	for _, entry := range doc.Entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, b.path, err)
		}
		entries[entry.URL] = entry
	}
	return entries, nil
}

func (b *jsonBackend) Save(_ context.Context, entries []records.TimeEntry) error {
	doc := jsonDocument{Version: jsonFormatVersion, Entries: entries}
	if doc.Entries == nil {
		doc.Entries = []records.TimeEntry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write store %s: %w", b.path, err)
	}
	return nil
}

func (b *jsonBackend) Close() error { return nil }
