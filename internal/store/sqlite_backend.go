package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

type sqliteBackend struct {
	db   *sql.DB
	path string
}

func openSQLite(path string) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, classifySQLiteErr(path, fmt.Errorf("apply pragma %q: %w", pragma, execErr))
		}
	}
	return &sqliteBackend{db: db, path: path}, nil
}

func (b *sqliteBackend) Kind() string { return KindSQLite }

func (b *sqliteBackend) initSchema(ctx context.Context) error {
	var tableExists int
	err := b.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return classifySQLiteErr(b.path, fmt.Errorf("check schema_version table: %w", err))
	}
	if tableExists == 0 {
		return b.createSchema(ctx)
	}

	var version int
	if err := b.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return classifySQLiteErr(b.path, fmt.Errorf("read schema version: %w", err))
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (b *sqliteBackend) createSchema(ctx context.Context) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Load(ctx context.Context) (map[string]records.TimeEntry, error) {
	if err := b.initSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx,
		"SELECT url, time_id, player, mode, stage, time, status FROM time_entries")
	if err != nil {
		return nil, classifySQLiteErr(b.path, fmt.Errorf("query entries: %w", err))
	}
	defer rows.Close()

	entries := make(map[string]records.TimeEntry)
	for rows.Next() {
		var (
			entry  records.TimeEntry
			mode   string
			status string
		)
		if err := rows.Scan(&entry.URL, &entry.TimeID, &entry.Player, &mode, &entry.Stage, &entry.Time, &status); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Mode = records.Mode(mode)
		parsed, err := records.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %s: %v", ErrCorrupt, b.path, entry.URL, err)
		}
		entry.Status = parsed
		entries[entry.URL] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLiteErr(b.path, fmt.Errorf("iterate entries: %w", err))
	}
	return entries, nil
}

// Save replaces every row in one transaction.
func (b *sqliteBackend) Save(ctx context.Context, entries []records.TimeEntry) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM time_entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO time_entries (url, time_id, player, mode, stage, time, status, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.URL, entry.TimeID, entry.Player, string(entry.Mode),
			entry.Stage, entry.Time, string(entry.Status), timestamp,
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// classifySQLiteErr tags errors SQLite raises for files that are not
// databases or are damaged.
func classifySQLiteErr(path string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "file is not a database") || strings.Contains(msg, "malformed") {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	return err
}
