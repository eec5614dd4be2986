package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

// Store is the in-memory entry set backed by a file on disk.
type Store struct {
	mu      sync.Mutex
	path    string
	backend backend
	lock    *flock.Flock
	logger  *slog.Logger
	entries map[string]records.TimeEntry
	dirty   bool
	closed  bool
	now     func() time.Time
}

// Option customizes Open.
type Option func(*Store)

// WithLogger sets the logger used for load warnings and saves.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "store")
	}
}

// LockPath returns the lock file guarding the store at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Open locks and loads the store at path. A corrupt file is renamed with a
// .corrupt suffix and the store starts empty.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	s := &Store{
		path:   path,
		logger: logging.NewComponentLogger(nil, "store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s.lock = flock.New(LockPath(path))
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, LockPath(path))
	}

	if err := s.load(context.Background()); err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	b, err := openBackend(s.path)
	if err == nil {
		var entries map[string]records.TimeEntry
		entries, err = b.Load(ctx)
		if err == nil {
			s.backend = b
			s.entries = entries
			s.logger.Info("store loaded",
				logging.String("path", s.path),
				logging.String("backend", b.Kind()),
				logging.Int("entries", len(entries)),
			)
			return nil
		}
		_ = b.Close()
	}
	if !errors.Is(err, ErrCorrupt) {
		return err
	}

	quarantine := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().UTC().Format("20060102T150405Z"))
	if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
		return fmt.Errorf("move corrupt store aside: %w (load error: %v)", renameErr, err)
	}
	logging.WarnWithContext(s.logger, "store file unreadable; starting with an empty store", "store_corrupt",
		logging.Error(err),
		logging.String("path", s.path),
		logging.String("moved_to", quarantine),
		logging.String(logging.FieldErrorHint, "inspect the moved file if the entries matter"),
		logging.String(logging.FieldImpact, "all times are treated as new on this run"),
	)

	b, err = openBackend(s.path)
	if err != nil {
		return err
	}
	entries, err := b.Load(ctx)
	if err != nil {
		_ = b.Close()
		return err
	}
	s.backend = b
	s.entries = entries
	s.dirty = true
	return nil
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Kind reports the backend in use.
func (s *Store) Kind() string { return s.backend.Kind() }

// Merge inserts every entry of current whose URL is not yet stored, with
// status new. Existing entries are never modified. It returns how many
// entries were inserted.
func (s *Store) Merge(current map[string]records.TimeEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for url, entry := range current {
		if entry.URL == "" {
			entry.URL = url
		}
		if _, exists := s.entries[entry.URL]; exists {
			continue
		}
		entry.Status = records.StatusNew
		if err := entry.Validate(); err != nil {
			s.logger.Warn("skipping invalid entry", logging.Error(err))
			continue
		}
		s.entries[entry.URL] = entry
		added++
	}
	if added > 0 {
		s.dirty = true
	}
	return added
}

// Get returns the entry stored under url.
func (s *Store) Get(url string) (records.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[url]
	return entry, ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a snapshot of every entry sorted by URL.
func (s *Store) Entries() []records.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Count returns how many entries carry status.
func (s *Store) Count(status records.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entry := range s.entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Counts returns the number of entries per status. Every status is present.
func (s *Store) Counts() map[records.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[records.Status]int, len(records.Statuses()))
	for _, status := range records.Statuses() {
		counts[status] = 0
	}
	for _, entry := range s.entries {
		counts[entry.Status]++
	}
	return counts
}

// SetStatus moves the entry at url to status.
func (s *Store) SetStatus(url string, status records.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[url]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, url)
	}
	if !entry.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, entry.Status, status, url)
	}
	s.entries[url] = entry.WithStatus(status)
	s.dirty = true
	return nil
}

// Dirty reports whether there are unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Save overwrites the store file with every entry.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.closed {
		return ErrClosed
	}
	entries := s.sortedLocked()
	if err := s.backend.Save(context.Background(), entries); err != nil {
		return err
	}
	s.dirty = false
	s.logger.Debug("store saved",
		logging.String("path", s.path),
		logging.Int("entries", len(entries)),
	)
	return nil
}

// Close saves pending changes, closes the backend and releases the lock.
// Calling Close more than once is safe.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	var errs []error
	if s.dirty {
		if err := s.saveLocked(); err != nil {
			errs = append(errs, fmt.Errorf("flush store: %w", err))
		}
	}
	if err := s.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close backend: %w", err))
	}
	if err := s.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release store lock: %w", err))
	}
	s.closed = true
	return errors.Join(errs...)
}

func (s *Store) sortedLocked() []records.TimeEntry {
	out := make([]records.TimeEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}
