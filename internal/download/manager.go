package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/WodahsReklaw/TruthSaver/internal/fileutil"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

// Store is the persistence the state machine needs.
type Store interface {
	Entries() []records.TimeEntry
	SetStatus(url string, status records.Status) error
	Save() error
}

// LinkResolver finds the video link on an entry's detail page.
type LinkResolver interface {
	Resolve(ctx context.Context, entry records.TimeEntry) (string, error)
}

// VideoFetcher downloads link to dir/filename plus an extension and returns
// the written path.
type VideoFetcher interface {
	Fetch(ctx context.Context, link, dir, filename string) (string, error)
}

// Progress receives one Advance per processed entry.
type Progress interface {
	Start(total int)
	Advance(description string)
	Finish()
}

// Options configures a Manager.
type Options struct {
	VideoRoot        string
	TryAll           bool
	NewDownloadsPath string
	// CheckpointEvery saves the store after this many status updates. Zero
	// disables intermediate saves.
	CheckpointEvery int
	Progress        Progress
	Logger          *slog.Logger
}

// Summary counts the outcomes of one pass.
type Summary struct {
	Eligible   int
	Downloaded int
	BadLink    int
	BadVideo   int
	// Deferred entries failed for local or temporary reasons and keep their status.
	Deferred int
	// Skipped entries were not eligible this pass.
	Skipped int
}

// Processed returns how many eligible entries were handled before the pass ended.
func (s Summary) Processed() int {
	return s.Downloaded + s.BadLink + s.BadVideo + s.Deferred
}

// Manager runs the download state machine over a store.
type Manager struct {
	store    Store
	resolver LinkResolver
	fetcher  VideoFetcher
	opts     Options
	logger   *slog.Logger
	updates  int
}

// New constructs a Manager.
func New(store Store, resolver LinkResolver, fetcher VideoFetcher, opts Options) (*Manager, error) {
	if store == nil || resolver == nil || fetcher == nil {
		return nil, errors.New("download manager requires a store, resolver and fetcher")
	}
	if opts.VideoRoot == "" {
		return nil, errors.New("video root required")
	}
	if opts.Progress == nil {
		opts.Progress = noopProgress{}
	}
	return &Manager{
		store:    store,
		resolver: resolver,
		fetcher:  fetcher,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "download"),
	}, nil
}

// Eligible reports whether the pass should attempt entry.
func Eligible(entry records.TimeEntry, tryAll bool) bool {
	switch entry.Status {
	case records.StatusNew:
		return true
	case records.StatusBadLink, records.StatusBadVideo:
		return tryAll
	default:
		return false
	}
}

// Run processes every eligible entry in URL order. On cancellation it stops
// before the next entry and returns the summary so far with ctx's error.
func (m *Manager) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	var queue []records.TimeEntry
	for _, entry := range m.store.Entries() {
		if Eligible(entry, m.opts.TryAll) {
			queue = append(queue, entry)
			continue
		}
		summary.Skipped++
	}
	summary.Eligible = len(queue)

	m.logger.Info("download pass starting",
		logging.Int("eligible", summary.Eligible),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("try_all", m.opts.TryAll),
	)
	m.opts.Progress.Start(len(queue))
	defer m.opts.Progress.Finish()

	for _, entry := range queue {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		entryCtx := services.WithEntryURL(ctx, entry.URL)
		if err := m.process(entryCtx, entry, &summary); err != nil {
			return summary, err
		}
		m.opts.Progress.Advance(entry.Label())
	}

	m.logger.Info("download pass finished",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("bad_link", summary.BadLink),
		logging.Int("bad_video", summary.BadVideo),
		logging.Int("deferred", summary.Deferred),
	)
	return summary, nil
}

// process handles one entry. Only context cancellation is returned.
func (m *Manager) process(ctx context.Context, entry records.TimeEntry, summary *Summary) error {
	logger := logging.WithContext(ctx, m.logger)

	link, err := m.resolver.Resolve(ctx, entry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Error("video link unusable",
			logging.String(logging.FieldEventType, "bad_link"),
			logging.String("entry", entry.Label()),
			logging.Error(err),
		)
		m.record(logger, entry, records.StatusBadLink)
		summary.BadLink++
		return nil
	}

	rel, err := entry.StoragePath()
	if err != nil {
		logging.ErrorWithContext(logger, "cannot build storage path", "storage_path_failed",
			logging.String("entry", entry.Label()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "stage table is missing this stage"),
		)
		summary.Deferred++
		return nil
	}
	dir := filepath.Join(m.opts.VideoRoot, filepath.Dir(filepath.FromSlash(rel)))
	name := filepath.Base(filepath.FromSlash(rel))

	written, err := m.fetcher.Fetch(ctx, link, dir, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		status, ok := services.FailureStatus(err)
		if !ok {
			logging.WarnWithContext(logger, "download deferred", "download_deferred",
				logging.String("entry", entry.Label()),
				logging.String("link", link),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check disk space, permissions and network"),
				logging.String(logging.FieldImpact, "entry keeps its status and is retried next run"),
			)
			summary.Deferred++
			return nil
		}
		logger.Error("video could not be downloaded",
			logging.String(logging.FieldEventType, string(status)),
			logging.String("entry", entry.Label()),
			logging.String("link", link),
			logging.Error(err),
		)
		m.record(logger, entry, status)
		switch status {
		case records.StatusBadLink:
			summary.BadLink++
		default:
			summary.BadVideo++
		}
		return nil
	}

	logger.Info("video downloaded",
		logging.String("entry", entry.Label()),
		logging.String("path", written),
	)
	m.record(logger, entry, records.StatusDownloaded)
	summary.Downloaded++
	if m.opts.NewDownloadsPath != "" {
		if err := fileutil.AppendLines(m.opts.NewDownloadsPath, written); err != nil {
			logging.WarnWithContext(logger, "could not record new download", "new_downloads_write_failed",
				logging.String("path", m.opts.NewDownloadsPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "video is saved but missing from the new downloads list"),
			)
		}
	}
	return nil
}

func (m *Manager) record(logger *slog.Logger, entry records.TimeEntry, status records.Status) {
	if err := m.store.SetStatus(entry.URL, status); err != nil {
		logger.Error("status update rejected",
			logging.String(logging.FieldStatus, string(status)),
			logging.Error(err),
		)
		return
	}
	m.updates++
	if m.opts.CheckpointEvery > 0 && m.updates%m.opts.CheckpointEvery == 0 {
		if err := m.store.Save(); err != nil {
			logging.WarnWithContext(logger, "checkpoint save failed", "checkpoint_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, fmt.Sprintf("up to %d status updates unsaved until the next save", m.opts.CheckpointEvery)),
			)
			return
		}
		logger.Debug("checkpoint saved", logging.Int("updates", m.updates))
	}
}

type noopProgress struct{}

func (noopProgress) Start(int) {}

func (noopProgress) Advance(string) {}

func (noopProgress) Finish() {}
