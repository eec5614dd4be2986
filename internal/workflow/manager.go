package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WodahsReklaw/TruthSaver/internal/download"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/scrape"
	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

// Store is the persistence both phases share.
type Store interface {
	Merge(current map[string]records.TimeEntry) int
	Len() int
	Save() error
}

// Scraper collects the current times for a set of stages.
type Scraper interface {
	AllTimes(ctx context.Context, stages []records.Stage, onStage scrape.StageFunc) (scrape.Result, error)
}

// Downloader runs one download pass.
type Downloader interface {
	Run(ctx context.Context) (download.Summary, error)
}

// Options configures a Manager.
type Options struct {
	// Stages limits the update phase. Empty means every stage.
	Stages  []records.Stage
	OnStage scrape.StageFunc
	Logger  *slog.Logger
}

// RunOptions selects the phases of Run.
type RunOptions struct {
	UpdateOnly   bool
	DownloadOnly bool
}

// UpdateSummary describes one update phase.
type UpdateSummary struct {
	Observed     int
	Added        int
	Total        int
	FailedStages []string
}

// Report collects what a run did.
type Report struct {
	Update    *UpdateSummary
	Download  *download.Summary
	Started   time.Time
	Completed time.Time
}

// Manager coordinates the update and download phases.
type Manager struct {
	store      Store
	scraper    Scraper
	downloader Downloader
	stages     []records.Stage
	onStage    scrape.StageFunc
	logger     *slog.Logger
	now        func() time.Time
}

// New constructs a Manager. downloader may be nil when only updates run.
func New(store Store, scraper Scraper, downloader Downloader, opts Options) *Manager {
	stages := opts.Stages
	if len(stages) == 0 {
		stages = records.Stages()
	}
	return &Manager{
		store:      store,
		scraper:    scraper,
		downloader: downloader,
		stages:     stages,
		onStage:    opts.OnStage,
		logger:     logging.NewComponentLogger(opts.Logger, "workflow"),
		now:        time.Now,
	}
}

// Run executes the selected phases in order.
func (m *Manager) Run(ctx context.Context, opts RunOptions) (Report, error) {
	report := Report{Started: m.now()}
	if opts.UpdateOnly && opts.DownloadOnly {
		return report, errors.New("update-only and download-only are mutually exclusive")
	}

	if !opts.DownloadOnly {
		summary, err := m.Update(ctx)
		report.Update = &summary
		if err != nil {
			report.Completed = m.now()
			return report, err
		}
	}
	if !opts.UpdateOnly {
		summary, err := m.Download(ctx)
		report.Download = &summary
		if err != nil {
			report.Completed = m.now()
			return report, err
		}
	}
	report.Completed = m.now()
	m.logger.Info("run complete", logging.Duration("elapsed", report.Completed.Sub(report.Started)))
	return report, nil
}

// Update scrapes every configured stage, inserts unseen times as new and
// saves the store. Times from stages finished before a cancellation are still
// merged and saved.
func (m *Manager) Update(ctx context.Context) (UpdateSummary, error) {
	if m.scraper == nil {
		return UpdateSummary{}, errors.New("update requires a scraper")
	}
	ctx = services.WithPhase(ctx, "update")
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("update starting", logging.Int("stages", len(m.stages)))

	result, scrapeErr := m.scraper.AllTimes(ctx, m.stages, m.onStage)
	summary := UpdateSummary{
		Observed:     len(result.Entries),
		FailedStages: result.FailedStages,
	}
	summary.Added = m.store.Merge(result.Entries)
	summary.Total = m.store.Len()

	if err := m.store.Save(); err != nil {
		return summary, errors.Join(scrapeErr, fmt.Errorf("save store after update: %w", err))
	}
	if scrapeErr != nil {
		return summary, scrapeErr
	}

	attrs := []logging.Attr{
		logging.Int("observed", summary.Observed),
		logging.Int("added", summary.Added),
		logging.Int("total", summary.Total),
	}
	if len(summary.FailedStages) > 0 {
		logging.WarnWithContext(logger, "update finished with failed stages", "update_partial",
			append(attrs,
				logging.Any("failed_stages", summary.FailedStages),
				logging.String(logging.FieldErrorHint, "re-run update to pick up the skipped stages"),
				logging.String(logging.FieldImpact, "new times on the failed stages are not queued yet"),
			)...,
		)
		return summary, nil
	}
	logger.Info("update finished", logging.Args(attrs...)...)
	return summary, nil
}

// Download runs one pass of the state machine and saves the store, also
// when the pass was cancelled.
func (m *Manager) Download(ctx context.Context) (download.Summary, error) {
	if m.downloader == nil {
		return download.Summary{}, errors.New("download requires a downloader")
	}
	ctx = services.WithPhase(ctx, "download")
	summary, runErr := m.downloader.Run(ctx)
	if err := m.store.Save(); err != nil {
		return summary, errors.Join(runErr, fmt.Errorf("save store after download: %w", err))
	}
	return summary, runErr
}
