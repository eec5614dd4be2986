package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/WodahsReklaw/TruthSaver/internal/fetch"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

// Result is the union of every stage's entries plus the stages that could
// not be fetched or parsed.
type Result struct {
	Entries      map[string]records.TimeEntry
	FailedStages []string
}

// StageFunc is called after each stage finishes, successfully or not.
type StageFunc func(done, total int, stage records.Stage, err error)

// Scraper fetches both sources for each stage.
type Scraper struct {
	getter fetch.Getter
	base   string
	logger *slog.Logger
}

// New constructs a Scraper reading from the site at base.
func New(getter fetch.Getter, base string, logger *slog.Logger) *Scraper {
	return &Scraper{
		getter: getter,
		base:   strings.TrimRight(base, "/"),
		logger: logging.NewComponentLogger(logger, "scrape"),
	}
}

// RegularURL is the AJAX endpoint holding a stage's regular-mode times.
func (s *Scraper) RegularURL(stage records.Stage) string {
	return s.base + "/ajax/stage/" + strconv.Itoa(stage.Index)
}

// LTKURL is the page holding a stage's LTK and DLTK tables.
func (s *Scraper) LTKURL(stage records.Stage) string {
	return s.base + "/" + stage.Game.Slug() + "/ltk/stage/" + stage.Slug
}

// RegularTimes fetches and normalizes a stage's regular-mode times.
func (s *Scraper) RegularTimes(ctx context.Context, stage records.Stage) (map[string]records.TimeEntry, error) {
	payload, err := s.getter.Get(ctx, s.RegularURL(stage))
	if err != nil {
		return nil, err
	}
	return StageDataToTimes(s.base, stage, payload, logging.WithContext(ctx, s.logger))
}

// LTKTimes fetches and normalizes a stage's secondary-mode times.
func (s *Scraper) LTKTimes(ctx context.Context, stage records.Stage) (map[string]records.TimeEntry, error) {
	page, err := s.getter.Get(ctx, s.LTKURL(stage))
	if err != nil {
		return nil, err
	}
	return ParseLTKPage(s.base, stage, page, logging.WithContext(ctx, s.logger))
}

// AllTimes unions regular then LTK times for every stage in order; later
// results overwrite earlier ones on URL collision. A failed stage is logged
// and recorded in Result.FailedStages. Only context cancellation aborts.
func (s *Scraper) AllTimes(ctx context.Context, stages []records.Stage, onStage StageFunc) (Result, error) {
	result := Result{Entries: make(map[string]records.TimeEntry)}
	for idx, stage := range stages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		stageCtx := services.WithStage(ctx, stage.Slug)
		err := s.stageTimes(stageCtx, stage, result.Entries)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.FailedStages = append(result.FailedStages, stage.Slug)
			logging.WarnWithContext(logging.WithContext(stageCtx, s.logger), "stage fetch failed; skipping", "stage_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "re-run update later; the rankings site may be down"),
				logging.String(logging.FieldImpact, "new times for this stage are not recorded this run"),
			)
		}
		if onStage != nil {
			onStage(idx+1, len(stages), stage, err)
		}
	}
	return result, nil
}

func (s *Scraper) stageTimes(ctx context.Context, stage records.Stage, into map[string]records.TimeEntry) error {
	regular, err := s.RegularTimes(ctx, stage)
	if err != nil {
		return fmt.Errorf("regular times: %w", err)
	}
	ltk, err := s.LTKTimes(ctx, stage)
	if err != nil {
		return fmt.Errorf("ltk times: %w", err)
	}
	for url, entry := range regular {
		into[url] = entry
	}
	for url, entry := range ltk {
		into[url] = entry
	}
	s.logger.Debug("stage scraped",
		logging.String(logging.FieldStage, stage.Slug),
		logging.Int("regular", len(regular)),
		logging.Int("ltk", len(ltk)),
	)
	return nil
}
