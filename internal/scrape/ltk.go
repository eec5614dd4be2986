package scrape

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/WodahsReklaw/TruthSaver/internal/duration"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

const (
	selectorVideoLink = ".video-link"
	selectorPlayer    = ".user"
	selectorTime      = ".time"
)

// ParseLTKPage normalizes a stage's secondary-mode page. Tables map to
// records.SecondaryModes in document order; only rows with a video indicator
// are kept. Malformed rows are skipped and logged.
func ParseLTKPage(base string, stage records.Stage, html []byte, logger *slog.Logger) (map[string]records.TimeEntry, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", base, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse ltk page for %s: %w", stage.Slug, err)
	}

	modes := records.SecondaryModes()
	times := make(map[string]records.TimeEntry)
	tables := doc.Find("table")
	if tables.Length() > len(modes) {
		logger.Debug("ltk page has extra tables; ignoring",
			logging.String(logging.FieldStage, stage.Slug),
			logging.Int("tables", tables.Length()),
		)
	}
	tables.EachWithBreak(func(idx int, table *goquery.Selection) bool {
		if idx >= len(modes) {
			return false
		}
		mode := modes[idx]
		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if row.Find(selectorVideoLink).Length() == 0 {
				return
			}
			entry, err := ltkEntry(baseURL, stage, mode, row)
			if err != nil {
				logger.Warn("skipping malformed ltk row",
					logging.String(logging.FieldStage, stage.Slug),
					logging.String("mode", string(mode)),
					logging.Int("row", rowIdx),
					logging.Error(err),
				)
				return
			}
			times[entry.URL] = entry
		})
		return true
	})
	return times, nil
}

func ltkEntry(base *url.URL, stage records.Stage, mode records.Mode, row *goquery.Selection) (records.TimeEntry, error) {
	player := strings.TrimSpace(row.Find(selectorPlayer).First().Text())
	if player == "" {
		return records.TimeEntry{}, errors.New("missing player")
	}
	timeTag := row.Find(selectorTime).First()
	href, ok := timeTag.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return records.TimeEntry{}, errors.New("missing time link")
	}
	detail, err := resolveAgainst(base, href)
	if err != nil {
		return records.TimeEntry{}, fmt.Errorf("time link %q: %w", href, err)
	}
	timeID, err := strconv.Atoi(path.Base(strings.TrimRight(detail.Path, "/")))
	if err != nil {
		return records.TimeEntry{}, fmt.Errorf("time id from %q: %w", href, err)
	}
	seconds, err := duration.Parse(timeTag.Text())
	if err != nil {
		return records.TimeEntry{}, err
	}
	return records.TimeEntry{
		URL:    detail.String(),
		TimeID: timeID,
		Player: player,
		Mode:   mode,
		Stage:  stage.Slug,
		Time:   seconds,
		Status: records.StatusNew,
	}, nil
}

func resolveAgainst(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved, nil
}
