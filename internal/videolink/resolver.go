package videolink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/WodahsReklaw/TruthSaver/internal/fetch"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

var (
	// ErrUnsupportedHost is returned for videos hosted where they cannot be fetched.
	ErrUnsupportedHost = errors.New("unsupported video host")
	// ErrManualDownload is returned for direct download links that need a person.
	ErrManualDownload = errors.New("manual download required")
	// ErrNoVideoFound is returned when the page has no recognizable video link.
	ErrNoVideoFound = errors.New("no video link found")
)

// LinkError is a classified resolution failure for one entry.
type LinkError struct {
	Entry records.TimeEntry
	Link  string
	Kind  error
}

func (e *LinkError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnsupportedHost):
		return fmt.Sprintf("cannot download %s: twitch video %s", e.Entry.Label(), e.Link)
	case errors.Is(e.Kind, ErrManualDownload):
		return fmt.Sprintf("manually download %s at %s", e.Entry.Label(), e.Link)
	case e.Link != "":
		return fmt.Sprintf("%s: %v (%s)", e.Entry.Label(), e.Kind, e.Link)
	default:
		return fmt.Sprintf("expected video link for %s: %v", e.Entry.Label(), e.Kind)
	}
}

func (e *LinkError) Unwrap() error { return e.Kind }

// Is lets every LinkError match services.ErrBadLink.
func (e *LinkError) Is(target error) bool { return target == services.ErrBadLink }

const (
	textYouTube      = "YouTube"
	textTwitch       = "Twitch"
	textDownload     = "Download video"
	youTubeHostMatch = "youtu"
)

// Resolver finds video links on detail pages.
type Resolver struct {
	getter fetch.Getter
	logger *slog.Logger
}

// New constructs a Resolver reading pages through getter.
func New(getter fetch.Getter, logger *slog.Logger) *Resolver {
	return &Resolver{
		getter: getter,
		logger: logging.NewComponentLogger(logger, "videolink"),
	}
}

// Resolve fetches entry's detail page and returns its video link. Transport
// failures are returned as-is after the getter's retries.
func (r *Resolver) Resolve(ctx context.Context, entry records.TimeEntry) (string, error) {
	page, err := r.getter.Get(ctx, entry.URL)
	if err != nil {
		return "", err
	}
	link, err := FindLink(entry, page)
	if err != nil {
		return "", err
	}
	logging.WithContext(ctx, r.logger).Debug("video link resolved",
		logging.String(logging.FieldEntryURL, entry.URL),
		logging.String("link", link),
	)
	return link, nil
}

// FindLink applies the link rules to an already fetched detail page.
func FindLink(entry records.TimeEntry, page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse detail page for %s: %w", entry.URL, err)
	}

	var (
		link    string
		outcome error
		decided bool
	)
	doc.Find("p a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		href = strings.TrimSpace(href)
		text := anchor.Text()
		switch {
		case strings.Contains(text, textYouTube):
			link = href
		case strings.Contains(text, textDownload) && strings.Contains(href, youTubeHostMatch):
			link = href
		case strings.Contains(text, textTwitch):
			outcome = &LinkError{Entry: entry, Link: href, Kind: ErrUnsupportedHost}
		case strings.Contains(text, textDownload):
			outcome = &LinkError{Entry: entry, Link: href, Kind: ErrManualDownload}
		default:
			return true
		}
		decided = true
		return false
	})
	if !decided {
		return "", &LinkError{Entry: entry, Kind: ErrNoVideoFound}
	}
	if outcome != nil {
		return "", outcome
	}
	return link, nil
}
