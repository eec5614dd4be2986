package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

var (
	// ErrVideoUnavailable covers removed, private and missing videos.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrAgeRestricted covers videos behind an age or sign-in gate.
	ErrAgeRestricted = errors.New("video is age restricted")
	// ErrNoRendition is returned when no downloadable video rendition exists.
	ErrNoRendition = errors.New("no downloadable rendition")
	// ErrExtraction covers other failures to extract the video.
	ErrExtraction = errors.New("video extraction failed")
	// ErrToolMissing is returned when the yt-dlp binary cannot be run.
	ErrToolMissing = errors.New("yt-dlp binary not available")
)

var (
	unavailableMarkers = []string{
		"video unavailable",
		"private video",
		"this video is private",
		"has been removed",
		"is not available",
		"no longer available",
		"account associated with this video has been terminated",
		"does not exist",
		"http error 404",
		"http error 410",
	}
	ageMarkers = []string{
		"sign in to confirm your age",
		"age-restricted",
		"age restricted",
		"inappropriate for some users",
	}
	noRenditionMarkers = []string{
		"requested format is not available",
		"no video formats found",
	}
	localIOMarkers = []string{
		"no space left on device",
		"permission denied",
		"read-only file system",
		"unable to open for writing",
		"unable to write",
		"disk quota exceeded",
	}
	transientMarkers = []string{
		"unable to download webpage",
		"unable to download video data",
		"connection reset",
		"connection refused",
		"timed out",
		"temporary failure in name resolution",
		"name or service not known",
		"network is unreachable",
		"http error 429",
		"http error 500",
		"http error 502",
		"http error 503",
		"http error 504",
		"incomplete read",
	}
)

// classify converts a failed yt-dlp invocation into a tagged error.
func classify(ctx context.Context, operation string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "ytdlp", operation, "yt-dlp timed out", ctxErr)
		}
		return ctxErr
	}
	if isNotFound(err) {
		return services.Wrap(services.ErrExternalTool, "ytdlp", operation, "", fmt.Errorf("%w: %w", ErrToolMissing, err))
	}

	text := err.Error()
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		text = cmdErr.Stderr
	}
	msg := strings.ToLower(text)
	switch {
	case containsAny(msg, localIOMarkers):
		return services.Wrap(services.ErrLocalIO, "ytdlp", operation, "", err)
	case containsAny(msg, ageMarkers):
		return services.Wrap(services.ErrBadVideo, "ytdlp", operation, "", fmt.Errorf("%w: %w", ErrAgeRestricted, err))
	case containsAny(msg, noRenditionMarkers):
		return services.Wrap(services.ErrBadVideo, "ytdlp", operation, "", fmt.Errorf("%w: %w", ErrNoRendition, err))
	case containsAny(msg, unavailableMarkers):
		return services.Wrap(services.ErrBadVideo, "ytdlp", operation, "", fmt.Errorf("%w: %w", ErrVideoUnavailable, err))
	case containsAny(msg, transientMarkers):
		return services.Wrap(services.ErrTransient, "ytdlp", operation, "", err)
	default:
		return services.Wrap(services.ErrBadVideo, "ytdlp", operation, "", fmt.Errorf("%w: %w", ErrExtraction, err))
	}
}

// IsBadVideo reports whether err means the video itself cannot be retrieved,
// as opposed to a local or temporary problem.
func IsBadVideo(err error) bool {
	return errors.Is(err, services.ErrBadVideo)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, services.ErrTransient)
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
