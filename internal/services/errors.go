package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

var (
	ErrExternalTool = errors.New("external tool error")
	ErrTimeout      = errors.New("timeout")
	ErrTransient    = errors.New("transient failure")
	// ErrBadLink marks failures to obtain a usable video link for an entry.
	ErrBadLink = errors.New("bad video link")
	// ErrBadVideo marks videos that exist but cannot be retrieved (removed,
	// private, gated or without a downloadable rendition).
	ErrBadVideo = errors.New("bad video")
	// ErrLocalIO marks local filesystem failures that say nothing about the video.
	ErrLocalIO = errors.New("local i/o failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a download failure to the status the state machine should
// persist. ok is false when the entry must be left unchanged so a later run
// retries it.
func FailureStatus(err error) (status records.Status, ok bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, ErrLocalIO), errors.Is(err, ErrTransient), errors.Is(err, ErrTimeout):
		return "", false
	case errors.Is(err, ErrBadLink):
		return records.StatusBadLink, true
	case errors.Is(err, ErrBadVideo):
		return records.StatusBadVideo, true
	default:
		return "", false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
