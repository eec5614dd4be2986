package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat marks duration text that is neither M:SS nor H:MM:SS.
var ErrFormat = errors.New("invalid duration format")

// FormatError reports the offending duration text.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("duration %q is not in M:SS or H:MM:SS format", e.Text)
}

// Is lets errors.Is match ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Parse converts M:SS or H:MM:SS into seconds.
func Parse(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &FormatError{Text: text}
	}

	total := 0
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !allDigits(part) {
			return 0, &FormatError{Text: text}
		}
		value, err := strconv.Atoi(part)
		if err != nil || (i > 0 && value >= 60) {
			return 0, &FormatError{Text: text}
		}
		total = total*60 + value
	}
	return total, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders seconds as M:SS below one hour and H:MM:SS otherwise.
// Negative input is clamped to zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours == 0 {
		return fmt.Sprintf("%d:%02d", minutes, secs)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}
