package records

import (
	"fmt"
	"strings"
)

// Status tracks download progress for one entry.
type Status string

const (
	StatusNew        Status = "new"
	StatusDownloaded Status = "downloaded"
	StatusBadLink    Status = "bad_link"
	StatusBadVideo   Status = "bad_video"
)

var allStatuses = []Status{StatusNew, StatusDownloaded, StatusBadLink, StatusBadVideo}

// Statuses lists every status in display order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts text into a Status. The legacy NEW_URL spelling is
// accepted for new.
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if normalized == "new_url" {
		return StatusNew, nil
	}
	for _, s := range allStatuses {
		if normalized == string(s) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", value)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, candidate := range allStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Failed reports whether s is one of the bad outcomes.
func (s Status) Failed() bool {
	return s == StatusBadLink || s == StatusBadVideo
}

// CanTransition reports whether the download state machine allows moving from
// s to next. Downloaded is final and nothing moves back to new.
func (s Status) CanTransition(next Status) bool {
	if !next.Valid() || next == StatusNew {
		return false
	}
	switch s {
	case StatusNew, StatusBadLink, StatusBadVideo:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
