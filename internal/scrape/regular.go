package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

const (
	regularFieldCount = 6
	vidStatusVideo    = 2
)

// regular record field offsets within a six-field chunk
const (
	fieldPlayer = iota
	fieldFragment
	fieldPlayerID
	fieldTimeID
	fieldSeconds
	fieldVidStatus
)

// StageDataToTimes normalizes the regular-mode payload for stage into entries
// with a video. Modes are assigned by array position. Undecodable chunks and a
// trailing partial chunk are skipped and logged.
func StageDataToTimes(base string, stage records.Stage, payload []byte, logger *slog.Logger) (map[string]records.TimeEntry, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var modeArrays [][]any
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&modeArrays); err != nil {
		return nil, fmt.Errorf("decode stage %s payload: %w", stage.Slug, err)
	}

	modes := records.RegularModes(stage.Game)
	if len(modeArrays) > len(modes) {
		logger.Warn("stage payload has extra mode arrays; ignoring",
			logging.String(logging.FieldStage, stage.Slug),
			logging.Int("arrays", len(modeArrays)),
		)
		modeArrays = modeArrays[:len(modes)]
	}

	base = strings.TrimRight(base, "/")
	times := make(map[string]records.TimeEntry)
	for idx, flat := range modeArrays {
		mode := modes[idx]
		if rem := len(flat) % regularFieldCount; rem != 0 {
			logger.Warn("stage payload has trailing partial record; skipping it",
				logging.String(logging.FieldStage, stage.Slug),
				logging.String("mode", string(mode)),
				logging.Int("fields", rem),
			)
		}
		for start := 0; start+regularFieldCount <= len(flat); start += regularFieldCount {
			chunk := flat[start : start+regularFieldCount]
			entry, hasVideo, err := regularEntry(base, stage, mode, chunk)
			if err != nil {
				logger.Warn("skipping malformed regular record",
					logging.String(logging.FieldStage, stage.Slug),
					logging.String("mode", string(mode)),
					logging.Int("offset", start),
					logging.Error(err),
				)
				continue
			}
			if hasVideo {
				times[entry.URL] = entry
			}
		}
	}
	return times, nil
}

func regularEntry(base string, stage records.Stage, mode records.Mode, chunk []any) (records.TimeEntry, bool, error) {
	status, err := intField(chunk[fieldVidStatus])
	if err != nil {
		return records.TimeEntry{}, false, fmt.Errorf("vid_status: %w", err)
	}
	if status != vidStatusVideo {
		return records.TimeEntry{}, false, nil
	}
	player, err := stringField(chunk[fieldPlayer])
	if err != nil {
		return records.TimeEntry{}, false, fmt.Errorf("player: %w", err)
	}
	fragment, err := stringField(chunk[fieldFragment])
	if err != nil {
		return records.TimeEntry{}, false, fmt.Errorf("player fragment: %w", err)
	}
	timeID, err := intField(chunk[fieldTimeID])
	if err != nil {
		return records.TimeEntry{}, false, fmt.Errorf("time_id: %w", err)
	}
	seconds, err := intField(chunk[fieldSeconds])
	if err != nil {
		return records.TimeEntry{}, false, fmt.Errorf("time: %w", err)
	}
	if seconds < 0 {
		return records.TimeEntry{}, false, fmt.Errorf("time: negative value %d", seconds)
	}
	return records.TimeEntry{
		URL:    RegularTimeURL(base, fragment, timeID),
		TimeID: timeID,
		Player: player,
		Mode:   mode,
		Stage:  stage.Slug,
		Time:   seconds,
		Status: records.StatusNew,
	}, true, nil
}

// RegularTimeURL builds the detail URL for a regular-mode time.
func RegularTimeURL(base, fragment string, timeID int) string {
	return strings.TrimRight(base, "/") + "/~" + fragment + "/time/" + strconv.Itoa(timeID)
}

func stringField(value any) (string, error) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("empty value")
		}
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected %T", value)
	}
}

// intField accepts JSON numbers and numeric strings; the endpoint emits both.
func intField(value any) (int, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v.String())
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected %T", value)
	}
}
