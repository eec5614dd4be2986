package records

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/WodahsReklaw/TruthSaver/internal/duration"
)

// TimeEntry is one ranked time that has a video. URL is the identity.
type TimeEntry struct {
	URL    string `json:"url"`
	TimeID int    `json:"time_id"`
	Player string `json:"player"`
	Mode   Mode   `json:"mode"`
	Stage  string `json:"stage"`
	Time   int    `json:"time"`
	Status Status `json:"status"`
}

// Validate checks the invariants every stored entry must satisfy.
func (e TimeEntry) Validate() error {
	if strings.TrimSpace(e.URL) == "" {
		return errors.New("time entry url is empty")
	}
	if e.Time < 0 {
		return fmt.Errorf("time entry %s has negative time %d", e.URL, e.Time)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("time entry %s has unknown status %q", e.URL, string(e.Status))
	}
	return nil
}

// WithStatus returns a copy of e carrying status.
func (e TimeEntry) WithStatus(status Status) TimeEntry {
	e.Status = status
	return e
}

// Game infers the entry's game from its stage.
func (e TimeEntry) Game() (Game, error) {
	return GameForStage(e.Stage)
}

// StoragePath returns the relative path (without extension) the entry's
// video is saved under: a per-player directory and a file name encoding game,
// stage, mode, time and player. It performs no I/O.
func (e TimeEntry) StoragePath() (string, error) {
	game, err := e.Game()
	if err != nil {
		return "", err
	}
	player := playerSlug(e.Player)
	name := fmt.Sprintf("%s.%s.%s.%04d.%s", game.Prefix(), e.Stage, e.Mode, e.Time, player)
	return path.Join(player, name), nil
}

// Label is a short description for logs and error messages.
func (e TimeEntry) Label() string {
	return fmt.Sprintf("%s %s %s by %s (%s)", e.Stage, e.Mode, duration.Format(e.Time), e.Player, e.URL)
}

func playerSlug(player string) string {
	name := norm.NFC.String(strings.TrimSpace(player))
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	// The slug is a directory name; it must never be empty, "." or ".."
	// and never hidden.
	if name == "" || strings.HasPrefix(name, ".") {
		name = "_" + name
	}
	return name
}
