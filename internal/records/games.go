package records

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStage is returned when a stage slug is not in the stage table.
var ErrUnknownStage = errors.New("unknown stage")

// Game identifies one of the two ranked games.
type Game int

const (
	GoldenEye Game = iota + 1
	PerfectDark
)

// Slug returns the path segment the rankings site uses for the game.
func (g Game) Slug() string {
	switch g {
	case GoldenEye:
		return "goldeneye"
	case PerfectDark:
		return "perfect-dark"
	default:
		return ""
	}
}

// Prefix returns the short game tag used in video file names.
func (g Game) Prefix() string {
	switch g {
	case GoldenEye:
		return "ge"
	case PerfectDark:
		return "pd"
	default:
		return ""
	}
}

func (g Game) String() string {
	switch g {
	case GoldenEye:
		return "GoldenEye"
	case PerfectDark:
		return "Perfect Dark"
	default:
		return fmt.Sprintf("Game(%d)", int(g))
	}
}

// Games lists the supported games in site order.
func Games() []Game {
	return []Game{GoldenEye, PerfectDark}
}

// ParseGame accepts a slug, prefix, or display name.
func ParseGame(value string) (Game, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, g := range Games() {
		if normalized == g.Slug() || normalized == g.Prefix() || normalized == strings.ToLower(g.String()) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown game %q", value)
}

// Mode is a ranking category.
type Mode string

const (
	ModeAgent Mode = "Agent"
	ModeSA    Mode = "SA"
	Mode00A   Mode = "00A"
	ModePA    Mode = "PA"
	ModeLTK   Mode = "LTK"
	ModeDLTK  Mode = "DLTK"
)

// RegularModes returns the modes of the structured ranking payload, in
// payload order.
func RegularModes(g Game) []Mode {
	if g == PerfectDark {
		return []Mode{ModeAgent, ModeSA, ModePA}
	}
	return []Mode{ModeAgent, ModeSA, Mode00A}
}

// SecondaryModes returns the modes scraped from the LTK pages, in table order.
func SecondaryModes() []Mode {
	return []Mode{ModeLTK, ModeDLTK}
}

// Stage is a level within one game. Slugs are unique across both games.
type Stage struct {
	Index int
	Slug  string
	Game  Game
}

func (s Stage) String() string {
	return fmt.Sprintf("%02d %s", s.Index, s.Slug)
}

var stageTable = []Stage{
	{1, "dam", GoldenEye},
	{2, "facility", GoldenEye},
	{3, "runway", GoldenEye},
	{4, "surface1", GoldenEye},
	{5, "bunker1", GoldenEye},
	{6, "silo", GoldenEye},
	{7, "frigate", GoldenEye},
	{8, "surface2", GoldenEye},
	{9, "bunker2", GoldenEye},
	{10, "statue", GoldenEye},
	{11, "archives", GoldenEye},
	{12, "streets", GoldenEye},
	{13, "depot", GoldenEye},
	{14, "train", GoldenEye},
	{15, "jungle", GoldenEye},
	{16, "control", GoldenEye},
	{17, "caverns", GoldenEye},
	{18, "cradle", GoldenEye},
	{19, "aztec", GoldenEye},
	{20, "egypt", GoldenEye},
	{21, "defection", PerfectDark},
	{22, "investigation", PerfectDark},
	{23, "extraction", PerfectDark},
	{24, "villa", PerfectDark},
	{25, "chicago", PerfectDark},
	{26, "g5", PerfectDark},
	{27, "infiltration", PerfectDark},
	{28, "rescue", PerfectDark},
	{29, "escape", PerfectDark},
	{30, "air-base", PerfectDark},
	{31, "af1", PerfectDark},
	{32, "crash-site", PerfectDark},
	{33, "pelagic", PerfectDark},
	{34, "deep-sea", PerfectDark},
	{35, "ci", PerfectDark},
	{36, "attack-ship", PerfectDark},
	{37, "skedar-ruins", PerfectDark},
	{38, "mbr", PerfectDark},
	{39, "maian-sos", PerfectDark},
	{40, "war", PerfectDark},
}

var stagesBySlug = func() map[string]Stage {
	index := make(map[string]Stage, len(stageTable))
	for _, stage := range stageTable {
		index[stage.Slug] = stage
	}
	return index
}()

// Stages returns every stage of both games in site order.
func Stages() []Stage {
	out := make([]Stage, len(stageTable))
	copy(out, stageTable)
	return out
}

// StagesForGame returns the stages belonging to g in site order.
func StagesForGame(g Game) []Stage {
	var out []Stage
	for _, stage := range stageTable {
		if stage.Game == g {
			out = append(out, stage)
		}
	}
	return out
}

// LookupStage finds a stage by slug.
func LookupStage(slug string) (Stage, error) {
	stage, ok := stagesBySlug[slug]
	if !ok {
		return Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, slug)
	}
	return stage, nil
}

// GameForStage returns the game a stage slug belongs to.
func GameForStage(slug string) (Game, error) {
	stage, err := LookupStage(slug)
	if err != nil {
		return 0, err
	}
	return stage.Game, nil
}
