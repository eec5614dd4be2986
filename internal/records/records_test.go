package records

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoragePath(t *testing.T) {
	entry := TimeEntry{
		URL:    "https://rankings.the-elite.net/~Oscar+Pleininger/time/115050",
		TimeID: 115050,
		Player: "Oscar Pleininger",
		Mode:   ModeSA,
		Stage:  "frigate",
		Time:   63,
		Status: StatusNew,
	}
	got, err := entry.StoragePath()
	if err != nil {
		t.Fatalf("StoragePath returned error: %v", err)
	}
	want := "Oscar_Pleininger/ge.frigate.SA.0063.Oscar_Pleininger"
	if got != want {
		t.Fatalf("StoragePath = %q, want %q", got, want)
	}
	again, err := entry.StoragePath()
	if err != nil || again != got {
		t.Fatalf("StoragePath not deterministic: %q vs %q (%v)", got, again, err)
	}
}

func TestStoragePathKeepsPlayerDirectoryInsideRoot(t *testing.T) {
	cases := []struct {
		player  string
		wantDir string
	}{
		{"..", "_.."},
		{".", "_."},
		{".hidden", "_.hidden"},
		{"   ", "_"},
		{"../etc", "_.._etc"},
		{`a\b`, "a_b"},
	}
	for _, tc := range cases {
		entry := TimeEntry{Player: tc.player, Mode: ModeSA, Stage: "dam", Time: 60}
		rel, err := entry.StoragePath()
		if err != nil {
			t.Fatalf("StoragePath(%q) returned error: %v", tc.player, err)
		}
		dir := filepath.Dir(rel)
		if dir != tc.wantDir {
			t.Fatalf("StoragePath(%q) dir = %q, want %q", tc.player, dir, tc.wantDir)
		}
		if strings.Contains(dir, string(filepath.Separator)) || strings.HasPrefix(dir, ".") {
			t.Fatalf("StoragePath(%q) dir %q is not a single visible segment", tc.player, dir)
		}
		root := "/videos"
		full := filepath.Join(root, rel)
		if filepath.Dir(filepath.Dir(full)) != root {
			t.Fatalf("StoragePath(%q) escapes root: %q", tc.player, full)
		}
	}
}

func TestStoragePathPerfectDarkAndLongTimes(t *testing.T) {
	entry := TimeEntry{Player: "Lloyd Palmer", Mode: ModeDLTK, Stage: "war", Time: 12345}
	got, err := entry.StoragePath()
	if err != nil {
		t.Fatalf("StoragePath returned error: %v", err)
	}
	if got != "Lloyd_Palmer/pd.war.DLTK.12345.Lloyd_Palmer" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestStoragePathNormalizesComposedNames(t *testing.T) {
	composed := TimeEntry{Player: "Marc Rützou", Mode: ModeSA, Stage: "aztec", Time: 92}
	decomposed := TimeEntry{Player: "Marc Ru\u0308tzou", Mode: ModeSA, Stage: "aztec", Time: 92}
	a, errA := composed.StoragePath()
	b, errB := decomposed.StoragePath()
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v %v", errA, errB)
	}
	if a != b {
		t.Fatalf("expected NFC-equal paths, got %q and %q", a, b)
	}
}

func TestStoragePathUnknownStage(t *testing.T) {
	entry := TimeEntry{Player: "irrel", Mode: "SPAG", Stage: "Nesquik", Time: 10}
	_, err := entry.StoragePath()
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestStageTableCoversBothGames(t *testing.T) {
	stages := Stages()
	if len(stages) != 40 {
		t.Fatalf("expected 40 stages, got %d", len(stages))
	}
	seen := make(map[string]struct{}, len(stages))
	for i, stage := range stages {
		if stage.Index != i+1 {
			t.Fatalf("stage %s has index %d, want %d", stage.Slug, stage.Index, i+1)
		}
		if _, dup := seen[stage.Slug]; dup {
			t.Fatalf("duplicate stage slug %q", stage.Slug)
		}
		seen[stage.Slug] = struct{}{}
		want := GoldenEye
		if stage.Index > 20 {
			want = PerfectDark
		}
		if stage.Game != want {
			t.Fatalf("stage %s mapped to %v, want %v", stage.Slug, stage.Game, want)
		}
	}
	if len(StagesForGame(GoldenEye)) != 20 || len(StagesForGame(PerfectDark)) != 20 {
		t.Fatal("expected 20 stages per game")
	}
}

func TestRegularModes(t *testing.T) {
	if got := RegularModes(GoldenEye); got[2] != Mode00A {
		t.Fatalf("unexpected GoldenEye modes %v", got)
	}
	if got := RegularModes(PerfectDark); got[2] != ModePA {
		t.Fatalf("unexpected Perfect Dark modes %v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusDownloaded, true},
		{StatusNew, StatusBadLink, true},
		{StatusNew, StatusBadVideo, true},
		{StatusBadLink, StatusDownloaded, true},
		{StatusBadVideo, StatusBadLink, true},
		{StatusDownloaded, StatusBadVideo, false},
		{StatusDownloaded, StatusNew, false},
		{StatusBadLink, StatusNew, false},
		{StatusNew, Status("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"new":        StatusNew,
		"NEW_URL":    StatusNew,
		"downloaded": StatusDownloaded,
		"bad-link":   StatusBadLink,
		"BAD_VIDEO":  StatusBadVideo,
	}
	for input, want := range cases {
		got, err := ParseStatus(input)
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseGame(t *testing.T) {
	for _, input := range []string{"ge", "goldeneye", "GoldenEye"} {
		if g, err := ParseGame(input); err != nil || g != GoldenEye {
			t.Fatalf("ParseGame(%q) = %v, %v", input, g, err)
		}
	}
	if g, err := ParseGame("perfect-dark"); err != nil || g != PerfectDark {
		t.Fatalf("ParseGame(perfect-dark) = %v, %v", g, err)
	}
	if _, err := ParseGame("banjo"); err == nil {
		t.Fatal("expected error for unknown game")
	}
}

func TestValidate(t *testing.T) {
	if err := (TimeEntry{URL: "u", Time: 1, Status: StatusNew}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (TimeEntry{URL: "u", Time: -1, Status: StatusNew}).Validate(); err == nil {
		t.Fatal("expected negative time error")
	}
	if err := (TimeEntry{Time: 1, Status: StatusNew}).Validate(); err == nil {
		t.Fatal("expected empty url error")
	}
}
