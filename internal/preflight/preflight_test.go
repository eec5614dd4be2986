package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/WodahsReklaw/TruthSaver/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("test", dir); !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}

	if result := CheckDirectoryAccess("test", filepath.Join(dir, "nope")); result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail for missing dir, got %#v", result)
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", file); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckRankings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "truthsaver-test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if result := CheckRankings(context.Background(), srv.URL, "truthsaver-test"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckRankings(context.Background(), srv.URL, "other"); result.Passed {
		t.Fatal("expected failure on 403")
	}
	if result := CheckRankings(context.Background(), "", ""); result.Passed || result.Detail != "missing base url" {
		t.Fatalf("unexpected result for blank url: %#v", result)
	}
}

func TestRunAllSelectsChecksByPhase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(srv.URL))
	cfg.Download.YtdlpBinary = "clearly-not-present-yt-dlp"
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.StorePath), 0o755); err != nil {
		t.Fatal(err)
	}

	updateOnly := RunAll(context.Background(), cfg, Phases{Update: true})
	if len(updateOnly) != 2 {
		t.Fatalf("expected store and rankings checks, got %#v", updateOnly)
	}
	if failed := Failures(updateOnly); len(failed) != 0 {
		t.Fatalf("expected update checks to pass, got %#v", failed)
	}

	download := RunAll(context.Background(), cfg, Phases{Download: true})
	failed := Failures(download)
	names := map[string]bool{}
	for _, result := range failed {
		names[result.Name] = true
	}
	if !names["Video directory"] || !names["yt-dlp"] {
		t.Fatalf("expected video directory and yt-dlp failures, got %#v", failed)
	}
	if names["FFmpeg"] {
		t.Fatal("ffmpeg is optional and must not be reported as a failure")
	}
}

func TestRunAllPassesWithStubbedYtdlp(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, Phases{Download: true})
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("expected download checks to pass, got %#v", failed)
	}
}

func TestRunAllUnreachableRankingsOnlyWarns(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL("http://127.0.0.1:1"))
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.StorePath), 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, Phases{Update: true})
	var rankings *Result
	for i := range results {
		if results[i].Name == "Rankings site" {
			rankings = &results[i]
		}
	}
	if rankings == nil || rankings.Passed || !rankings.Optional {
		t.Fatalf("expected optional failed rankings check, got %#v", results)
	}
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("unreachable site must not block a run, got %#v", failed)
	}
}
