package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/WodahsReklaw/TruthSaver/internal/testsupport"
)

type ntfyRecorder struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func newNtfyServer(t *testing.T) (*httptest.Server, *ntfyRecorder) {
	t.Helper()
	rec := &ntfyRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.titles = append(rec.titles, r.Header.Get("Title"))
		rec.bodies = append(rec.bodies, string(body))
		rec.mu.Unlock()
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestTestNotifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify disabled: %v", err)
	}
	requireContains(t, out, "Notifications are disabled")

	ntfy, rec := newNtfyServer(t)
	env.cfg.Notifications.NtfyTopic = ntfy.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err = runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if len(rec.titles) != 1 || rec.titles[0] != "TruthSaver - Test" {
		t.Fatalf("unexpected notifications %#v", rec.titles)
	}
}

func TestUpdatePushesRunSummary(t *testing.T) {
	rankings := newRankingsServer(t)
	ntfy, rec := newNtfyServer(t)
	env := setupCLITestEnv(t, testsupport.WithBaseURL(rankings.URL))
	env.cfg.Notifications.NtfyTopic = ntfy.URL
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, []string{"update"}, env.configPath); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(rec.bodies) != 1 || rec.bodies[0] != "1 new times, 0 videos downloaded" {
		t.Fatalf("unexpected notifications %#v", rec.bodies)
	}

	// Nothing new the second time round.
	if _, _, err := runCLI(t, []string{"update"}, env.configPath); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(rec.bodies) != 1 {
		t.Fatalf("expected no second notification, got %#v", rec.bodies)
	}
}
