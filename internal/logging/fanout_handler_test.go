package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerRoutesByLevel(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	console := slog.NewJSONHandler(&consoleBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	file := slog.NewJSONHandler(&fileBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := newFanoutHandler(console, file)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout to be enabled for debug")
	}

	logger := slog.New(h)
	logger.Debug("probe attempt")
	if consoleBuf.Len() != 0 {
		t.Fatal("info handler should not receive debug messages")
	}
	if fileBuf.Len() == 0 {
		t.Fatal("debug handler should receive debug messages")
	}

	fileBuf.Reset()
	logger.Info("video saved", slog.String("stage", "dam"))
	for name, buf := range map[string]*bytes.Buffer{"console": &consoleBuf, "file": &fileBuf} {
		if !bytes.Contains(buf.Bytes(), []byte(`"stage":"dam"`)) {
			t.Fatalf("expected stage attribute in %s output: %s", name, buf.String())
		}
	}
}

func TestFanoutHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := newFanoutHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "download")}).WithGroup("entry"))
	logger.Info("test", slog.String("player", "Oscar"))

	for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"component":"download"`)) {
			t.Fatalf("expected component attribute, got %s", buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"entry":{"player":"Oscar"}`)) {
			t.Fatalf("expected grouped attribute, got %s", buf.String())
		}
	}
}
