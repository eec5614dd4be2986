package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRunIDHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := newRunIDHandler(slog.NewJSONHandler(&buf, nil), "run-123")

	slog.New(handler).With("extra", "value").Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"run-123"`) {
		t.Errorf("expected run_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestRunIDHandlerNilBase(t *testing.T) {
	handler := newRunIDHandler(nil, "run-123")
	if _, ok := handler.(NoopHandler); !ok {
		t.Errorf("expected NoopHandler when base is nil, got: %T", handler)
	}
}
