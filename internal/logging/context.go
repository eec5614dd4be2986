package logging

import (
	"context"
	"log/slog"

	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one truthsaver invocation.
	FieldRunID = "run_id"
	// FieldPhase is the workflow phase: update or download.
	FieldPhase = "phase"
	// FieldStage is the rankings stage slug.
	FieldStage = "stage"
	// FieldEntryURL is the detail URL identifying a time entry.
	FieldEntryURL = "entry_url"
	// FieldStatus is a record status value.
	FieldStatus = "status"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if phase, ok := services.PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if url, ok := services.EntryURLFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEntryURL, url))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
