package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	phaseKey    contextKey = "phase"
	stageKey    contextKey = "stage"
	entryURLKey contextKey = "entry_url"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates context with the workflow phase (update or download).
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the rankings stage slug being processed.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage slug if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithEntryURL annotates context with the detail URL of the entry being processed.
func WithEntryURL(ctx context.Context, url string) context.Context {
	if url == "" {
		return ctx
	}
	return context.WithValue(ctx, entryURLKey, url)
}

// EntryURLFromContext returns the entry URL if present.
func EntryURLFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(entryURLKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
