package services_test

import (
	"context"
	"testing"

	"github.com/WodahsReklaw/TruthSaver/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithPhase(ctx, "download")
	ctx = services.WithStage(ctx, "dam")
	ctx = services.WithEntryURL(ctx, "https://rankings.the-elite.net/~Oscar/time/1")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if phase, ok := services.PhaseFromContext(ctx); !ok || phase != "download" {
		t.Fatalf("unexpected phase: %v %v", phase, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "dam" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if url, ok := services.EntryURLFromContext(ctx); !ok || url != "https://rankings.the-elite.net/~Oscar/time/1" {
		t.Fatalf("unexpected entry url: %v %v", url, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithEntryURL(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.EntryURLFromContext(ctx); ok {
		t.Fatal("expected no entry url value")
	}
}
