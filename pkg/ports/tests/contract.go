package tests

import (
	"context"
	"testing"

	"github.com/aretw0/aicode/pkg/domain"
	"github.com/aretw0/aicode/pkg/ports"
)

// SurfaceObserver returns what a surface has rendered so far, one entry per
// event, formatted as "<kind>:<turn id>" (e.g. "user:response-1",
// "placeholder:response-1", "resolved:response-1").
type SurfaceObserver func() []string

// SurfaceContractTest is a reusable test suite that verifies a ports.Surface
// renders every lifecycle event and keeps resolutions keyed by TurnID when they
// arrive out of submission order.
func SurfaceContractTest(t *testing.T, surface ports.Surface, observe SurfaceObserver) {
	t.Helper()
	ctx := context.Background()

	code, err := domain.NewCodeSuggestion("see below", "print(1)", "python")
	if err != nil {
		t.Fatalf("building code suggestion: %v", err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"user_1", func() error { return surface.AddUserMessage(ctx, 1, "first") }},
		{"placeholder_1", func() error { return surface.AddPendingPlaceholder(ctx, 1) }},
		{"user_2", func() error { return surface.AddUserMessage(ctx, 2, "second") }},
		{"placeholder_2", func() error { return surface.AddPendingPlaceholder(ctx, 2) }},
		{"resolve_2", func() error { return surface.ResolvePlaceholder(ctx, 2, code) }},
		{"resolve_1", func() error { return surface.ResolvePlaceholder(ctx, 1, domain.NewText("hello")) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
	}

	want := []string{
		"user:response-1",
		"placeholder:response-1",
		"user:response-2",
		"placeholder:response-2",
		"resolved:response-2",
		"resolved:response-1",
	}
	got := observe()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
