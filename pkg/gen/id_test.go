package gen_test

import (
	"testing"

	"github.com/vaultscribe/backend/pkg/gen"
)

func TestSessionID_LengthAndHex(t *testing.T) {
	t.Parallel()

	id := gen.SessionID().Next()
	if len(id) != 16 {
		t.Fatalf("expected 16-character id, got %d (%q)", len(id), id)
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("id %q contains non-hex character %q", id, c)
		}
	}
}

func TestSessionID_Distinct(t *testing.T) {
	t.Parallel()

	g := gen.SessionID()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestSessionID_NilGenerator(t *testing.T) {
	t.Parallel()

	var g gen.IDGenerator
	if got := g.Next(); got != "" {
		t.Fatalf("nil generator returned %q, want empty", got)
	}
}

func TestTruncated_Deterministic(t *testing.T) {
	t.Parallel()

	a := gen.Truncated("Deposition2026-01-02T15:04:05Z")
	b := gen.Truncated("Deposition2026-01-02T15:04:05Z")
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16-character id, got %d", len(a))
	}
}
