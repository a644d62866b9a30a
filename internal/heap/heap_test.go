package heap

import (
	"testing"

	"github.com/causality-labs/causality/internal/values"
)

// TestHeapLinearity exercises testable property #2 from spec.md §8.
func TestHeapLinearity(t *testing.T) {
	h := New()

	id, err := h.Alloc(values.FromPrimitive(values.Int(42)))
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	if h.IsConsumed(id) {
		t.Fatal("freshly allocated resource should not be consumed")
	}

	v, err := h.Consume(id)
	if err != nil {
		t.Fatalf("first consume should succeed: %v", err)
	}
	if v.Primitive().AsInt() != 42 {
		t.Fatalf("expected 42, got %v", v)
	}

	if !h.IsConsumed(id) {
		t.Fatal("expected resource to be marked consumed")
	}

	if _, ok := h.GetValue(id); ok {
		t.Fatal("expected GetValue to report unavailable after consume")
	}

	if _, err := h.Consume(id); err == nil {
		t.Fatal("expected second consume to fail")
	}
}

func TestHeapConsumeAbsentFails(t *testing.T) {
	h := New()
	var bogus = [32]byte{0xff}
	if _, err := h.Consume(bogus); err == nil {
		t.Fatal("expected consume of unallocated id to fail")
	}
}

func TestHeapIndependentAllocationsOfEqualValuesGetDistinctIds(t *testing.T) {
	h := New()
	v := values.FromPrimitive(values.Int(7))

	id1, err := h.Alloc(v)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := h.Alloc(v)
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Fatal("expected independent allocations to get distinct ids")
	}

	// Both remain independently consumable.
	if _, err := h.Consume(id1); err != nil {
		t.Fatalf("consume id1: %v", err)
	}
	if _, err := h.Consume(id2); err != nil {
		t.Fatalf("consume id2: %v", err)
	}
}
