package values

import "testing"

// TestRegisterLinearity exercises testable property #3 from spec.md §8:
// reading after consumption fails for linear cells.
func TestRegisterLinearity(t *testing.T) {
	cell := CreateLinear(FromPrimitive(Int(42)), 0)

	if !cell.IsUsable() {
		t.Fatal("freshly created linear cell should be usable")
	}

	if _, err := cell.Extract(); err != nil {
		t.Fatalf("first extract should succeed: %v", err)
	}

	if err := cell.Consume(); err != nil {
		t.Fatalf("first consume should succeed: %v", err)
	}
	if !cell.IsConsumed() {
		t.Fatal("expected cell to be marked consumed")
	}

	if err := cell.Consume(); err == nil {
		t.Fatal("expected second consume to fail")
	}

	if _, err := cell.Extract(); err == nil {
		t.Fatal("expected read-after-consume to fail")
	}
}

func TestRegisterAffineSameAsLinearOnDoubleConsume(t *testing.T) {
	cell := CreateAffine(FromPrimitive(Unit()), 0)

	if err := cell.Consume(); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := cell.Consume(); err == nil {
		t.Fatal("expected double consume to fail for affine cell")
	}
}

func TestUnrestrictedNeverConsumed(t *testing.T) {
	cell := CreateUnrestricted(FromPrimitive(Bool(true)), 0)

	for i := 0; i < 5; i++ {
		if _, err := cell.Extract(); err != nil {
			t.Fatalf("read %d should succeed: %v", i, err)
		}
	}
	if err := cell.Consume(); err != nil {
		t.Fatalf("consume should be a no-op, not an error: %v", err)
	}
	if cell.IsConsumed() {
		t.Fatal("unrestricted cell should never be marked consumed")
	}
	if _, err := cell.Extract(); err != nil {
		t.Fatalf("read after consume no-op should still succeed: %v", err)
	}
}

func TestRelevantBehavesLikeUnrestrictedAtCellLevel(t *testing.T) {
	cell := NewCell(FromPrimitive(Symbol("x")), Relevant, 0)
	if _, err := cell.Extract(); err != nil {
		t.Fatalf("relevant cell should be readable: %v", err)
	}
	if err := cell.Consume(); err != nil {
		t.Fatalf("relevant consume should not fail: %v", err)
	}
	if cell.IsConsumed() {
		t.Fatal("relevant cell tracks usage at the typechecker, not here")
	}
}

func TestAccessCountIncrements(t *testing.T) {
	cell := CreateUnrestricted(FromPrimitive(Int(1)), 0)
	for i := 0; i < 3; i++ {
		if _, err := cell.Extract(); err != nil {
			t.Fatal(err)
		}
	}
	if cell.AccessCount() != 3 {
		t.Fatalf("expected access count 3, got %d", cell.AccessCount())
	}
}
