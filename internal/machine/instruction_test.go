package machine

import "testing"

func TestInstructionUtilities(t *testing.T) {
	cases := []struct {
		name          string
		instr         Instruction
		readsFrom     []RegisterId
		writesTo      RegisterId
		isControlFlow bool
	}{
		{"Transform", Transform{Morph: 1, Input: 2, Output: 3}, []RegisterId{1, 2}, 3, false},
		{"Alloc", Alloc{Type: 1, Init: 2, Output: 3}, []RegisterId{1, 2}, 3, false},
		{"Consume", Consume{Resource: 1, Output: 2}, []RegisterId{1}, 2, false},
		{"Compose", Compose{First: 1, Second: 2, Output: 3}, []RegisterId{1, 2}, 3, true},
		{"Tensor", Tensor{Left: 1, Right: 2, Output: 3}, []RegisterId{1, 2}, 3, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.instr.ReadsFrom()
			if len(got) != len(c.readsFrom) {
				t.Fatalf("ReadsFrom: got %v, want %v", got, c.readsFrom)
			}
			for i := range got {
				if got[i] != c.readsFrom[i] {
					t.Fatalf("ReadsFrom[%d]: got %v, want %v", i, got[i], c.readsFrom[i])
				}
			}
			if c.instr.WritesTo() != c.writesTo {
				t.Fatalf("WritesTo: got %v, want %v", c.instr.WritesTo(), c.writesTo)
			}
			if c.instr.IsControlFlow() != c.isControlFlow {
				t.Fatalf("IsControlFlow: got %v, want %v", c.instr.IsControlFlow(), c.isControlFlow)
			}
		})
	}
}

// TestOnlyComposeIsControlFlow pins spec.md §4.5's "is_control_flow(i) is
// true only for Compose".
func TestOnlyComposeIsControlFlow(t *testing.T) {
	instrs := []Instruction{
		Transform{Morph: 1, Input: 2, Output: 3},
		Alloc{Type: 1, Init: 2, Output: 3},
		Consume{Resource: 1, Output: 2},
		Compose{First: 1, Second: 2, Output: 3},
		Tensor{Left: 1, Right: 2, Output: 3},
	}
	for _, instr := range instrs {
		_, isCompose := instr.(Compose)
		if instr.IsControlFlow() != isCompose {
			t.Fatalf("%T: IsControlFlow() = %v, want %v", instr, instr.IsControlFlow(), isCompose)
		}
	}
}

func TestInstructionCanonicalDeterministicAndDistinct(t *testing.T) {
	a := Transform{Morph: 1, Input: 2, Output: 3}
	b := Transform{Morph: 1, Input: 2, Output: 3}
	c := Transform{Morph: 1, Input: 2, Output: 4}

	ab, err := a.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	bb, err := b.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	cb, err := c.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if string(ab) != string(bb) {
		t.Fatal("expected identical instructions to encode identically")
	}
	if string(ab) == string(cb) {
		t.Fatal("expected differing instructions to encode differently")
	}

	// Distinct opcodes over the same register operands must not collide.
	alloc := Alloc{Type: 1, Init: 2, Output: 3}
	allocBytes, err := alloc.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if string(allocBytes) == string(ab) {
		t.Fatal("expected Transform and Alloc to encode differently even with matching register numbers")
	}
}

func TestProgramCanonicalDeterministic(t *testing.T) {
	p1 := Program{Alloc{Type: 1, Init: 2, Output: 3}, Consume{Resource: 3, Output: 4}}
	p2 := Program{Alloc{Type: 1, Init: 2, Output: 3}, Consume{Resource: 3, Output: 4}}
	b1, err := p1.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := p2.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Fatal("expected identical programs to encode identically")
	}
}
