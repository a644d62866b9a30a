package values

import (
	"testing"

	"github.com/causality-labs/causality/internal/ca"
)

func TestPrimitiveEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Primitive
		equal bool
	}{
		{"unit == unit", Unit(), Unit(), true},
		{"int 1 == int 1", Int(1), Int(1), true},
		{"int 1 != int 2", Int(1), Int(2), false},
		{"bool true == bool true", Bool(true), Bool(true), true},
		{"bool true != bool false", Bool(true), Bool(false), false},
		{"symbol a == symbol a", Symbol("a"), Symbol("a"), true},
		{"symbol a != symbol b", Symbol("a"), Symbol("b"), false},
		{"int 1 != bool true (different kinds)", Int(1), Bool(true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Fatalf("Equal() = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestMachineValueEqualityReferencesAreIdEquality(t *testing.T) {
	idA, err := ca.FromContent(primCanonical{Int(1)})
	if err != nil {
		t.Fatal(err)
	}
	idB, err := ca.FromContent(primCanonical{Int(2)})
	if err != nil {
		t.Fatal(err)
	}

	a := ResourceRef(idA)
	aAgain := ResourceRef(idA)
	b := ResourceRef(idB)

	if !a.Equal(aAgain) {
		t.Fatal("expected equal refs to the same id")
	}
	if a.Equal(b) {
		t.Fatal("expected refs to distinct ids to be unequal")
	}
}

type primCanonical struct{ p Primitive }

func (p primCanonical) Canonical() ([]byte, error) { return p.p.Canonical() }

func TestGetTypePlaceholderForReferences(t *testing.T) {
	v := ExprRef(ca.EntityId{0x01})
	ty := GetType(v)
	if ty.Name != "expr-ref" {
		t.Fatalf("expected generic placeholder 'expr-ref', got %q", ty.Name)
	}

	prim := FromPrimitive(Int(5))
	ty = GetType(prim)
	if ty.Name != "int" {
		t.Fatalf("expected 'int', got %q", ty.Name)
	}
}

func TestWrappingArithmetic(t *testing.T) {
	max := Int(2147483647)
	one := Int(1)
	wrapped := AddWrapping(max, one)
	if wrapped.AsInt() != -2147483648 {
		t.Fatalf("expected wraparound to min int32, got %d", wrapped.AsInt())
	}
}
