package machine

import (
	"testing"

	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/values"
)

// TestScenarioS1AllocateThenConsume exercises spec.md §8's S1.
func TestScenarioS1AllocateThenConsume(t *testing.T) {
	ms := NewMachineState([]Instruction{
		Alloc{Type: 10, Init: 11, Output: 0},
		Consume{Resource: 0, Output: 1},
	})
	if err := ms.SetRegister(10, values.FromPrimitive(values.Unit()), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := ms.SetRegister(11, values.FromPrimitive(values.Int(42)), values.Unrestricted); err != nil {
		t.Fatal(err)
	}

	for !ms.Halted {
		if err := Step(ms); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	result, err := ms.Registers.Read(1)
	if err != nil {
		t.Fatalf("read r1: %v", err)
	}
	if !result.IsPrimitive() || result.Primitive().AsInt() != 42 {
		t.Fatalf("expected Primitive(Int 42), got %v", result)
	}
	if ms.Nullifiers.(interface{ Len() int }).Len() != 1 {
		t.Fatalf("expected exactly one nullifier")
	}
}

// TestScenarioS2DoubleConsumeRejection exercises spec.md §8's S2.
func TestScenarioS2DoubleConsumeRejection(t *testing.T) {
	ms := NewMachineState([]Instruction{
		Alloc{Type: 10, Init: 11, Output: 0},
		Consume{Resource: 0, Output: 1},
		Consume{Resource: 0, Output: 2},
	})
	if err := ms.SetRegister(10, values.FromPrimitive(values.Unit()), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := ms.SetRegister(11, values.FromPrimitive(values.Int(7)), values.Unrestricted); err != nil {
		t.Fatal(err)
	}

	if err := Step(ms); err != nil { // Alloc
		t.Fatalf("alloc step: %v", err)
	}
	if err := Step(ms); err != nil { // first Consume
		t.Fatalf("first consume step: %v", err)
	}
	result, err := ms.Registers.Read(1)
	if err != nil {
		t.Fatalf("read r1: %v", err)
	}
	if result.Primitive().AsInt() != 7 {
		t.Fatalf("expected Primitive(Int 7), got %v", result)
	}

	if err := Step(ms); err == nil { // second Consume must fail
		t.Fatal("expected second consume to fail")
	}
	if ms.Nullifiers.(interface{ Len() int }).Len() != 1 {
		t.Fatalf("expected exactly one nullifier after the rejected double consume")
	}
}

// TestScenarioS3ComposeOfIdentity exercises spec.md §8's S3.
func TestScenarioS3ComposeOfIdentity(t *testing.T) {
	id, err := IdentityMorphism(ca.Default())
	if err != nil {
		t.Fatal(err)
	}

	ms := NewMachineState([]Instruction{
		Compose{First: 10, Second: 11, Output: 20},
		Transform{Morph: 20, Input: 21, Output: 0},
	})
	ms.RegisterMorphism(id)
	if err := ms.SetRegister(10, values.ValueRef(id.ID), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := ms.SetRegister(11, values.ValueRef(id.ID), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := ms.SetRegister(21, values.FromPrimitive(values.Int(5)), values.Unrestricted); err != nil {
		t.Fatal(err)
	}

	result, err := Run(ms, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.IsPrimitive() || result.Primitive().AsInt() != 5 {
		t.Fatalf("expected Primitive(Int 5), got %v", result)
	}
}

func TestReadingNonexistentRegisterFails(t *testing.T) {
	rf := NewRegisterFile()
	if _, err := rf.Read(0); err == nil {
		t.Fatal("expected read of unwritten register to fail")
	}
}

func TestOverwritingUnconsumedLinearRegisterFails(t *testing.T) {
	rf := NewRegisterFile()
	if err := rf.Write(0, values.CreateLinear(values.FromPrimitive(values.Int(1)), 0)); err != nil {
		t.Fatal(err)
	}
	if err := rf.Write(0, values.CreateLinear(values.FromPrimitive(values.Int(2)), 1)); err == nil {
		t.Fatal("expected overwrite of unconsumed linear register to fail")
	}
}

func TestOverwritingConsumedLinearRegisterSucceeds(t *testing.T) {
	rf := NewRegisterFile()
	cell := values.CreateLinear(values.FromPrimitive(values.Int(1)), 0)
	if err := rf.Write(0, cell); err != nil {
		t.Fatal(err)
	}
	if err := cell.Consume(); err != nil {
		t.Fatal(err)
	}
	if err := rf.Write(0, values.CreateLinear(values.FromPrimitive(values.Int(2)), 1)); err != nil {
		t.Fatalf("expected overwrite of consumed linear register to succeed: %v", err)
	}
}

func TestAllocTypeMismatchFails(t *testing.T) {
	ms := NewMachineState([]Instruction{
		Alloc{Type: 10, Init: 11, Output: 0},
	})
	if err := ms.SetRegister(10, values.FromPrimitive(values.Symbol("bool")), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := ms.SetRegister(11, values.FromPrimitive(values.Int(1)), values.Unrestricted); err != nil {
		t.Fatal(err)
	}
	if err := Step(ms); err == nil {
		t.Fatal("expected declared-type mismatch to fail")
	}
}
