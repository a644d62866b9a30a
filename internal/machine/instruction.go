package machine

import "github.com/causality-labs/causality/internal/ca"

// Opcode tags identify each instruction in its canonical encoding.
const (
	opTransform uint8 = iota
	opAlloc
	opConsume
	opCompose
	opTensor
)

// Instruction is one of the exactly five Layer 0 opcodes (spec.md §4.5).
// Every instruction is also content-addressable: a closure or compiled
// effect's identity is the hash of its body program (see morphism.go).
type Instruction interface {
	ca.Encodable
	// ReadsFrom lists the registers this instruction reads as input.
	ReadsFrom() []RegisterId
	// WritesTo names the single register this instruction writes.
	WritesTo() RegisterId
	// IsControlFlow reports whether this is Compose, the only instruction
	// spec.md §4.5's instruction utilities call out as control flow.
	IsControlFlow() bool
}

// Transform applies the morphism held in Morph to the value in Input,
// leaving the result in Output.
type Transform struct {
	Morph, Input, Output RegisterId
}

func (i Transform) ReadsFrom() []RegisterId { return []RegisterId{i.Morph, i.Input} }
func (i Transform) WritesTo() RegisterId    { return i.Output }
func (i Transform) IsControlFlow() bool     { return false }
func (i Transform) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(opTransform).
		Uint32(uint32(i.Morph)).Uint32(uint32(i.Input)).Uint32(uint32(i.Output)).
		Finish(), nil
}

// Alloc allocates a new linear resource in the heap from Init's value
// (Type is an informational type label), leaving a linear ResourceRef in
// Output.
type Alloc struct {
	Type, Init, Output RegisterId
}

func (i Alloc) ReadsFrom() []RegisterId { return []RegisterId{i.Type, i.Init} }
func (i Alloc) WritesTo() RegisterId    { return i.Output }
func (i Alloc) IsControlFlow() bool     { return false }
func (i Alloc) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(opAlloc).
		Uint32(uint32(i.Type)).Uint32(uint32(i.Init)).Uint32(uint32(i.Output)).
		Finish(), nil
}

// Consume consumes the resource named by the reference in Resource,
// leaving the recovered (unrestricted) value in Output and recording a
// nullifier.
type Consume struct {
	Resource, Output RegisterId
}

func (i Consume) ReadsFrom() []RegisterId { return []RegisterId{i.Resource} }
func (i Consume) WritesTo() RegisterId    { return i.Output }
func (i Consume) IsControlFlow() bool     { return false }
func (i Consume) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(opConsume).
		Uint32(uint32(i.Resource)).Uint32(uint32(i.Output)).
		Finish(), nil
}

// Compose produces a new morphism that is the sequential composition
// (Second ∘ First). The only instruction flagged IsControlFlow, since the
// morphism it produces may later splice a sub-program into execution when
// applied via Transform.
type Compose struct {
	First, Second, Output RegisterId
}

func (i Compose) ReadsFrom() []RegisterId { return []RegisterId{i.First, i.Second} }
func (i Compose) WritesTo() RegisterId    { return i.Output }
func (i Compose) IsControlFlow() bool     { return true }
func (i Compose) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(opCompose).
		Uint32(uint32(i.First)).Uint32(uint32(i.Second)).Uint32(uint32(i.Output)).
		Finish(), nil
}

// Tensor produces the parallel/paired value (Left ⊗ Right).
type Tensor struct {
	Left, Right, Output RegisterId
}

func (i Tensor) ReadsFrom() []RegisterId { return []RegisterId{i.Left, i.Right} }
func (i Tensor) WritesTo() RegisterId    { return i.Output }
func (i Tensor) IsControlFlow() bool     { return false }
func (i Tensor) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(opTensor).
		Uint32(uint32(i.Left)).Uint32(uint32(i.Right)).Uint32(uint32(i.Output)).
		Finish(), nil
}

// Program is an ordered list of instructions: spec.md §3's machine-state
// "program" field, made content-addressable so a closure's body can be
// identified by hash (morphism.go's NewClosureMorphism).
type Program []Instruction

func (p Program) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().Uint32(uint32(len(p)))
	for _, instr := range p {
		body, err := instr.Canonical()
		if err != nil {
			return nil, err
		}
		enc.Bytes(body)
	}
	return enc.Finish(), nil
}

func hashProgram(hasher ca.Hasher, instrs []Instruction) (ca.EntityId, error) {
	return ca.EncodeContent(hasher, Program(instrs))
}
