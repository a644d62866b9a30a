package machine

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
)

// MorphismKind is a closed enumeration over the morphism variants spec.md
// §4.5's Transform instruction names (built-in, closure, compiled effect),
// plus the composed variant Compose produces.
type MorphismKind uint8

const (
	MorphismBuiltin MorphismKind = iota
	MorphismClosure
	MorphismCompiledEffect
	MorphismComposed
)

func (k MorphismKind) String() string {
	switch k {
	case MorphismBuiltin:
		return "builtin"
	case MorphismClosure:
		return "closure"
	case MorphismCompiledEffect:
		return "compiled-effect"
	case MorphismComposed:
		return "composed"
	default:
		return "unknown"
	}
}

// BuiltinFn is the Go-level implementation of a built-in morphism (arith,
// comparison, field access). It receives the owning MachineState so it can
// resolve ValueRef operands (pairs) against the state's side tables.
type BuiltinFn func(ms *MachineState, input values.MachineValue) (values.MachineValue, error)

// Morphism is a first-class, content-addressed function value. It is kept
// in a side table on MachineState rather than as a sixth MachineValue
// variant: registers name it by ValueRef(id) or EffectRef(id), keeping the
// value universe closed at five variants (spec.md §3).
type Morphism struct {
	ID   ca.EntityId
	Kind MorphismKind
	Name string

	builtin BuiltinFn

	// Closure / compiled-effect body: spec.md §4.9's "tensor of captured
	// environment and code pointer" — env is the captured environment,
	// body is the code pointer's target, paramReg is where the argument
	// is bound when the body runs.
	paramReg RegisterId
	body     []Instruction
	env      map[RegisterId]*values.RegisterCell

	// Composed: Second ∘ First (produced by the Compose instruction).
	first, second *Morphism
}

// Apply runs the morphism against input, within the context of ms (whose
// heap, nullifier set, and side tables a closure body shares).
func (m *Morphism) Apply(ms *MachineState, input values.MachineValue) (values.MachineValue, error) {
	switch m.Kind {
	case MorphismBuiltin:
		if m.builtin == nil {
			return values.MachineValue{}, causalityerrors.MachineError("builtin morphism %q has no implementation", m.Name)
		}
		return m.builtin(ms, input)
	case MorphismComposed:
		mid, err := m.first.Apply(ms, input)
		if err != nil {
			return values.MachineValue{}, err
		}
		return m.second.Apply(ms, mid)
	case MorphismClosure, MorphismCompiledEffect:
		return ms.runSubProgram(m, input)
	default:
		return values.MachineValue{}, causalityerrors.MachineError("unknown morphism kind %d", m.Kind)
	}
}

type canonicalMorphismLabel struct {
	kind  MorphismKind
	label string
}

func (c canonicalMorphismLabel) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(uint8(c.kind)).String(c.label).Finish(), nil
}

func newBuiltin(hasher ca.Hasher, name string, fn BuiltinFn) (*Morphism, error) {
	id, err := ca.EncodeContent(hasher, canonicalMorphismLabel{kind: MorphismBuiltin, label: name})
	if err != nil {
		return nil, err
	}
	return &Morphism{ID: id, Kind: MorphismBuiltin, Name: name, builtin: fn}, nil
}

type canonicalComposed struct {
	first, second ca.EntityId
}

func (c canonicalComposed) Canonical() ([]byte, error) {
	return ca.NewEncoder().ID(c.first).ID(c.second).Finish(), nil
}

// NewComposedMorphism builds the sequential composition second ∘ first,
// the Compose instruction's output. Composition is associative because its
// id is a pure function of the two operand ids and Apply runs them
// strictly in sequence — the category-theoretic law spec.md §4.5 requires
// as a testable property.
func NewComposedMorphism(hasher ca.Hasher, first, second *Morphism) (*Morphism, error) {
	id, err := ca.EncodeContent(hasher, canonicalComposed{first: first.ID, second: second.ID})
	if err != nil {
		return nil, err
	}
	return &Morphism{
		ID:     id,
		Kind:   MorphismComposed,
		Name:   first.Name + ";" + second.Name,
		first:  first,
		second: second,
	}, nil
}

type canonicalProgramMorphism struct {
	kind     MorphismKind
	bodyHash ca.EntityId
	paramReg RegisterId
}

func (c canonicalProgramMorphism) Canonical() ([]byte, error) {
	return ca.NewEncoder().Uint8(uint8(c.kind)).ID(c.bodyHash).Uint32(uint32(c.paramReg)).Finish(), nil
}

// NewClosureMorphism builds a closure: a captured environment of register
// cells plus a body program, run as a nested machine sharing the caller's
// heap and nullifier set when applied. The body's own content hash gives
// the closure a stable identity independent of where it is stored
// (spec.md §4.9).
func NewClosureMorphism(hasher ca.Hasher, name string, paramReg RegisterId, body []Instruction, env map[RegisterId]*values.RegisterCell) (*Morphism, error) {
	return newProgramMorphism(hasher, MorphismClosure, name, paramReg, body, env)
}

// NewCompiledEffectMorphism builds the "compiled effect" Transform variant:
// structurally identical to a closure, but tagged distinctly so a
// transaction's compiled handler body is distinguishable from a surface
// lambda (spec.md §4.10).
func NewCompiledEffectMorphism(hasher ca.Hasher, name string, paramReg RegisterId, body []Instruction, env map[RegisterId]*values.RegisterCell) (*Morphism, error) {
	return newProgramMorphism(hasher, MorphismCompiledEffect, name, paramReg, body, env)
}

func newProgramMorphism(hasher ca.Hasher, kind MorphismKind, name string, paramReg RegisterId, body []Instruction, env map[RegisterId]*values.RegisterCell) (*Morphism, error) {
	bodyHash, err := hashProgram(hasher, body)
	if err != nil {
		return nil, err
	}
	id, err := ca.EncodeContent(hasher, canonicalProgramMorphism{kind: kind, bodyHash: bodyHash, paramReg: paramReg})
	if err != nil {
		return nil, err
	}
	return &Morphism{ID: id, Kind: kind, Name: name, paramReg: paramReg, body: body, env: env}, nil
}
