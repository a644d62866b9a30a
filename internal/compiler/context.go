// Package compiler lowers Layer 1 terms (internal/expr) to Layer 0
// programs (internal/machine), the bottom-up compilation spec.md §4.9
// describes (scenario S5: compiling and running (λx.x) 11 yields
// Primitive(Int 11)).
package compiler

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

// context threads the compiler's mutable state through a single top-level
// Compile call: the next free register, the current variable binding
// environment, and the program/constants/morphisms accumulated so far.
// Mirrors the teacher's single-pass emitting-compiler shape, generalized
// from bytecode instructions to Layer 0 instructions.
type context struct {
	store  *expr.Store
	hasher ca.Hasher

	nextReg machine.RegisterId
	vars    map[string]machine.RegisterId

	program   []machine.Instruction
	constants map[machine.RegisterId]values.MachineValue
	linearity map[machine.RegisterId]values.Linearity
	morphisms []*machine.Morphism

	// seq is shared with every nested (closure-body) context spawned from
	// this one, so closure-maker built-ins get unique names across the
	// whole compilation regardless of nesting depth.
	seq *int
}

func newContext(store *expr.Store, hasher ca.Hasher) *context {
	seq := 0
	return &context{
		store:     store,
		hasher:    hasher,
		nextReg:   machine.ResultRegister + 1,
		vars:      make(map[string]machine.RegisterId),
		constants: make(map[machine.RegisterId]values.MachineValue),
		linearity: make(map[machine.RegisterId]values.Linearity),
		seq:       &seq,
	}
}

// newChildContext starts a fresh register space and binding scope (for a
// closure body) while sharing the naming counter with parent.
func newChildContext(parent *context) *context {
	return &context{
		store:     parent.store,
		hasher:    parent.hasher,
		nextReg:   machine.ResultRegister + 1,
		vars:      make(map[string]machine.RegisterId),
		constants: make(map[machine.RegisterId]values.MachineValue),
		linearity: make(map[machine.RegisterId]values.Linearity),
		seq:       parent.seq,
	}
}

// nextClosureIndex returns a fresh, compilation-wide unique sequence number.
func (c *context) nextClosureIndex() int {
	*c.seq++
	return *c.seq
}

// fresh allocates a new register id, never reusing one already handed out.
func (c *context) fresh() machine.RegisterId {
	r := c.nextReg
	c.nextReg++
	return r
}

// emit appends instr to the program under construction.
func (c *context) emit(instr machine.Instruction) {
	c.program = append(c.program, instr)
}

// constant reserves a fresh register pre-seeded with value at the given
// linearity — the compiler's stand-in for a "load constant" opcode, since
// none of the five Layer 0 instructions loads a literal directly; the
// caller (pkg/causality) seeds these into a MachineState before running.
func (c *context) constant(value values.MachineValue, linearity values.Linearity) machine.RegisterId {
	r := c.fresh()
	c.constants[r] = value
	c.linearity[r] = linearity
	return r
}

// registerMorphism records m so the top-level Result can hand it to the
// caller for installation on a MachineState before the program runs.
func (c *context) registerMorphism(m *machine.Morphism) {
	c.morphisms = append(c.morphisms, m)
}

// bind associates name with reg in the current scope, returning a restore
// function the caller defers to pop the binding (or restore a shadowed
// outer one) once the scope ends.
func (c *context) bind(name string, reg machine.RegisterId) (restore func()) {
	prev, had := c.vars[name]
	c.vars[name] = reg
	return func() {
		if had {
			c.vars[name] = prev
		} else {
			delete(c.vars, name)
		}
	}
}

func (c *context) lookup(name string) (machine.RegisterId, bool) {
	r, ok := c.vars[name]
	return r, ok
}

// snapshotVars captures the current binding environment for a closure to
// capture by value, so a nested compile doesn't observe later rebindings.
func (c *context) snapshotVars() map[string]machine.RegisterId {
	out := make(map[string]machine.RegisterId, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

// buildCaptureChain emits Tensor instructions pairing the current register
// values of names into one right-nested chain register, terminated by
// unit — a closure-maker built-in unpacks this positionally (see
// functions.go) at the instant the closure value is constructed, so a
// captured linear resource is properly consumed out of its outer register
// by the ordinary Tensor consumption rule.
func (c *context) buildCaptureChain(names []string) (machine.RegisterId, error) {
	acc := c.constant(values.FromPrimitive(values.Unit()), values.Unrestricted)
	for i := len(names) - 1; i >= 0; i-- {
		reg, ok := c.lookup(names[i])
		if !ok {
			return 0, causalityerrors.TypeError("free variable %q not bound at closure creation", names[i])
		}
		next := c.fresh()
		c.emit(machine.Tensor{Left: reg, Right: acc, Output: next})
		acc = next
	}
	return acc, nil
}
