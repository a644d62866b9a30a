package machine

import (
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
)

// DefaultMaxSteps is the bound spec.md §4.6 names: "a step count (default
// 10,000)".
const DefaultMaxSteps = 10000

// Run repeats Step until ms halts, then returns the contents of register 0
// (or unit if it was never written). maxSteps <= 0 selects DefaultMaxSteps.
// Exceeding the bound yields a Timeout error; state performed before the
// timeout (heap allocations, nullifier insertions) is left observable, per
// spec.md §5's "no partial-completion side effects escape ... reconciled
// by the caller".
func Run(ms *MachineState, maxSteps int) (values.MachineValue, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	steps := 0
	for !ms.Halted {
		if steps >= maxSteps {
			return values.MachineValue{}, causalityerrors.Timeout(steps)
		}
		if err := Step(ms); err != nil {
			return values.MachineValue{}, err
		}
		steps++
	}
	return ms.resultValue()
}

// Trace behaves like Run but also returns the list of instructions
// actually executed, in order.
func Trace(ms *MachineState, maxSteps int) (values.MachineValue, []Instruction, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	var executed []Instruction
	steps := 0
	for !ms.Halted {
		if steps >= maxSteps {
			return values.MachineValue{}, executed, causalityerrors.Timeout(steps)
		}
		if ms.PC >= len(ms.Program) {
			ms.Halted = true
			break
		}
		instr := ms.Program[ms.PC]
		if err := Step(ms); err != nil {
			return values.MachineValue{}, executed, err
		}
		executed = append(executed, instr)
		steps++
	}
	v, err := ms.resultValue()
	return v, executed, err
}

// resultValue reads register 0, or returns unit if it was never written
// (spec.md §4.6's "returning the contents of register 0, or unit if
// empty").
func (ms *MachineState) resultValue() (values.MachineValue, error) {
	if !ms.Registers.Has(ResultRegister) {
		return values.FromPrimitive(values.Unit()), nil
	}
	cell, err := ms.Registers.Cell(ResultRegister)
	if err != nil {
		return values.MachineValue{}, err
	}
	return cell.Extract()
}
