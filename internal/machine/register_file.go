// Package machine implements the Layer 0 register machine: the register
// file, the five instructions, morphisms, and the bounded, deterministic
// reduction engine (spec.md §3, §4.5, §4.6).
package machine

import (
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
)

// RegisterId is a 32-bit non-negative register index. Register 0 is
// conventional for the program result (spec.md §3's "Register file").
type RegisterId uint32

// ResultRegister is the register a halted program's result is read from.
const ResultRegister RegisterId = 0

// RegisterFile is the mapping RegisterId -> *values.RegisterCell spec.md §3
// names. Only Read/Write/Cell/Has cross the package boundary; every other
// package sees registers only through MachineState.
type RegisterFile struct {
	cells map[RegisterId]*values.RegisterCell
}

// NewRegisterFile constructs an empty register file.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{cells: make(map[RegisterId]*values.RegisterCell)}
}

// Read returns the value currently held at id. Fails with MachineError if
// the register was never written, or if its cell is a consumed
// linear/affine cell (spec.md §3's register-file invariants).
func (rf *RegisterFile) Read(id RegisterId) (values.MachineValue, error) {
	cell, ok := rf.cells[id]
	if !ok {
		return values.MachineValue{}, causalityerrors.MachineError("register not found")
	}
	v, err := cell.Extract()
	if err != nil {
		return values.MachineValue{}, causalityerrors.MachineError("consumed")
	}
	return v, nil
}

// Cell returns the raw cell at id, for callers (the reducer) that need to
// finalize its consumption once an instruction that named it as an input
// has completed.
func (rf *RegisterFile) Cell(id RegisterId) (*values.RegisterCell, error) {
	cell, ok := rf.cells[id]
	if !ok {
		return nil, causalityerrors.MachineError("register not found")
	}
	return cell, nil
}

// Write installs cell at id, unconditionally. The one exception spec.md
// §4.5 calls out: a register holding an unconsumed linear cell may not be
// overwritten, since that would silently drop the linear value it owns.
func (rf *RegisterFile) Write(id RegisterId, cell *values.RegisterCell) error {
	if existing, ok := rf.cells[id]; ok {
		if existing.Linearity() == values.Linear && !existing.IsConsumed() {
			return causalityerrors.MachineError("cannot overwrite register holding an unconsumed linear value")
		}
	}
	rf.cells[id] = cell
	return nil
}

// Has reports whether id has ever been written.
func (rf *RegisterFile) Has(id RegisterId) bool {
	_, ok := rf.cells[id]
	return ok
}
