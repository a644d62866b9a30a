// Package errors defines the error taxonomy surfaced at the boundary of
// every layer of the core: content addressing, the value domain, the
// register machine, the type system, the expression store, the compiler,
// and the effect algebra. Every error returned across a package boundary
// is one of the ten kinds below; none of them wrap a bare string.
package errors

import "fmt"

// LinearityViolationErr reports that a linear or affine value was used in a
// way its linearity tag forbids: read after consumption, a duplicated
// linear binding, or an overwrite of an unconsumed linear register cell.
type LinearityViolationErr struct {
	Message string
}

func (e *LinearityViolationErr) Error() string { return "linearity violation: " + e.Message }

// LinearityViolation constructs a LinearityViolationErr.
func LinearityViolation(format string, args ...any) *LinearityViolationErr {
	return &LinearityViolationErr{Message: fmt.Sprintf(format, args...)}
}

// InvalidResourceErr reports that a ResourceId does not resolve to a live
// (unconsumed, previously allocated) resource.
type InvalidResourceErr struct {
	ID string
}

func (e *InvalidResourceErr) Error() string { return "invalid resource: " + e.ID }

// InvalidResource constructs an InvalidResourceErr.
func InvalidResource(id string) *InvalidResourceErr { return &InvalidResourceErr{ID: id} }

// InvalidExpressionErr reports that an ExprId is not resolvable in the
// expression store, or that a term refers to a not-yet-inserted subterm.
type InvalidExpressionErr struct {
	ID string
}

func (e *InvalidExpressionErr) Error() string { return "invalid expression: " + e.ID }

// InvalidExpression constructs an InvalidExpressionErr.
func InvalidExpression(id string) *InvalidExpressionErr { return &InvalidExpressionErr{ID: id} }

// SerializationErr reports that a value could not be canonically encoded,
// or that a round-trip decode failed.
type SerializationErr struct {
	Message string
}

func (e *SerializationErr) Error() string { return "serialization error: " + e.Message }

// SerializationError constructs a SerializationErr.
func SerializationError(format string, args ...any) *SerializationErr {
	return &SerializationErr{Message: fmt.Sprintf(format, args...)}
}

// DomainErr reports a violation of domain policy (e.g. a migration whose
// target location is unreachable under the domain's rules). The policy
// itself is an external collaborator; this error only reports its verdict.
type DomainErr struct {
	Message string
}

func (e *DomainErr) Error() string { return "domain error: " + e.Message }

// DomainError constructs a DomainErr.
func DomainError(format string, args ...any) *DomainErr {
	return &DomainErr{Message: fmt.Sprintf(format, args...)}
}

// TypeErr reports a static type-checking failure: an ill-typed term, an
// unbound variable, or a row/session type mismatch.
type TypeErr struct {
	Message string
}

func (e *TypeErr) Error() string { return "type error: " + e.Message }

// TypeError constructs a TypeErr.
func TypeError(format string, args ...any) *TypeErr {
	return &TypeErr{Message: fmt.Sprintf(format, args...)}
}

// CompilationErr reports that the compiler encountered an extended
// construct it does not support, or an internal invariant it could not
// satisfy while lowering a term.
type CompilationErr struct {
	Message string
}

func (e *CompilationErr) Error() string { return "compilation error: " + e.Message }

// CompilationError constructs a CompilationErr.
func CompilationError(format string, args ...any) *CompilationErr {
	return &CompilationErr{Message: fmt.Sprintf(format, args...)}
}

// MachineErr reports an impossible register/PC condition: a missing
// register, a double-consume, a type mismatch between a morphism and its
// input, or a nullifier-store inconsistency. These are programming bugs,
// not recoverable user errors. Trace accumulates one StackFrame per nested
// closure/compiled-effect invocation the error unwound through (attached
// by AttachFrame as it propagates out of runSubProgram), so a failure deep
// inside an applied closure reports the call chain that led to it.
type MachineErr struct {
	Message string
	Trace   StackTrace
}

func (e *MachineErr) Error() string {
	if len(e.Trace) == 0 {
		return "machine error: " + e.Message
	}
	return "machine error: " + e.Message + "\n" + e.Trace.String()
}

// MachineError constructs a MachineErr.
func MachineError(format string, args ...any) *MachineErr {
	return &MachineErr{Message: fmt.Sprintf(format, args...)}
}

// DoubleSpendErr reports that a nullifier (or the resource it derives from)
// was already present in the nullifier set.
type DoubleSpendErr struct {
	ID string
}

func (e *DoubleSpendErr) Error() string { return "double spend: " + e.ID }

// DoubleSpend constructs a DoubleSpendErr.
func DoubleSpend(id string) *DoubleSpendErr { return &DoubleSpendErr{ID: id} }

// TimeoutErr reports that a run exceeded its bounded step count before
// halting.
type TimeoutErr struct {
	Steps int
}

func (e *TimeoutErr) Error() string { return fmt.Sprintf("timeout after %d steps", e.Steps) }

// Timeout constructs a TimeoutErr.
func Timeout(steps int) *TimeoutErr { return &TimeoutErr{Steps: steps} }
