package causality

import (
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/heap"
	"github.com/causality-labs/causality/internal/machine"
)

// Re-exported so a caller assembling a program by hand (rather than
// compiling one from a Layer 1 term) never needs internal/machine.
type (
	Instruction = machine.Instruction
	Program     = machine.Program
	RegisterId  = machine.RegisterId
	Transform   = machine.Transform
	Alloc       = machine.Alloc
	Consume     = machine.Consume
	Compose     = machine.Compose
	Tensor      = machine.Tensor

	Node = expr.Node
)

// Machine wraps machine.MachineState, exposing exactly spec.md §6.2's
// Machine interface: new/step/run/trace.
type Machine struct {
	state *machine.MachineState
}

// NewMachine constructs a Machine ready to run program.
func NewMachine(program Program, opts ...machine.Option) *Machine {
	return &Machine{state: machine.NewMachineState(program, opts...)}
}

// Step executes exactly one instruction.
func (m *Machine) Step() error {
	return machine.Step(m.state)
}

// Run drives the machine to completion (or Timeout past maxSteps; <= 0
// selects the default bound).
func (m *Machine) Run(maxSteps int) (MachineValue, error) {
	return machine.Run(m.state, maxSteps)
}

// Trace behaves like Run but also returns every instruction executed, in
// order — for inspection/debugging, not part of the deterministic result.
func (m *Machine) Trace(maxSteps int) (MachineValue, []Instruction, error) {
	return machine.Trace(m.state, maxSteps)
}

// State exposes the underlying machine.MachineState for callers that need
// direct register access (e.g. seeding a compiler.Result, or reading a
// register the transaction didn't surface as its final result).
func (m *Machine) State() *machine.MachineState {
	return m.state
}

// Heap wraps heap.Heap, exposing exactly spec.md §6.2's Resource heap
// interface: alloc/consume/get/is_consumed.
type Heap struct {
	h *heap.Heap
}

// NewHeap constructs an empty Heap using the default content hasher.
func NewHeap() *Heap {
	return &Heap{h: heap.New()}
}

// Alloc allocates value, returning its fresh ResourceId.
func (h *Heap) Alloc(value MachineValue) (ResourceId, error) {
	return h.h.Alloc(value)
}

// Consume consumes the resource named by id, returning its value.
func (h *Heap) Consume(id ResourceId) (MachineValue, error) {
	return h.h.Consume(id)
}

// Get returns the resource's value without consuming it, or ok=false if
// absent or already consumed.
func (h *Heap) Get(id ResourceId) (MachineValue, bool) {
	return h.h.GetValue(id)
}

// IsConsumed reports whether id names an already-consumed resource.
func (h *Heap) IsConsumed(id ResourceId) bool {
	return h.h.IsConsumed(id)
}

// ExprStore wraps expr.Store, exposing exactly spec.md §6.2's Expression
// store interface: store/retrieve/contains.
type ExprStore struct {
	s *expr.Store
}

// NewExprStore constructs an empty ExprStore using the default hasher.
func NewExprStore() *ExprStore {
	return &ExprStore{s: expr.New()}
}

// Inner exposes the underlying *expr.Store for callers building terms via
// its smart constructors (Var, Lambda, Apply, ...), which this facade does
// not re-expose one by one since there are two dozen of them.
func (s *ExprStore) Inner() *expr.Store { return s.s }

// Store inserts n, returning its content-addressed id.
func (s *ExprStore) Store(n Node) (ExprId, error) { return s.s.Store(n) }

// Retrieve returns the node named by id, or ok=false if absent.
func (s *ExprStore) Retrieve(id ExprId) (Node, bool) { return s.s.Retrieve(id) }

// Contains reports whether id has been stored.
func (s *ExprStore) Contains(id ExprId) bool { return s.s.Contains(id) }
