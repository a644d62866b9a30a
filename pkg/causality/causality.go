// Package causality is the public facade over the core-provided
// interfaces of spec.md §6.2: the machine, the resource heap, the
// expression store, the Layer 1 → Layer 0 compiler, and the effect
// compiler. It re-exports just enough of each internal package that a
// host application never needs to import internal/* directly, mirroring
// the teacher's pkg/dwscript facade over its own internal interpreter and
// bytecode packages.
package causality

import (
	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/compiler"
	"github.com/causality-labs/causality/internal/effect"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/heap"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/obslog"
	"github.com/causality-labs/causality/internal/values"
	"github.com/sirupsen/logrus"
)

// Re-exported id aliases, so a caller never needs to import internal/ca
// just to name an id type.
type (
	EntityId      = ca.EntityId
	ResourceId    = ca.ResourceId
	ExprId        = ca.ExprId
	EffectId      = ca.EffectId
	HandlerId     = ca.HandlerId
	IntentId      = ca.IntentId
	TransactionId = ca.TransactionId
	DomainId      = ca.DomainId
)

// Re-exported value/record types a caller builds transactions out of.
type (
	MachineValue = values.MachineValue
	Linearity    = values.Linearity

	// Result is a compiled program plus the side tables (constant
	// registers, morphisms) a Machine must Seed before Run/Trace.
	Result = compiler.Result

	Resource     = effect.Resource
	Intent       = effect.Intent
	Effect       = effect.Effect
	Handler      = effect.Handler
	Transaction  = effect.Transaction
	ResourceFlow = effect.ResourceFlow
	TypedDomain  = effect.TypedDomain
)

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithHasher selects a non-default content hasher (e.g. ca.HasherCircuit)
// for every id derived by this runtime.
func WithHasher(h ca.Hasher) Option { return func(r *Runtime) { r.hasher = h } }

// WithLogger attaches a non-silent logger (see internal/obslog.WithOutput)
// to the runtime's machine runs and handler resolution.
func WithLogger(l *logrus.Logger) Option { return func(r *Runtime) { r.logger = l } }

// Runtime bundles the expression store, effect-entity store, and handler
// registry a host application threads together to build and compile
// transactions. It holds no machine state itself — Execute and
// ExecuteTransaction each construct a fresh machine.MachineState per call,
// matching the §5 concurrency model ("machines share no mutable state").
type Runtime struct {
	hasher ca.Hasher
	logger *logrus.Logger

	Exprs    *expr.Store
	Entities *effect.Store
	Handlers *effect.HandlerRegistry
}

// NewRuntime constructs a Runtime with empty stores and registry.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{hasher: ca.Default(), logger: obslog.New()}
	for _, opt := range opts {
		opt(r)
	}
	r.Exprs = expr.NewWithHasher(r.hasher)
	r.Entities = effect.NewWithHasher(r.hasher)
	r.Handlers = effect.NewHandlerRegistry(r.Entities).WithLogger(r.logger)
	return r
}

// CompileExpr compiles the Layer 1 term named by id to a Layer 0 program
// (spec.md §6.2's `compile(store, expr_id) -> [instr]`).
func (r *Runtime) CompileExpr(id ca.ExprId) (*compiler.Result, error) {
	return compiler.Compile(r.Exprs, r.hasher, id)
}

// CompileTransaction resolves tx's effects against the runtime's handler
// registry and compiles the result to a Layer 0 program (spec.md §6.2's
// `compile_transaction(tx) -> [instr]`).
func (r *Runtime) CompileTransaction(tx Transaction) (*compiler.Result, error) {
	return effect.CompileTransaction(r.Exprs, r.hasher, r.Entities, r.Handlers, tx)
}

// Execute compiles id and runs it to completion on a fresh machine,
// seeded with the compiled program's constants and morphisms. h, if
// non-nil, is shared with the new machine as its resource heap (so a
// caller can inspect allocations across multiple Execute calls); a nil h
// gets a fresh empty heap.
func (r *Runtime) Execute(id ca.ExprId, h *heap.Heap) (MachineValue, error) {
	result, err := r.CompileExpr(id)
	if err != nil {
		return MachineValue{}, err
	}
	return r.run(result, h)
}

// ExecuteTransaction compiles and runs tx the same way Execute runs a
// bare expression.
func (r *Runtime) ExecuteTransaction(tx Transaction, h *heap.Heap) (MachineValue, error) {
	result, err := r.CompileTransaction(tx)
	if err != nil {
		return MachineValue{}, err
	}
	return r.run(result, h)
}

func (r *Runtime) run(result *compiler.Result, h *heap.Heap) (MachineValue, error) {
	opts := []machine.Option{machine.WithHasher(r.hasher), machine.WithLogger(r.logger)}
	if h != nil {
		opts = append(opts, machine.WithHeap(h))
	}
	ms := machine.NewMachineState(result.Program, opts...)
	if err := result.Seed(ms); err != nil {
		return MachineValue{}, err
	}
	return machine.Run(ms, machine.DefaultMaxSteps)
}
