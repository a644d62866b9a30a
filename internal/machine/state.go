package machine

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/heap"
	"github.com/causality-labs/causality/internal/obslog"
	"github.com/causality-labs/causality/internal/values"
	"github.com/sirupsen/logrus"
)

// MachineState is spec.md §3's machine-state record: registers, heap,
// nullifiers, program counter, call stack, program, and a halted flag.
// Two side tables (morphisms, pairs) hold the content-addressed composite
// values Transform/Compose/Tensor produce, since MachineValue's five
// variants have no dedicated slot for either (morphism.go, pair.go).
type MachineState struct {
	Registers  *RegisterFile
	Heap       *heap.Heap
	Nullifiers heap.NullifierSet
	PC         int
	CallStack  []int
	Program    []Instruction
	Halted     bool

	hasher    ca.Hasher
	morphisms map[ca.EntityId]*Morphism
	pairs     map[ca.EntityId]Pair
	tick      uint64
	logger    *logrus.Logger
}

// Option configures a MachineState at construction time, following the
// teacher's NewVMWithOutput constructor-with-options idiom.
type Option func(*MachineState)

// WithHeap overrides the default empty heap, e.g. to share one heap across
// a nested closure invocation.
func WithHeap(h *heap.Heap) Option { return func(ms *MachineState) { ms.Heap = h } }

// WithNullifierSet overrides the default in-memory nullifier set.
func WithNullifierSet(n heap.NullifierSet) Option {
	return func(ms *MachineState) { ms.Nullifiers = n }
}

// WithHasher overrides the default content hasher.
func WithHasher(h ca.Hasher) Option { return func(ms *MachineState) { ms.hasher = h } }

// WithLogger overrides the default silent logger with one that observes
// step traces (see internal/obslog).
func WithLogger(l *logrus.Logger) Option { return func(ms *MachineState) { ms.logger = l } }

func withSharedMorphisms(m map[ca.EntityId]*Morphism) Option {
	return func(ms *MachineState) { ms.morphisms = m }
}

func withSharedPairs(p map[ca.EntityId]Pair) Option {
	return func(ms *MachineState) { ms.pairs = p }
}

// NewMachineState constructs a fresh MachineState ready to run program.
func NewMachineState(program []Instruction, opts ...Option) *MachineState {
	ms := &MachineState{
		Registers:  NewRegisterFile(),
		Heap:       heap.New(),
		Nullifiers: heap.NewInMemorySet(),
		Program:    program,
		hasher:     ca.Default(),
		morphisms:  make(map[ca.EntityId]*Morphism),
		pairs:      make(map[ca.EntityId]Pair),
		logger:     obslog.New(),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// SetRegister seeds id with value at the given linearity, stamped with the
// state's current logical tick. Used by callers (tests, the compiler) to
// populate a program's initial registers before running it.
func (ms *MachineState) SetRegister(id RegisterId, value values.MachineValue, linearity values.Linearity) error {
	return ms.Registers.Write(id, values.NewCell(value, linearity, ms.tick))
}

// Hasher returns the content hasher this state was constructed with, for
// callers outside the package (e.g. the compiler's closure-maker built-ins)
// that must content-address a value using the same hasher as the rest of
// the run.
func (ms *MachineState) Hasher() ca.Hasher { return ms.hasher }

// RegisterMorphism installs m in the state's morphism table, keyed by its
// content id, so later instructions can resolve a ValueRef/EffectRef to it.
func (ms *MachineState) RegisterMorphism(m *Morphism) {
	ms.morphisms[m.ID] = m
}

// Morphism looks up a previously registered morphism by id.
func (ms *MachineState) Morphism(id ca.EntityId) (*Morphism, bool) {
	m, ok := ms.morphisms[id]
	return m, ok
}

// Pair looks up a previously produced paired value by id.
func (ms *MachineState) Pair(id ca.EntityId) (Pair, bool) {
	p, ok := ms.pairs[id]
	return p, ok
}

// MakePair content-addresses (left, right) as a pair, registers it in the
// side table, and returns the ValueRef a register can hold — the same
// construction Tensor's execTensor performs, exported so built-ins defined
// outside this package (row construction, sum injection) can produce pairs.
func (ms *MachineState) MakePair(left, right values.MachineValue) (values.MachineValue, error) {
	id, err := pairId(ms.hasher, left, right)
	if err != nil {
		return values.MachineValue{}, err
	}
	ms.pairs[id] = Pair{Left: left, Right: right}
	return values.ValueRef(id), nil
}

// runSubProgram runs a closure or compiled-effect morphism's body as a
// nested machine sharing this state's heap, nullifier set, and side
// tables. This is the Go-level stand-in for spec.md §4.9's "tensor of
// captured environment and code pointer": rather than splicing the body
// into the parent program and pushing/popping CallStack, each application
// of a program morphism runs to completion in its own MachineState before
// Transform's instruction step returns (machine.md §4.6's "every
// instruction either completes or fails in one step" still holds from the
// caller's point of view).
func (ms *MachineState) runSubProgram(m *Morphism, input values.MachineValue) (values.MachineValue, error) {
	child := NewMachineState(m.body,
		WithHeap(ms.Heap),
		WithNullifierSet(ms.Nullifiers),
		WithHasher(ms.hasher),
		WithLogger(ms.logger),
		withSharedMorphisms(ms.morphisms),
		withSharedPairs(ms.pairs),
	)
	for reg, cell := range m.env {
		if err := child.Registers.Write(reg, cell); err != nil {
			return values.MachineValue{}, err
		}
	}
	paramLinearity := values.Unrestricted
	if input.Kind() == values.KindResourceRef {
		paramLinearity = values.Linear
	}
	if err := child.SetRegister(m.paramReg, input, paramLinearity); err != nil {
		return values.MachineValue{}, err
	}
	result, err := Run(child, DefaultMaxSteps)
	if err != nil {
		return values.MachineValue{}, causalityerrors.AttachFrame(err, causalityerrors.NewStackFrame(ms.PC, m.Name))
	}
	return result, nil
}
