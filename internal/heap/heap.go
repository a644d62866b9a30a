// Package heap implements the linear resource heap: allocate once, consume
// once (spec.md §3 "Resource heap", §4.3).
package heap

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
	"github.com/google/uuid"
)

type entry struct {
	value    values.MachineValue
	consumed bool
}

// Heap is a linear mapping ResourceId -> (value, consumed). Invariants
// (spec.md §4.3): insert-once, single-consume, and post-consume reads
// return "not available" indistinguishable from "never existed".
type Heap struct {
	hasher  ca.Hasher
	entries map[ca.ResourceId]*entry
}

// New constructs an empty Heap using the default content hasher.
func New() *Heap {
	return NewWithHasher(ca.Default())
}

// NewWithHasher constructs an empty Heap using the given Hasher.
func NewWithHasher(hasher ca.Hasher) *Heap {
	return &Heap{hasher: hasher, entries: make(map[ca.ResourceId]*entry)}
}

// canonicalAlloc is the canonical encoding hashed to derive a freshly
// allocated resource's id: the value's own canonical encoding plus a
// per-allocation nonce. The nonce is what spec.md §9 requires: independent
// allocations of structurally equal values must still yield distinct ids.
type canonicalAlloc struct {
	value values.MachineValue
	nonce uuid.UUID
}

func (c canonicalAlloc) Canonical() ([]byte, error) {
	valueBytes, err := c.value.Canonical()
	if err != nil {
		return nil, err
	}
	nonceBytes, err := c.nonce.MarshalBinary()
	if err != nil {
		return nil, causalityerrors.SerializationError("nonce: %v", err)
	}
	return ca.NewEncoder().Bytes(valueBytes).Bytes(nonceBytes).Finish(), nil
}

// Alloc allocates a new linear resource holding value and returns its fresh
// ResourceId. Two allocations of the same value never collide: each draws a
// fresh random nonce (spec.md §9's resource-id derivation rule).
func (h *Heap) Alloc(value values.MachineValue) (ca.ResourceId, error) {
	nonce := uuid.New()
	id, err := ca.EncodeContent(h.hasher, canonicalAlloc{value: value, nonce: nonce})
	if err != nil {
		return ca.Zero, err
	}
	// A nonce collision is cryptographically implausible; guard it anyway
	// so Alloc's "insert-once" invariant cannot silently be violated.
	if _, exists := h.entries[id]; exists {
		return ca.Zero, causalityerrors.MachineError("resource id collision on alloc: %s", id)
	}
	h.entries[id] = &entry{value: value}
	return id, nil
}

// Consume consumes the resource named by id, returning its value. Fails if
// the resource is absent or already consumed.
func (h *Heap) Consume(id ca.ResourceId) (values.MachineValue, error) {
	e, ok := h.entries[id]
	if !ok {
		return values.MachineValue{}, causalityerrors.InvalidResource(id.ToHex())
	}
	if e.consumed {
		return values.MachineValue{}, causalityerrors.DoubleSpend(id.ToHex())
	}
	e.consumed = true
	return e.value, nil
}

// GetValue returns the resource's value, or ok=false if it is absent or
// already consumed — spec.md §4.3's "not available" is indistinguishable
// from "never existed" by design.
func (h *Heap) GetValue(id ca.ResourceId) (values.MachineValue, bool) {
	e, ok := h.entries[id]
	if !ok || e.consumed {
		return values.MachineValue{}, false
	}
	return e.value, true
}

// IsConsumed reports whether id names a resource that has been consumed.
// Returns false for an id that was never allocated.
func (h *Heap) IsConsumed(id ca.ResourceId) bool {
	e, ok := h.entries[id]
	return ok && e.consumed
}
