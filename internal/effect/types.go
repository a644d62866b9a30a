// Package effect implements the Layer 2 effect algebra: intents, effects,
// handlers, and transactions as content-addressed records that compile
// down through Layer 1 (spec.md §3 "Layer 2 entities", §4.10).
package effect

import (
	"github.com/causality-labs/causality/internal/ca"
)

// ResourceFlow annotates one input or output of an intent or effect: how
// much of which resource type moves through which domain.
type ResourceFlow struct {
	ResourceType string
	Quantity     int64
	DomainId     ca.DomainId
}

func (f ResourceFlow) Canonical() ([]byte, error) {
	return ca.NewEncoder().String(f.ResourceType).Int64(f.Quantity).ID(f.DomainId).Finish(), nil
}

func encodeFlows(enc *ca.Encoder, flows []ResourceFlow) (*ca.Encoder, error) {
	enc.Uint32(uint32(len(flows)))
	for _, f := range flows {
		b, err := f.Canonical()
		if err != nil {
			return nil, err
		}
		enc.Bytes(b)
	}
	return enc, nil
}

// encodeOptionalExpr encodes an Option<ExprId>: a presence byte followed
// by the id if present, so Canonical stays a pure function of the zero
// value too (an absent expression is not the same content as ca.Zero).
func encodeOptionalExpr(enc *ca.Encoder, id *ca.ExprId) *ca.Encoder {
	if id == nil {
		return enc.Bool(false)
	}
	return enc.Bool(true).ID(*id)
}

// Resource is the Layer 2 record describing a heap-backed value's
// metadata (spec.md's Resource: id, name, domain, type, quantity,
// timestamp). internal/heap owns the value itself; Resource is the
// reference record a caller hashes to obtain the id.
type Resource struct {
	Name         string
	DomainId     ca.DomainId
	ResourceType string
	Quantity     int64
	Timestamp    int64
}

func (r Resource) Canonical() ([]byte, error) {
	return ca.NewEncoder().
		String(r.Name).ID(r.DomainId).String(r.ResourceType).
		Int64(r.Quantity).Int64(r.Timestamp).Finish(), nil
}

// Id derives the resource's content-addressed id from its canonical form.
func (r Resource) Id(hasher ca.Hasher) (ca.ResourceId, error) {
	return ca.EncodeContent(hasher, r)
}

// Intent is a desired outcome: input/output flows, a priority used the
// same way a Handler's priority is (spec.md §4.10's conflict resolution),
// and an optional expression/hint pointing into the Layer 1 store.
type Intent struct {
	Inputs     []ResourceFlow
	Outputs    []ResourceFlow
	Priority   int32
	Expression *ca.ExprId
	Hint       *ca.ExprId
}

func (it Intent) Canonical() ([]byte, error) {
	enc := ca.NewEncoder()
	if _, err := encodeFlows(enc, it.Inputs); err != nil {
		return nil, err
	}
	if _, err := encodeFlows(enc, it.Outputs); err != nil {
		return nil, err
	}
	enc.Int32(it.Priority)
	encodeOptionalExpr(enc, it.Expression)
	encodeOptionalExpr(enc, it.Hint)
	return enc.Finish(), nil
}

func (it Intent) Id(hasher ca.Hasher) (ca.IntentId, error) {
	return ca.EncodeContent(hasher, it)
}

// Effect is a computational step: the same shape as Intent plus the
// effect_type a Handler resolves against and the DomainId its handler
// compiles against — the domain whose TypedDomain classification the
// compiler consults to decide whether the handler body may allocate a
// resource (internal/effect's compiler, SPEC_FULL.md §3.8). The zero
// DomainId means the effect is not bound to any domain's restrictions.
type Effect struct {
	EffectType string
	Inputs     []ResourceFlow
	Outputs    []ResourceFlow
	Priority   int32
	Expression *ca.ExprId
	Hint       *ca.ExprId
	DomainId   ca.DomainId
}

func (e Effect) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().String(e.EffectType)
	if _, err := encodeFlows(enc, e.Inputs); err != nil {
		return nil, err
	}
	if _, err := encodeFlows(enc, e.Outputs); err != nil {
		return nil, err
	}
	enc.Int32(e.Priority)
	encodeOptionalExpr(enc, e.Expression)
	encodeOptionalExpr(enc, e.Hint)
	enc.ID(e.DomainId)
	return enc.Finish(), nil
}

func (e Effect) Id(hasher ca.Hasher) (ca.EffectId, error) {
	return ca.EncodeContent(hasher, e)
}

// Handler is policy for an effect type: which type it handles, at what
// priority, and the Layer 1 expression implementing the policy. A
// handler's expression is applied to the effect's own expression when a
// transaction compiles (spec.md §4.10).
type Handler struct {
	HandlesType string
	Priority    int32
	Expression  ca.ExprId
}

func (h Handler) Canonical() ([]byte, error) {
	return ca.NewEncoder().String(h.HandlesType).Int32(h.Priority).ID(h.Expression).Finish(), nil
}

func (h Handler) Id(hasher ca.Hasher) (ca.HandlerId, error) {
	return ca.EncodeContent(hasher, h)
}

// Transaction bundles effects and intents (referenced by id, resolved
// against a Store) plus its own top-level flows.
type Transaction struct {
	Effects []ca.EffectId
	Intents []ca.IntentId
	Inputs  []ResourceFlow
	Outputs []ResourceFlow
}

func (tx Transaction) Canonical() ([]byte, error) {
	enc := ca.NewEncoder()
	enc.Uint32(uint32(len(tx.Effects)))
	for _, id := range tx.Effects {
		enc.ID(id)
	}
	enc.Uint32(uint32(len(tx.Intents)))
	for _, id := range tx.Intents {
		enc.ID(id)
	}
	if _, err := encodeFlows(enc, tx.Inputs); err != nil {
		return nil, err
	}
	if _, err := encodeFlows(enc, tx.Outputs); err != nil {
		return nil, err
	}
	return enc.Finish(), nil
}

func (tx Transaction) Id(hasher ca.Hasher) (ca.TransactionId, error) {
	return ca.EncodeContent(hasher, tx)
}

// DomainKind is the closed enumeration TypedDomain tags itself with.
type DomainKind uint8

const (
	DomainVerifiable DomainKind = iota
	DomainService
	DomainCompute
)

// TypedDomain classifies a DomainId as Verifiable, Service, or Compute
// (spec.md's TypedDomain sum). Only the fields of the active variant are
// meaningful; this mirrors internal/values.Primitive's closed-tag-over-
// payload shape rather than an interface hierarchy, for the same reason:
// the variant set is fixed and exhaustive, never extended by a plugin.
//
// The compiler (internal/effect's CompileTransaction) consults
// AllowsNonDeterminism before accepting a handler whose body allocates a
// resource (the one construct whose runtime id is not a pure function of
// the term graph — internal/heap mints a fresh random nonce per
// allocation) against an Effect bound to this domain — a read-only check,
// not a policy engine (policy enforcement itself is an external
// collaborator, spec.md §1 Non-goals).
type TypedDomain struct {
	Kind DomainKind

	// Verifiable
	ZKConstraints     int64
	DeterministicOnly bool

	// Service
	ExternalAPIs            []string
	NonDeterministicAllowed bool

	// Compute
	ComputeIntensive  bool
	ParallelExecution bool
}

// AllowsNonDeterminism reports whether a handler body compiled against
// this domain may contain a non-deterministic construct.
func (d TypedDomain) AllowsNonDeterminism() bool {
	switch d.Kind {
	case DomainVerifiable:
		return !d.DeterministicOnly
	case DomainService:
		return d.NonDeterministicAllowed
	case DomainCompute:
		return true
	default:
		return false
	}
}

func (d TypedDomain) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().Uint8(uint8(d.Kind)).
		Int64(d.ZKConstraints).Bool(d.DeterministicOnly).
		Bool(d.NonDeterministicAllowed).
		Bool(d.ComputeIntensive).Bool(d.ParallelExecution)
	enc.Uint32(uint32(len(d.ExternalAPIs)))
	for _, api := range d.ExternalAPIs {
		enc.String(api)
	}
	return enc.Finish(), nil
}

// Id derives the domain's content-addressed id from its canonical form,
// the same rule as every other Layer 2 record.
func (d TypedDomain) Id(hasher ca.Hasher) (ca.DomainId, error) {
	return ca.EncodeContent(hasher, d)
}
