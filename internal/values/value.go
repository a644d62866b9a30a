package values

import (
	"github.com/causality-labs/causality/internal/ca"
)

// ValueKind is a closed enumeration over the five MachineValue variants.
type ValueKind uint8

const (
	KindPrimitive ValueKind = iota
	KindResourceRef
	KindExprRef
	KindEffectRef
	KindValueRef
)

func (k ValueKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindResourceRef:
		return "resource-ref"
	case KindExprRef:
		return "expr-ref"
	case KindEffectRef:
		return "effect-ref"
	case KindValueRef:
		return "value-ref"
	default:
		return "unknown"
	}
}

// MachineValue is one of: Primitive(core), ResourceRef(EntityId),
// ExprRef(EntityId), EffectRef(EntityId), ValueRef(EntityId) — the closed
// universe of machine values spec.md §3 defines. Equality for references is
// id equality; for primitives it is structural equality (§4.2).
type MachineValue struct {
	kind ValueKind
	prim Primitive
	ref  ca.EntityId
}

// FromPrimitive wraps a Primitive as a MachineValue.
func FromPrimitive(p Primitive) MachineValue {
	return MachineValue{kind: KindPrimitive, prim: p}
}

// ResourceRef constructs a reference to a heap-allocated resource.
func ResourceRef(id ca.ResourceId) MachineValue {
	return MachineValue{kind: KindResourceRef, ref: id}
}

// ExprRef constructs a reference to a stored expression.
func ExprRef(id ca.ExprId) MachineValue {
	return MachineValue{kind: KindExprRef, ref: id}
}

// EffectRef constructs a reference to an effect record.
func EffectRef(id ca.EffectId) MachineValue {
	return MachineValue{kind: KindEffectRef, ref: id}
}

// ValueRef constructs a reference to an opaque content-addressed value.
func ValueRef(id ca.EntityId) MachineValue {
	return MachineValue{kind: KindValueRef, ref: id}
}

// Kind reports which of the five variants this value is.
func (v MachineValue) Kind() ValueKind { return v.kind }

// IsPrimitive reports whether this value wraps a Primitive.
func (v MachineValue) IsPrimitive() bool { return v.kind == KindPrimitive }

// Primitive returns the wrapped Primitive; only meaningful if IsPrimitive().
func (v MachineValue) Primitive() Primitive { return v.prim }

// RefId returns the wrapped EntityId for any of the four reference kinds;
// only meaningful if Kind() != KindPrimitive.
func (v MachineValue) RefId() ca.EntityId { return v.ref }

// Equal implements spec.md §4.2's equality rule: structural equality for
// primitives, id equality for references.
func (v MachineValue) Equal(other MachineValue) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindPrimitive {
		return v.prim.Equal(other.prim)
	}
	return v.ref.Equal(other.ref)
}

// String pretty-prints the value.
func (v MachineValue) String() string {
	switch v.kind {
	case KindPrimitive:
		return v.prim.String()
	case KindResourceRef:
		return "resource:" + v.ref.ToHex()
	case KindExprRef:
		return "expr:" + v.ref.ToHex()
	case KindEffectRef:
		return "effect:" + v.ref.ToHex()
	case KindValueRef:
		return "value:" + v.ref.ToHex()
	default:
		return "<invalid value>"
	}
}

// Canonical implements ca.Encodable.
func (v MachineValue) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().Uint8(uint8(v.kind))
	if v.kind == KindPrimitive {
		body, err := v.prim.Canonical()
		if err != nil {
			return nil, err
		}
		enc.Bytes(body)
	} else {
		enc.ID(v.ref)
	}
	return enc.Finish(), nil
}

// SimpleType is a closed, simplified type placeholder returned by GetType
// for a MachineValue: for primitives it names the primitive kind; for
// references it reports a generic placeholder naming the reference kind,
// per spec.md §4.2's "non-primitive refs report a generic type placeholder".
type SimpleType struct {
	Name string
}

// GetType returns the simplified, closed-form type of a machine value.
func GetType(v MachineValue) SimpleType {
	if v.IsPrimitive() {
		return SimpleType{Name: v.Primitive().Kind().String()}
	}
	return SimpleType{Name: v.Kind().String()}
}
