// Package types implements the Layer 1 type language: base/product/sum/
// linear-function/record-with-rows/session/transform/located types, each
// carrying a linearity tag (spec.md §3 "Layer 1 types", §4.7).
package types

import (
	"fmt"
	"strings"

	"github.com/causality-labs/causality/internal/values"
)

// Kind is a closed enumeration over the eight Layer 1 type constructors.
type Kind uint8

const (
	KindBase Kind = iota
	KindProduct
	KindSum
	KindLinearFunction
	KindRecord
	KindSession
	KindTransform
	KindLocated
)

// BaseKind enumerates the four primitive base types.
type BaseKind uint8

const (
	BaseUnit BaseKind = iota
	BaseBool
	BaseInt
	BaseSymbol
)

func (b BaseKind) String() string {
	switch b {
	case BaseUnit:
		return "unit"
	case BaseBool:
		return "bool"
	case BaseInt:
		return "int"
	case BaseSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// RowVar names an open row's polymorphic tail.
type RowVar string

// Field is one named field of a record type.
type Field struct {
	Name string
	Type *Type
}

// Location names where a value or computation lives, per spec.md §4.7's
// location tracking. Left abstract (a string) since the domain registry
// that interprets it is an external collaborator (spec.md §6.1).
type Location string

// Type is every Layer 1 type expression, represented as a tagged struct
// (the same closed-variant style as values.Primitive and values.MachineValue)
// rather than an interface hierarchy, since the variant set is closed.
type Type struct {
	kind      Kind
	linearity values.Linearity

	base BaseKind

	// Product/Sum/LinearFunction operands; Transform uses left=in, right=out.
	left, right *Type

	fields []Field
	row    *RowVar

	session *Session

	location Location
	// Located's wrapped type.
	inner *Type
}

// Linearity reports the type's linearity tag.
func (t *Type) Linearity() values.Linearity { return t.linearity }

// Kind reports which of the eight constructors this type is.
func (t *Type) Kind() Kind { return t.kind }

// Base constructs a base type.
func Base(kind BaseKind, linearity values.Linearity) *Type {
	return &Type{kind: KindBase, base: kind, linearity: linearity}
}

// Product constructs a (possibly heterogeneous-linearity) pair type.
func Product(left, right *Type, linearity values.Linearity) *Type {
	return &Type{kind: KindProduct, left: left, right: right, linearity: linearity}
}

// Sum constructs a disjoint-union type.
func Sum(left, right *Type, linearity values.Linearity) *Type {
	return &Type{kind: KindSum, left: left, right: right, linearity: linearity}
}

// LinearFunction constructs a function type from domain to codomain.
func LinearFunction(domain, codomain *Type, linearity values.Linearity) *Type {
	return &Type{kind: KindLinearFunction, left: domain, right: codomain, linearity: linearity}
}

// Record constructs a record type, optionally with an open row variable.
func Record(fields []Field, row *RowVar, linearity values.Linearity) *Type {
	return &Type{kind: KindRecord, fields: append([]Field(nil), fields...), row: row, linearity: linearity}
}

// SessionType wraps a session protocol as a type.
func SessionType(s *Session, linearity values.Linearity) *Type {
	return &Type{kind: KindSession, session: s, linearity: linearity}
}

// TransformType constructs a morphism type from in to out, annotated with
// the location it executes at.
func TransformType(in, out *Type, location Location, linearity values.Linearity) *Type {
	return &Type{kind: KindTransform, left: in, right: out, location: location, linearity: linearity}
}

// Located wraps inner with a location annotation.
func Located(inner *Type, location Location, linearity values.Linearity) *Type {
	return &Type{kind: KindLocated, inner: inner, location: location, linearity: linearity}
}

// Operands returns the left/right operands of Product, Sum,
// LinearFunction, or Transform; nil otherwise.
func (t *Type) Operands() (left, right *Type) { return t.left, t.right }

// BaseKind returns the base kind; only meaningful if Kind() == KindBase.
func (t *Type) BaseKind() BaseKind { return t.base }

// Fields returns the record's declared fields; only meaningful if
// Kind() == KindRecord.
func (t *Type) Fields() []Field { return t.fields }

// Row returns the record's open row variable, or nil if it is closed.
func (t *Type) Row() *RowVar { return t.row }

// Session returns the wrapped session; only meaningful if Kind() == KindSession.
func (t *Type) Session() *Session { return t.session }

// Loc returns the location annotation carried by Transform or Located.
func (t *Type) Loc() Location { return t.location }

// Inner returns Located's wrapped type.
func (t *Type) Inner() *Type { return t.inner }

// Equal implements structural type equality, linearity included.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.kind != other.kind || t.linearity != other.linearity {
		return false
	}
	switch t.kind {
	case KindBase:
		return t.base == other.base
	case KindProduct, KindSum, KindLinearFunction, KindTransform:
		if t.kind == KindTransform && t.location != other.location {
			return false
		}
		return t.left.Equal(other.left) && t.right.Equal(other.right)
	case KindRecord:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != other.fields[i].Name || !t.fields[i].Type.Equal(other.fields[i].Type) {
				return false
			}
		}
		if (t.row == nil) != (other.row == nil) {
			return false
		}
		return t.row == nil || *t.row == *other.row
	case KindSession:
		return t.session.Equal(other.session)
	case KindLocated:
		return t.location == other.location && t.inner.Equal(other.inner)
	default:
		return false
	}
}

// String pretty-prints the type for diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.kind {
	case KindBase:
		return t.base.String()
	case KindProduct:
		return fmt.Sprintf("(%s ⊗ %s)", t.left, t.right)
	case KindSum:
		return fmt.Sprintf("(%s + %s)", t.left, t.right)
	case KindLinearFunction:
		return fmt.Sprintf("(%s ⊸ %s)", t.left, t.right)
	case KindRecord:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		row := ""
		if t.row != nil {
			row = " | " + string(*t.row)
		}
		return "{" + strings.Join(parts, ", ") + row + "}"
	case KindSession:
		return t.session.String()
	case KindTransform:
		return fmt.Sprintf("(%s -> %s @ %s)", t.left, t.right, t.location)
	case KindLocated:
		return fmt.Sprintf("%s @ %s", t.inner, t.location)
	default:
		return "<invalid type>"
	}
}
