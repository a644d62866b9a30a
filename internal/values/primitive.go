package values

import (
	"strconv"

	"github.com/causality-labs/causality/internal/ca"
)

// PrimitiveKind is a closed enumeration of the four primitive value kinds.
// No floating point is represented anywhere in the value domain, per
// spec.md §1's non-goals.
type PrimitiveKind uint8

const (
	KindUnit PrimitiveKind = iota
	KindBool
	KindInt
	KindSymbol
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Primitive is one of the four closed machine-value primitives: unit, bool,
// a 32-bit signed int (wrapping on overflow, per spec.md §3), or a UTF-8
// symbol. It is a tagged struct rather than an interface hierarchy because
// the variant set is closed and small, matching the teacher's own pattern
// for closed enumerations (spec.md §9's "sum types and pattern match" note).
type Primitive struct {
	kind PrimitiveKind
	b    bool
	i    int32
	s    string
}

// Unit constructs the unit primitive.
func Unit() Primitive { return Primitive{kind: KindUnit} }

// Bool constructs a boolean primitive.
func Bool(b bool) Primitive { return Primitive{kind: KindBool, b: b} }

// Int constructs a 32-bit signed integer primitive.
func Int(i int32) Primitive { return Primitive{kind: KindInt, i: i} }

// Symbol constructs a UTF-8 symbol primitive.
func Symbol(s string) Primitive { return Primitive{kind: KindSymbol, s: s} }

// Kind reports which of the four primitives this is.
func (p Primitive) Kind() PrimitiveKind { return p.kind }

// AsBool returns the boolean payload; only meaningful when Kind() == KindBool.
func (p Primitive) AsBool() bool { return p.b }

// AsInt returns the integer payload; only meaningful when Kind() == KindInt.
func (p Primitive) AsInt() int32 { return p.i }

// AsSymbol returns the symbol payload; only meaningful when Kind() == KindSymbol.
func (p Primitive) AsSymbol() string { return p.s }

// Equal implements structural equality over primitives.
func (p Primitive) Equal(other Primitive) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case KindUnit:
		return true
	case KindBool:
		return p.b == other.b
	case KindInt:
		return p.i == other.i
	case KindSymbol:
		return p.s == other.s
	default:
		return false
	}
}

// String pretty-prints the primitive.
func (p Primitive) String() string {
	switch p.kind {
	case KindUnit:
		return "()"
	case KindBool:
		if p.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(int64(p.i), 10)
	case KindSymbol:
		return "'" + p.s
	default:
		return "<invalid primitive>"
	}
}

// Canonical implements ca.Encodable: a one-byte kind tag followed by the
// kind's fixed- or length-prefixed payload.
func (p Primitive) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().Uint8(uint8(p.kind))
	switch p.kind {
	case KindUnit:
	case KindBool:
		enc.Bool(p.b)
	case KindInt:
		enc.Int32(p.i)
	case KindSymbol:
		enc.String(p.s)
	}
	return enc.Finish(), nil
}

// AddWrapping adds two int primitives with 32-bit wrapping overflow, per
// spec.md §3's "Integer overflow policy: wrapping on Layer 0 arithmetic".
func AddWrapping(a, b Primitive) Primitive {
	return Int(a.i + b.i)
}

// SubWrapping subtracts with 32-bit wrapping overflow.
func SubWrapping(a, b Primitive) Primitive {
	return Int(a.i - b.i)
}

// MulWrapping multiplies with 32-bit wrapping overflow.
func MulWrapping(a, b Primitive) Primitive {
	return Int(a.i * b.i)
}
