package machine

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
)

// pairOperand resolves a ValueRef operand against ms's pair table, failing
// with MachineError("type mismatch") if the operand isn't a known pair —
// the runtime check spec.md §4.5's error table calls for when "morphism
// arity or type disagrees with input".
func pairOperand(ms *MachineState, in values.MachineValue) (Pair, error) {
	if in.Kind() != values.KindValueRef {
		return Pair{}, causalityerrors.MachineError("type mismatch: expected a paired value")
	}
	p, ok := ms.pairs[in.RefId()]
	if !ok {
		return Pair{}, causalityerrors.MachineError("type mismatch: unknown paired value")
	}
	return p, nil
}

func intOperands(p Pair) (int32, int32, error) {
	if !p.Left.IsPrimitive() || p.Left.Primitive().Kind() != values.KindInt {
		return 0, 0, causalityerrors.MachineError("type mismatch: expected an int operand")
	}
	if !p.Right.IsPrimitive() || p.Right.Primitive().Kind() != values.KindInt {
		return 0, 0, causalityerrors.MachineError("type mismatch: expected an int operand")
	}
	return p.Left.Primitive().AsInt(), p.Right.Primitive().AsInt(), nil
}

// NewBuiltinMorphism constructs a custom built-in morphism from fn, content
// addressed by name. Exported so other packages (internal/compiler,
// internal/effect) can define domain-specific built-ins — field access, row
// operations, sum injection/elimination — without internal/machine needing
// to know about them ahead of time.
func NewBuiltinMorphism(hasher ca.Hasher, name string, fn BuiltinFn) (*Morphism, error) {
	return newBuiltin(hasher, name, fn)
}

// ResolvePair resolves a ValueRef operand against ms's pair table, the
// exported form of pairOperand for built-ins defined outside this package.
func ResolvePair(ms *MachineState, in values.MachineValue) (Pair, error) {
	return pairOperand(ms, in)
}

// IdentityMorphism is the identity built-in, Apply(x) = x. Its existence
// for every object is one of the category-theoretic laws spec.md §4.5
// requires as a testable property.
func IdentityMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "identity", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		return in, nil
	})
}

// IncrementMorphism adds one to an int primitive, wrapping on overflow.
func IncrementMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "increment", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		if !in.IsPrimitive() || in.Primitive().Kind() != values.KindInt {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: increment expects an int")
		}
		return values.FromPrimitive(values.AddWrapping(in.Primitive(), values.Int(1))), nil
	})
}

// DoubleMorphism doubles an int primitive, wrapping on overflow.
func DoubleMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "double", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		if !in.IsPrimitive() || in.Primitive().Kind() != values.KindInt {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: double expects an int")
		}
		return values.FromPrimitive(values.AddWrapping(in.Primitive(), in.Primitive())), nil
	})
}

// NegateMorphism negates an int primitive, wrapping on overflow.
func NegateMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "negate", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		if !in.IsPrimitive() || in.Primitive().Kind() != values.KindInt {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: negate expects an int")
		}
		return values.FromPrimitive(values.SubWrapping(values.Int(0), in.Primitive())), nil
	})
}

// AddMorphism adds the two int primitives held in a Tensor-produced pair.
func AddMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "add", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := pairOperand(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		if _, _, err := intOperands(p); err != nil {
			return values.MachineValue{}, err
		}
		return values.FromPrimitive(values.AddWrapping(p.Left.Primitive(), p.Right.Primitive())), nil
	})
}

// SubMorphism subtracts the right operand from the left of a
// Tensor-produced pair of int primitives.
func SubMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "sub", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := pairOperand(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		if _, _, err := intOperands(p); err != nil {
			return values.MachineValue{}, err
		}
		return values.FromPrimitive(values.SubWrapping(p.Left.Primitive(), p.Right.Primitive())), nil
	})
}

// MulMorphism multiplies the two int primitives held in a Tensor-produced
// pair.
func MulMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "mul", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := pairOperand(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		if _, _, err := intOperands(p); err != nil {
			return values.MachineValue{}, err
		}
		return values.FromPrimitive(values.MulWrapping(p.Left.Primitive(), p.Right.Primitive())), nil
	})
}

// EqualMorphism compares the two operands of a Tensor-produced pair by
// spec.md §4.2's value-equality rule (structural for primitives, id
// equality for references).
func EqualMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "equal", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := pairOperand(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		return values.FromPrimitive(values.Bool(p.Left.Equal(p.Right))), nil
	})
}

// NotMorphism negates a bool primitive.
func NotMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "not", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		if !in.IsPrimitive() || in.Primitive().Kind() != values.KindBool {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: not expects a bool")
		}
		return values.FromPrimitive(values.Bool(!in.Primitive().AsBool())), nil
	})
}

// BraidMorphism swaps the two components of a Tensor-produced pair — the
// "explicit braiding morphism" spec.md §4.5 requires tensor's symmetry to
// hold up to.
func BraidMorphism(hasher ca.Hasher) (*Morphism, error) {
	return newBuiltin(hasher, "braid", func(ms *MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := pairOperand(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		id, err := pairId(ms.hasher, p.Right, p.Left)
		if err != nil {
			return values.MachineValue{}, err
		}
		ms.pairs[id] = Pair{Left: p.Right, Right: p.Left}
		return values.ValueRef(id), nil
	})
}
