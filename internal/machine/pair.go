package machine

import (
	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/values"
)

// Pair is the payload a Tensor instruction produces. The five-variant
// MachineValue union (spec.md §3) has no dedicated "pair" variant, so a
// paired value is content-addressed like any other composite: it lives in
// a side table on MachineState and registers refer to it by
// ValueRef(id), exactly the way morphisms (morphism.go) are referenced.
type Pair struct {
	Left, Right values.MachineValue
}

type canonicalPair struct {
	left, right values.MachineValue
}

func (c canonicalPair) Canonical() ([]byte, error) {
	leftBytes, err := c.left.Canonical()
	if err != nil {
		return nil, err
	}
	rightBytes, err := c.right.Canonical()
	if err != nil {
		return nil, err
	}
	return ca.NewEncoder().Bytes(leftBytes).Bytes(rightBytes).Finish(), nil
}

func pairId(hasher ca.Hasher, left, right values.MachineValue) (ca.EntityId, error) {
	return ca.EncodeContent(hasher, canonicalPair{left: left, right: right})
}

// combineLinearity reports the linearity a Tensor output must carry: if
// either operand is linear the pair is linear (it cannot be silently
// dropped without leaking that operand); otherwise affine dominates over
// unrestricted the same way, and unrestricted is the default.
func combineLinearity(a, b values.Linearity) values.Linearity {
	if a == values.Linear || b == values.Linear {
		return values.Linear
	}
	if a == values.Affine || b == values.Affine {
		return values.Affine
	}
	return values.Unrestricted
}
