package expr

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// UsesAlloc reports whether the term named by id allocates a heap
// resource anywhere in its graph. Alloc is the one construct in this term
// language whose runtime id is not a pure function of the term graph —
// internal/heap mints a fresh random nonce per allocation (spec.md §9) —
// so it is the non-deterministic construct internal/effect's compiler
// gates against a domain's AllowsNonDeterminism.
func UsesAlloc(s *Store, id ca.ExprId) (bool, error) {
	node, ok := s.Retrieve(id)
	if !ok {
		return false, causalityerrors.InvalidExpression(id.ToHex())
	}
	if node.Kind == KindAlloc {
		return true, nil
	}
	for _, sub := range node.Sub {
		found, err := UsesAlloc(s, sub)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
