package types

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/values"
)

// CheckLinearUsage enforces spec.md §4.7's linear-variable-usage discipline
// over a stored term: a variable tagged Linear must occur exactly once, an
// Affine variable at most once, a Relevant variable at least once, and an
// Unrestricted variable any number of times. This walks the term counting
// occurrences rather than running a full bidirectional type-and-usage
// inference — a term language this small (no surface-visible shadowing
// ambiguity; see expr.Substitute's doc comment) doesn't need the general
// machinery, and the count already identifies scenario S6 (spec.md §8):
// λx. tensor(x,x) with x declared Linear fails here with x named in the
// error.
func CheckLinearUsage(s *expr.Store, id ca.ExprId, name string, linearity values.Linearity) error {
	count, err := countUses(s, id, name)
	if err != nil {
		return err
	}
	switch linearity {
	case values.Linear:
		if count != 1 {
			return causalityerrors.TypeError("linear variable %q used %d times, expected exactly once", name, count)
		}
	case values.Affine:
		if count > 1 {
			return causalityerrors.TypeError("affine variable %q used %d times, expected at most once", name, count)
		}
	case values.Relevant:
		if count < 1 {
			return causalityerrors.TypeError("relevant variable %q used %d times, expected at least once", name, count)
		}
	case values.Unrestricted:
		// any count is valid
	}
	return nil
}

// countUses counts the free occurrences of name in the term named by id,
// treating the two branches of If and Case as alternatives (only one runs,
// so their counts combine by max) and every other subterm as executing
// unconditionally (counts combine by sum). Lambda/Let/LetTensor binders
// that rebind name shadow it for their scope.
func countUses(s *expr.Store, id ca.ExprId, name string) (int, error) {
	node, ok := s.Retrieve(id)
	if !ok {
		return 0, causalityerrors.InvalidExpression(id.ToHex())
	}

	switch node.Kind {
	case expr.KindVar:
		if node.Name == name {
			return 1, nil
		}
		return 0, nil

	case expr.KindLambda:
		if node.Name == name {
			return 0, nil
		}
		return countUses(s, node.Sub[0], name)

	case expr.KindLet:
		valueCount, err := countUses(s, node.Sub[0], name)
		if err != nil {
			return 0, err
		}
		if node.Name == name {
			return valueCount, nil
		}
		bodyCount, err := countUses(s, node.Sub[1], name)
		if err != nil {
			return 0, err
		}
		return valueCount + bodyCount, nil

	case expr.KindLetTensor:
		pairCount, err := countUses(s, node.Sub[0], name)
		if err != nil {
			return 0, err
		}
		if node.Fields[0] == name || node.Fields[1] == name {
			return pairCount, nil
		}
		bodyCount, err := countUses(s, node.Sub[1], name)
		if err != nil {
			return 0, err
		}
		return pairCount + bodyCount, nil

	case expr.KindIf:
		condCount, err := countUses(s, node.Sub[0], name)
		if err != nil {
			return 0, err
		}
		thenCount, err := countUses(s, node.Sub[1], name)
		if err != nil {
			return 0, err
		}
		elseCount, err := countUses(s, node.Sub[2], name)
		if err != nil {
			return 0, err
		}
		return condCount + maxInt(thenCount, elseCount), nil

	case expr.KindCase:
		scrutineeCount, err := countUses(s, node.Sub[0], name)
		if err != nil {
			return 0, err
		}
		leftCount, err := countUses(s, node.Sub[1], name)
		if err != nil {
			return 0, err
		}
		rightCount, err := countUses(s, node.Sub[2], name)
		if err != nil {
			return 0, err
		}
		return scrutineeCount + maxInt(leftCount, rightCount), nil

	default:
		total := 0
		for _, sub := range node.Sub {
			c, err := countUses(s, sub, name)
			if err != nil {
				return 0, err
			}
			total += c
		}
		return total, nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
