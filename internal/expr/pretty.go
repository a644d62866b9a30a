package expr

import (
	"fmt"
	"strings"

	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// Pretty renders the term named by id as a readable string, recursively
// over the stored graph.
func Pretty(s *Store, id ca.ExprId) (string, error) {
	node, ok := s.Retrieve(id)
	if !ok {
		return "", causalityerrors.InvalidExpression(id.ToHex())
	}

	sub := func(i int) (string, error) { return Pretty(s, node.Sub[i]) }

	switch node.Kind {
	case KindUnit:
		return "()", nil
	case KindLit:
		return node.Lit.String(), nil
	case KindVar:
		return node.Name, nil
	case KindLetUnit:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		body, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("let () = %s in %s", e, body), nil
	case KindTensor:
		a, err := sub(0)
		if err != nil {
			return "", err
		}
		b, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s ⊗ %s)", a, b), nil
	case KindLetTensor:
		pair, err := sub(0)
		if err != nil {
			return "", err
		}
		body, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("let (%s, %s) = %s in %s", node.Fields[0], node.Fields[1], pair, body), nil
	case KindInl:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("inl(%s)", e), nil
	case KindInr:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("inr(%s)", e), nil
	case KindCase:
		scrutinee, err := sub(0)
		if err != nil {
			return "", err
		}
		left, err := sub(1)
		if err != nil {
			return "", err
		}
		right, err := sub(2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("case %s of { %s | %s }", scrutinee, left, right), nil
	case KindLambda:
		body, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("λ%s.%s", node.Name, body), nil
	case KindApply:
		fn, err := sub(0)
		if err != nil {
			return "", err
		}
		arg, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s)", fn, arg), nil
	case KindAlloc:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("alloc(%s)", e), nil
	case KindConsume:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("consume(%s)", e), nil
	case KindReadField:
		rec, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s[%s@%s]", rec, node.Name, node.Mode, node.Location), nil
	case KindUpdateField:
		rec, err := sub(0)
		if err != nil {
			return "", err
		}
		val, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s{%s := %s}", rec, node.Name, val), nil
	case KindProject:
		rec, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s|%s", rec, strings.Join(node.Fields, ",")), nil
	case KindRestrict:
		rec, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\\%s", rec, strings.Join(node.Fields, ",")), nil
	case KindExtend:
		rec, err := sub(0)
		if err != nil {
			return "", err
		}
		val, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s+%s=%s", rec, node.Name, val), nil
	case KindDiff:
		a, err := sub(0)
		if err != nil {
			return "", err
		}
		b, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s − %s)", a, b), nil
	case KindLet:
		val, err := sub(0)
		if err != nil {
			return "", err
		}
		body, err := sub(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("let %s = %s in %s", node.Name, val, body), nil
	case KindIf:
		cond, err := sub(0)
		if err != nil {
			return "", err
		}
		then, err := sub(1)
		if err != nil {
			return "", err
		}
		els, err := sub(2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if %s then %s else %s", cond, then, els), nil
	case KindQuote:
		e, err := sub(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("'%s", e), nil
	case KindList:
		parts := make([]string, len(node.Sub))
		for i := range node.Sub {
			p, err := sub(i)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", ")), nil
	default:
		return "", causalityerrors.InvalidExpression(id.ToHex())
	}
}
