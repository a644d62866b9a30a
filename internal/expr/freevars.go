package expr

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// FreeVars computes the set of free variable names in the term named by
// id, recursively over the stored graph (spec.md §4.8).
func FreeVars(s *Store, id ca.ExprId) (map[string]bool, error) {
	node, ok := s.Retrieve(id)
	if !ok {
		return nil, causalityerrors.InvalidExpression(id.ToHex())
	}

	switch node.Kind {
	case KindVar:
		return map[string]bool{node.Name: true}, nil

	case KindLambda:
		inner, err := FreeVars(s, node.Sub[0])
		if err != nil {
			return nil, err
		}
		delete(inner, node.Name)
		return inner, nil

	case KindLet:
		valueFv, err := FreeVars(s, node.Sub[0])
		if err != nil {
			return nil, err
		}
		bodyFv, err := FreeVars(s, node.Sub[1])
		if err != nil {
			return nil, err
		}
		delete(bodyFv, node.Name)
		return union(valueFv, bodyFv), nil

	case KindLetTensor:
		pairFv, err := FreeVars(s, node.Sub[0])
		if err != nil {
			return nil, err
		}
		bodyFv, err := FreeVars(s, node.Sub[1])
		if err != nil {
			return nil, err
		}
		delete(bodyFv, node.Fields[0])
		delete(bodyFv, node.Fields[1])
		return union(pairFv, bodyFv), nil

	default:
		fv := map[string]bool{}
		for _, sub := range node.Sub {
			sfv, err := FreeVars(s, sub)
			if err != nil {
				return nil, err
			}
			for name := range sfv {
				fv[name] = true
			}
		}
		return fv, nil
	}
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}
