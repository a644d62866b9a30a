package expr

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
)

// Substitute returns the id of the term obtained by replacing every free
// occurrence of name in id's term with replacement, rebuilding only the
// subtrees that actually change (unaffected subtrees keep their existing
// id, preserving sharing). Binders that rebind name shadow it rather than
// be substituted into, assuming (as this term language does throughout)
// that bound names are chosen distinctly enough that capture doesn't
// arise — there is no surface syntax here to accidentally introduce it.
func Substitute(s *Store, id ca.ExprId, name string, replacement ca.ExprId) (ca.ExprId, error) {
	node, ok := s.Retrieve(id)
	if !ok {
		return ca.Zero, causalityerrors.InvalidExpression(id.ToHex())
	}

	switch node.Kind {
	case KindVar:
		if node.Name == name {
			return replacement, nil
		}
		return id, nil

	case KindLambda:
		if node.Name == name {
			return id, nil
		}
		newBody, err := Substitute(s, node.Sub[0], name, replacement)
		if err != nil {
			return ca.Zero, err
		}
		if newBody == node.Sub[0] {
			return id, nil
		}
		return s.Lambda(node.Name, newBody)

	case KindLet:
		newValue, err := Substitute(s, node.Sub[0], name, replacement)
		if err != nil {
			return ca.Zero, err
		}
		if node.Name == name {
			if newValue == node.Sub[0] {
				return id, nil
			}
			return s.Let(node.Name, newValue, node.Sub[1])
		}
		newBody, err := Substitute(s, node.Sub[1], name, replacement)
		if err != nil {
			return ca.Zero, err
		}
		if newValue == node.Sub[0] && newBody == node.Sub[1] {
			return id, nil
		}
		return s.Let(node.Name, newValue, newBody)

	case KindLetTensor:
		newPair, err := Substitute(s, node.Sub[0], name, replacement)
		if err != nil {
			return ca.Zero, err
		}
		if node.Fields[0] == name || node.Fields[1] == name {
			if newPair == node.Sub[0] {
				return id, nil
			}
			return s.LetTensor(newPair, node.Fields[0], node.Fields[1], node.Sub[1])
		}
		newBody, err := Substitute(s, node.Sub[1], name, replacement)
		if err != nil {
			return ca.Zero, err
		}
		if newPair == node.Sub[0] && newBody == node.Sub[1] {
			return id, nil
		}
		return s.LetTensor(newPair, node.Fields[0], node.Fields[1], newBody)

	default:
		newSub := make([]ca.ExprId, len(node.Sub))
		changed := false
		for i, sub := range node.Sub {
			ns, err := Substitute(s, sub, name, replacement)
			if err != nil {
				return ca.Zero, err
			}
			newSub[i] = ns
			if ns != sub {
				changed = true
			}
		}
		if !changed {
			return id, nil
		}
		rebuilt := node
		rebuilt.Sub = newSub
		return s.Store(rebuilt)
	}
}
