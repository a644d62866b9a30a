package expr

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/values"
)

// requireAll fails with InvalidExpression if any of ids has not yet been
// inserted, enforcing spec.md §3's "no node depends on an id not yet
// inserted (topological order enforced by the smart constructors)".
func (s *Store) requireAll(ids ...ca.ExprId) error {
	for _, id := range ids {
		if !s.Contains(id) {
			return causalityerrors.InvalidExpression(id.ToHex())
		}
	}
	return nil
}

// Unit constructs the nullary unit term.
func (s *Store) Unit() (ca.ExprId, error) {
	return s.Store(Node{Kind: KindUnit})
}

// LitExpr constructs a literal atom wrapping p.
func (s *Store) LitExpr(p values.Primitive) (ca.ExprId, error) {
	return s.Store(Node{Kind: KindLit, Lit: p})
}

// Var constructs a reference to a bound variable name.
func (s *Store) Var(name string) (ca.ExprId, error) {
	return s.Store(Node{Kind: KindVar, Name: name})
}

// LetUnit(e, body): evaluate e for effect, discard its (unit) value, then
// evaluate body.
func (s *Store) LetUnit(e, body ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e, body); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindLetUnit, Sub: []ca.ExprId{e, body}})
}

// TensorExpr(a, b) pairs two terms.
func (s *Store) TensorExpr(a, b ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(a, b); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindTensor, Sub: []ca.ExprId{a, b}})
}

// LetTensor(pair, left, right, body) destructures pair, binding left and
// right in body.
func (s *Store) LetTensor(pair ca.ExprId, left, right string, body ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(pair, body); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindLetTensor, Fields: []string{left, right}, Sub: []ca.ExprId{pair, body}})
}

// Inl constructs the left injection of a sum.
func (s *Store) Inl(e ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindInl, Sub: []ca.ExprId{e}})
}

// Inr constructs the right injection of a sum.
func (s *Store) Inr(e ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindInr, Sub: []ca.ExprId{e}})
}

// Case(scrutinee, left, right) eliminates a sum. left and right must each
// be a Lambda term (the branch's bound variable and body) — this keeps
// "a linear variable appears in exactly one branch of Case, in the body of
// exactly one Lambda closure" (spec.md §4.7) uniform across both places a
// variable can be bound by the term language.
func (s *Store) Case(scrutinee, left, right ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(scrutinee, left, right); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindCase, Sub: []ca.ExprId{scrutinee, left, right}})
}

// Lambda constructs a linear function abstraction.
func (s *Store) Lambda(param string, body ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(body); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindLambda, Name: param, Sub: []ca.ExprId{body}})
}

// Apply applies fn to arg.
func (s *Store) Apply(fn, arg ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(fn, arg); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindApply, Sub: []ca.ExprId{fn, arg}})
}

// AllocExpr lowers to the heap's Alloc operation at compile time.
func (s *Store) AllocExpr(e ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindAlloc, Sub: []ca.ExprId{e}})
}

// ConsumeExpr lowers to the heap's Consume operation at compile time.
func (s *Store) ConsumeExpr(e ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindConsume, Sub: []ca.ExprId{e}})
}

// ReadField reads field off rec with the given access mode and location
// annotation (spec.md §3's field-access annotation).
func (s *Store) ReadField(rec ca.ExprId, field, mode, location string) (ca.ExprId, error) {
	if err := s.requireAll(rec); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindReadField, Name: field, Mode: mode, Location: location, Sub: []ca.ExprId{rec}})
}

// UpdateField replaces field on rec with value.
func (s *Store) UpdateField(rec ca.ExprId, field string, value ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(rec, value); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindUpdateField, Name: field, Sub: []ca.ExprId{rec, value}})
}

// Project narrows rec's row type to exactly fields.
func (s *Store) Project(rec ca.ExprId, fields []string) (ca.ExprId, error) {
	if err := s.requireAll(rec); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindProject, Fields: append([]string(nil), fields...), Sub: []ca.ExprId{rec}})
}

// Restrict removes fields from rec's row type.
func (s *Store) Restrict(rec ca.ExprId, fields []string) (ca.ExprId, error) {
	if err := s.requireAll(rec); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindRestrict, Fields: append([]string(nil), fields...), Sub: []ca.ExprId{rec}})
}

// Extend adds field=value to rec's row type.
func (s *Store) Extend(rec ca.ExprId, field string, value ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(rec, value); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindExtend, Name: field, Sub: []ca.ExprId{rec, value}})
}

// Diff computes the row-level difference between a and b.
func (s *Store) Diff(a, b ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(a, b); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindDiff, Sub: []ca.ExprId{a, b}})
}

// Let binds value to name in body.
func (s *Store) Let(name string, value, body ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(value, body); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindLet, Name: name, Sub: []ca.ExprId{value, body}})
}

// If branches on cond.
func (s *Store) If(cond, then, els ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(cond, then, els); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindIf, Sub: []ca.ExprId{cond, then, els}})
}

// Quote wraps e as an unevaluated quoted term.
func (s *Store) Quote(e ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(e); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindQuote, Sub: []ca.ExprId{e}})
}

// List constructs a list literal from items.
func (s *Store) List(items []ca.ExprId) (ca.ExprId, error) {
	if err := s.requireAll(items...); err != nil {
		return ca.Zero, err
	}
	return s.Store(Node{Kind: KindList, Sub: append([]ca.ExprId(nil), items...)})
}
