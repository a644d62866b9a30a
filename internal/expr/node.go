// Package expr implements the Layer 1 expression store: content-addressed
// λ-calculus terms with implicit structural sharing (spec.md §3 "Layer 1
// terms", §4.8).
package expr

import (
	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/values"
)

// Kind enumerates every term constructor: the eleven core primitives
// spec.md §3 names, plus its extended forms (row operations, literals,
// let/if, quotation, list construction) and the Var leaf every lambda
// calculus needs to reference a bound name.
type Kind uint8

const (
	KindUnit Kind = iota
	KindLetUnit
	KindTensor
	KindLetTensor
	KindInl
	KindInr
	KindCase
	KindLambda
	KindApply
	KindAlloc
	KindConsume

	KindVar
	KindReadField
	KindUpdateField
	KindProject
	KindRestrict
	KindExtend
	KindDiff
	KindLit
	KindLet
	KindIf
	KindQuote
	KindList
)

func (k Kind) String() string {
	names := map[Kind]string{
		KindUnit: "unit", KindLetUnit: "let-unit", KindTensor: "tensor",
		KindLetTensor: "let-tensor", KindInl: "inl", KindInr: "inr",
		KindCase: "case", KindLambda: "lambda", KindApply: "apply",
		KindAlloc: "alloc", KindConsume: "consume", KindVar: "var",
		KindReadField: "read-field", KindUpdateField: "update-field",
		KindProject: "project", KindRestrict: "restrict", KindExtend: "extend",
		KindDiff: "diff", KindLit: "lit", KindLet: "let", KindIf: "if",
		KindQuote: "quote", KindList: "list",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

// Node is one term in the expression graph. Only the fields relevant to
// its Kind are meaningful; Canonical encodes exactly the immediate content
// spec.md §4.8 names — including the ids (not the bodies) of its
// subexpressions, which is what makes structural sharing implicit.
type Node struct {
	Kind Kind

	// Name is the bound variable for KindVar/KindLambda/KindLet, or the
	// (single) field name for KindExtend/KindUpdateField/KindReadField.
	Name string
	// Fields holds the bound pair names for KindLetTensor ([left, right])
	// and the multi-field name list for KindProject/KindRestrict.
	Fields []string
	// Mode and Location annotate KindReadField (UpdateField leaves them
	// empty) per
	// spec.md §3's "field access is annotated with a location and a
	// mode (read, write, read-write)".
	Mode     string
	Location string

	// Sub holds this node's immediate subexpression ids, in
	// constructor-specific order (see constructors.go).
	Sub []ca.ExprId

	// Lit holds the literal payload for KindLit.
	Lit values.Primitive
}

// Canonical implements ca.Encodable.
func (n Node) Canonical() ([]byte, error) {
	enc := ca.NewEncoder().
		Uint8(uint8(n.Kind)).
		String(n.Name).
		String(n.Mode).
		String(n.Location)

	enc.Uint32(uint32(len(n.Fields)))
	for _, f := range n.Fields {
		enc.String(f)
	}

	enc.Uint32(uint32(len(n.Sub)))
	for _, id := range n.Sub {
		enc.ID(id)
	}

	if n.Kind == KindLit {
		litBytes, err := n.Lit.Canonical()
		if err != nil {
			return nil, err
		}
		enc.Bytes(litBytes)
	}

	return enc.Finish(), nil
}
