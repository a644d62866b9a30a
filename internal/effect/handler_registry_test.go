package effect

import (
	"testing"

	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/expr"
)

func TestResolvePrefersHighestPriority(t *testing.T) {
	s := New()
	es := expr.New()
	lowExpr, _ := es.Lambda("x", mustVar(t, es, "x"))
	highExpr, _ := es.Lambda("x", mustVar(t, es, "x"))

	reg := NewHandlerRegistry(s)
	if _, err := reg.Register(Handler{HandlesType: "mint", Priority: 1, Expression: lowExpr}); err != nil {
		t.Fatal(err)
	}
	highId, err := reg.Register(Handler{HandlesType: "mint", Priority: 10, Expression: highExpr})
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := reg.Resolve("mint")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != highId {
		t.Fatalf("expected the priority-10 handler to win, got a different id")
	}
}

func TestResolveBreaksTiesByLexicographicallySmallestId(t *testing.T) {
	s := New()
	es := expr.New()
	exprA, _ := es.Lambda("x", mustVar(t, es, "x"))
	exprB, _ := es.Lambda("y", mustVar(t, es, "y"))

	reg := NewHandlerRegistry(s)
	idA, err := reg.Register(Handler{HandlesType: "burn", Priority: 5, Expression: exprA})
	if err != nil {
		t.Fatal(err)
	}
	idB, err := reg.Register(Handler{HandlesType: "burn", Priority: 5, Expression: exprB})
	if err != nil {
		t.Fatal(err)
	}

	want := idA
	if idB.Compare(idA) < 0 {
		want = idB
	}

	resolved, err := reg.Resolve("burn")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != want {
		t.Fatalf("expected the lexicographically smallest tied id to win")
	}
}

func TestResolveUnknownTypeFails(t *testing.T) {
	s := New()
	reg := NewHandlerRegistry(s)
	if _, err := reg.Resolve("nonexistent"); err == nil {
		t.Fatal("expected an error resolving an effect type with no registered handler")
	}
}

func mustVar(t *testing.T, s *expr.Store, name string) ca.ExprId {
	t.Helper()
	id, err := s.Var(name)
	if err != nil {
		t.Fatal(err)
	}
	return id
}
