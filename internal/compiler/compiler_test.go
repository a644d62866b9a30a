package compiler

import (
	"testing"

	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

func runCompiled(t *testing.T, s *expr.Store, id ca.ExprId) values.MachineValue {
	t.Helper()
	hasher := ca.Default()
	result, err := Compile(s, hasher, id)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ms := machine.NewMachineState(result.Program, machine.WithHasher(hasher))
	if err := result.Seed(ms); err != nil {
		t.Fatalf("seed: %v", err)
	}
	out, err := machine.Run(ms, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return out
}

// TestScenarioS5CompileAndRunIdentityApplication exercises spec.md §8's
// S5: compiling and running (λx.x) 11 yields Primitive(Int 11).
func TestScenarioS5CompileAndRunIdentityApplication(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	idFn, err := s.Lambda("x", x)
	if err != nil {
		t.Fatal(err)
	}
	eleven, err := s.LitExpr(values.Int(11))
	if err != nil {
		t.Fatal(err)
	}
	applied, err := s.Apply(idFn, eleven)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, applied)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 11 {
		t.Fatalf("expected Primitive(Int 11), got %v", out)
	}
}

func TestCompileUnitLiteral(t *testing.T) {
	s := expr.New()
	unit, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	out := runCompiled(t, s, unit)
	if !out.IsPrimitive() || out.Primitive().Kind() != values.KindUnit {
		t.Fatalf("expected unit, got %v", out)
	}
}

func TestCompileTensorAndLetTensorRoundTrip(t *testing.T) {
	s := expr.New()
	a, err := s.LitExpr(values.Int(3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.LitExpr(values.Int(4))
	if err != nil {
		t.Fatal(err)
	}
	pair, err := s.TensorExpr(a, b)
	if err != nil {
		t.Fatal(err)
	}
	left, err := s.Var("l")
	if err != nil {
		t.Fatal(err)
	}
	body, err := s.LetTensor(pair, "l", "r", left)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, body)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 3 {
		t.Fatalf("expected Primitive(Int 3), got %v", out)
	}
}

func TestCompileAllocThenConsumeRoundTrip(t *testing.T) {
	s := expr.New()
	lit, err := s.LitExpr(values.Int(42))
	if err != nil {
		t.Fatal(err)
	}
	allocated, err := s.AllocExpr(lit)
	if err != nil {
		t.Fatal(err)
	}
	consumed, err := s.ConsumeExpr(allocated)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, consumed)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 42 {
		t.Fatalf("expected Primitive(Int 42), got %v", out)
	}
}

func TestCompileIfDispatchesOnCondition(t *testing.T) {
	s := expr.New()
	cond, err := s.LitExpr(values.Bool(true))
	if err != nil {
		t.Fatal(err)
	}
	thenLit, err := s.LitExpr(values.Int(1))
	if err != nil {
		t.Fatal(err)
	}
	elseLit, err := s.LitExpr(values.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	ifExpr, err := s.If(cond, thenLit, elseLit)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, ifExpr)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 1 {
		t.Fatalf("expected the then-branch value 1, got %v", out)
	}
}

func TestCompileInlInrCaseDispatch(t *testing.T) {
	s := expr.New()
	payload, err := s.LitExpr(values.Int(5))
	if err != nil {
		t.Fatal(err)
	}
	sum, err := s.Inl(payload)
	if err != nil {
		t.Fatal(err)
	}
	lvar, err := s.Var("l")
	if err != nil {
		t.Fatal(err)
	}
	leftBranch, err := s.Lambda("l", lvar)
	if err != nil {
		t.Fatal(err)
	}
	rvar, err := s.Var("r")
	if err != nil {
		t.Fatal(err)
	}
	rightBranch, err := s.Lambda("r", rvar)
	if err != nil {
		t.Fatal(err)
	}
	caseExpr, err := s.Case(sum, leftBranch, rightBranch)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, caseExpr)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 5 {
		t.Fatalf("expected the inl branch value 5, got %v", out)
	}
}

func TestCompileClosureCapturesFreeVariable(t *testing.T) {
	s := expr.New()
	ten, err := s.LitExpr(values.Int(10))
	if err != nil {
		t.Fatal(err)
	}
	y, err := s.Var("y")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := s.Lambda("y", y)
	if err != nil {
		t.Fatal(err)
	}
	_ = inner

	// let x = 10 in (λy. x) 0 — the closure ignores its argument and
	// returns the captured free variable x.
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	capturing, err := s.Lambda("y", x)
	if err != nil {
		t.Fatal(err)
	}
	zero, err := s.LitExpr(values.Int(0))
	if err != nil {
		t.Fatal(err)
	}
	applied, err := s.Apply(capturing, zero)
	if err != nil {
		t.Fatal(err)
	}
	letExpr, err := s.Let("x", ten, applied)
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, letExpr)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 10 {
		t.Fatalf("expected captured free variable value 10, got %v", out)
	}
}

func TestCompileRowOperations(t *testing.T) {
	s := expr.New()
	amount, err := s.LitExpr(values.Int(7))
	if err != nil {
		t.Fatal(err)
	}
	empty, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	_ = empty
	rec, err := s.Extend(emptyRecord(t, s), "amount", amount)
	if err != nil {
		t.Fatal(err)
	}
	read, err := s.ReadField(rec, "amount", "read", "local")
	if err != nil {
		t.Fatal(err)
	}

	out := runCompiled(t, s, read)
	if !out.IsPrimitive() || out.Primitive().AsInt() != 7 {
		t.Fatalf("expected Primitive(Int 7), got %v", out)
	}
}

// emptyRecord builds the empty-record term (unit, which a record-chain
// builtin treats as the empty chain).
func emptyRecord(t *testing.T, s *expr.Store) ca.ExprId {
	t.Helper()
	id, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	return id
}
