package types

import (
	"testing"

	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/values"
)

// TestScenarioS6DuplicatedLinearVariableRejected exercises spec.md §8's S6:
// λx. tensor(x,x) with x declared Linear must fail, identifying x.
func TestScenarioS6DuplicatedLinearVariableRejected(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	body, err := s.TensorExpr(x, x)
	if err != nil {
		t.Fatal(err)
	}

	err = CheckLinearUsage(s, body, "x", values.Linear)
	if err == nil {
		t.Fatal("expected duplicated linear variable to be rejected")
	}
}

func TestLinearVariableUsedExactlyOnceSucceeds(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, x, "x", values.Linear); err != nil {
		t.Fatalf("expected single use of a linear variable to succeed, got %v", err)
	}
}

func TestLinearVariableUnusedIsRejected(t *testing.T) {
	s := expr.New()
	unit, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, unit, "x", values.Linear); err == nil {
		t.Fatal("expected an unused linear variable to be rejected")
	}
}

func TestAffineVariableMayBeUnused(t *testing.T) {
	s := expr.New()
	unit, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, unit, "x", values.Affine); err != nil {
		t.Fatalf("expected affine to tolerate zero uses, got %v", err)
	}
}

func TestAffineVariableRejectsDuplicateUse(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	body, err := s.TensorExpr(x, x)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, body, "x", values.Affine); err == nil {
		t.Fatal("expected affine to reject a duplicate use")
	}
}

func TestUnrestrictedVariableAllowsAnyUseCount(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	body, err := s.TensorExpr(x, x)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, body, "x", values.Unrestricted); err != nil {
		t.Fatalf("expected unrestricted to allow repeated use, got %v", err)
	}
}

func TestShadowingLambdaStopsCountingOuterVariable(t *testing.T) {
	s := expr.New()
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := s.Lambda("x", x)
	if err != nil {
		t.Fatal(err)
	}
	// The outer "x" never occurs free in inner: the Lambda rebinds it.
	if err := CheckLinearUsage(s, inner, "x", values.Unrestricted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckLinearUsage(s, inner, "x", values.Linear); err == nil {
		t.Fatal("expected a linear x free nowhere in the shadowing lambda to be rejected as unused")
	}
}

func TestIfBranchesCombineByMaxNotSum(t *testing.T) {
	s := expr.New()
	cond, err := s.Var("cond")
	if err != nil {
		t.Fatal(err)
	}
	x, err := s.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	unit, err := s.Unit()
	if err != nil {
		t.Fatal(err)
	}
	ifExpr, err := s.If(cond, x, unit)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckLinearUsage(s, ifExpr, "x", values.Linear); err != nil {
		t.Fatalf("expected x used in only one branch to count once, got %v", err)
	}
}
