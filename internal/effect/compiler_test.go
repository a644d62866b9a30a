package effect

import (
	"testing"

	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

// TestCompileTransactionAppliesHandlerToEffect builds a transaction with a
// single effect handled by an identity-shaped handler and checks the
// compiled program produces the effect's own literal value.
func TestCompileTransactionAppliesHandlerToEffect(t *testing.T) {
	hasher := ca.Default()
	exprs := expr.New()
	entities := New()

	payload, err := exprs.LitExpr(values.Int(9))
	if err != nil {
		t.Fatal(err)
	}
	x, err := exprs.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	handlerExpr, err := exprs.Lambda("x", x)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewHandlerRegistry(entities)
	if _, err := registry.Register(Handler{HandlesType: "noop", Priority: 1, Expression: handlerExpr}); err != nil {
		t.Fatal(err)
	}

	effId, err := entities.PutEffect(Effect{EffectType: "noop", Expression: &payload})
	if err != nil {
		t.Fatal(err)
	}

	tx := Transaction{Effects: []ca.EffectId{effId}}
	result, err := CompileTransaction(exprs, hasher, entities, registry, tx)
	if err != nil {
		t.Fatal(err)
	}

	ms := machine.NewMachineState(result.Program, machine.WithHasher(hasher))
	if err := result.Seed(ms); err != nil {
		t.Fatal(err)
	}
	out, err := machine.Run(ms, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPrimitive() || out.Primitive().AsInt() != 9 {
		t.Fatalf("expected Primitive(Int 9), got %v", out)
	}
}

// TestCompileTransactionSequencesMultipleEffects checks that two effects
// in a transaction both run, in order, with the last effect's value as
// the transaction's overall result.
func TestCompileTransactionSequencesMultipleEffects(t *testing.T) {
	hasher := ca.Default()
	exprs := expr.New()
	entities := New()

	idFnX, err := exprs.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	handlerExpr, err := exprs.Lambda("x", idFnX)
	if err != nil {
		t.Fatal(err)
	}
	registry := NewHandlerRegistry(entities)
	if _, err := registry.Register(Handler{HandlesType: "noop", Priority: 1, Expression: handlerExpr}); err != nil {
		t.Fatal(err)
	}

	firstPayload, err := exprs.LitExpr(values.Int(1))
	if err != nil {
		t.Fatal(err)
	}
	secondPayload, err := exprs.LitExpr(values.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	firstId, err := entities.PutEffect(Effect{EffectType: "noop", Expression: &firstPayload})
	if err != nil {
		t.Fatal(err)
	}
	secondId, err := entities.PutEffect(Effect{EffectType: "noop", Expression: &secondPayload})
	if err != nil {
		t.Fatal(err)
	}

	tx := Transaction{Effects: []ca.EffectId{firstId, secondId}}
	result, err := CompileTransaction(exprs, hasher, entities, registry, tx)
	if err != nil {
		t.Fatal(err)
	}

	ms := machine.NewMachineState(result.Program, machine.WithHasher(hasher))
	if err := result.Seed(ms); err != nil {
		t.Fatal(err)
	}
	out, err := machine.Run(ms, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPrimitive() || out.Primitive().AsInt() != 2 {
		t.Fatalf("expected the second effect's value 2 as the transaction result, got %v", out)
	}
}

// TestCompileTransactionThreadsAllocForOutputFlow checks a transaction
// whose effect declares one output flow ends in a newly-allocated
// resource reference rather than the raw literal.
func TestCompileTransactionThreadsAllocForOutputFlow(t *testing.T) {
	hasher := ca.Default()
	exprs := expr.New()
	entities := New()

	payload, err := exprs.LitExpr(values.Int(3))
	if err != nil {
		t.Fatal(err)
	}
	x, err := exprs.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	handlerExpr, err := exprs.Lambda("x", x)
	if err != nil {
		t.Fatal(err)
	}
	registry := NewHandlerRegistry(entities)
	if _, err := registry.Register(Handler{HandlesType: "mint", Priority: 1, Expression: handlerExpr}); err != nil {
		t.Fatal(err)
	}

	effId, err := entities.PutEffect(Effect{
		EffectType: "mint",
		Expression: &payload,
		Outputs:    []ResourceFlow{{ResourceType: "token", Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tx := Transaction{Effects: []ca.EffectId{effId}}
	result, err := CompileTransaction(exprs, hasher, entities, registry, tx)
	if err != nil {
		t.Fatal(err)
	}

	ms := machine.NewMachineState(result.Program, machine.WithHasher(hasher))
	if err := result.Seed(ms); err != nil {
		t.Fatal(err)
	}
	out, err := machine.Run(ms, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind() != values.KindResourceRef {
		t.Fatalf("expected an output flow to allocate a resource reference, got %v", out)
	}
}

// TestCompileTransactionRejectsAllocatingHandlerInDeterministicOnlyDomain
// checks that a handler body which allocates a resource is rejected when
// bound to a Verifiable domain flagged DeterministicOnly.
func TestCompileTransactionRejectsAllocatingHandlerInDeterministicOnlyDomain(t *testing.T) {
	hasher := ca.Default()
	exprs := expr.New()
	entities := New()

	x, err := exprs.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	allocBody, err := exprs.AllocExpr(x)
	if err != nil {
		t.Fatal(err)
	}
	handlerExpr, err := exprs.Lambda("x", allocBody)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewHandlerRegistry(entities)
	if _, err := registry.Register(Handler{HandlesType: "mint", Priority: 1, Expression: handlerExpr}); err != nil {
		t.Fatal(err)
	}

	domainId, err := entities.PutDomain(TypedDomain{Kind: DomainVerifiable, DeterministicOnly: true})
	if err != nil {
		t.Fatal(err)
	}

	payload, err := exprs.LitExpr(values.Int(1))
	if err != nil {
		t.Fatal(err)
	}
	effId, err := entities.PutEffect(Effect{EffectType: "mint", Expression: &payload, DomainId: domainId})
	if err != nil {
		t.Fatal(err)
	}

	tx := Transaction{Effects: []ca.EffectId{effId}}
	if _, err := CompileTransaction(exprs, hasher, entities, registry, tx); err == nil {
		t.Fatal("expected compilation to reject an allocating handler bound to a deterministic-only domain")
	}
}

// TestCompileTransactionAllowsAllocatingHandlerInComputeDomain checks that
// the same allocating handler compiles cleanly once bound to a domain
// that allows non-determinism.
func TestCompileTransactionAllowsAllocatingHandlerInComputeDomain(t *testing.T) {
	hasher := ca.Default()
	exprs := expr.New()
	entities := New()

	x, err := exprs.Var("x")
	if err != nil {
		t.Fatal(err)
	}
	allocBody, err := exprs.AllocExpr(x)
	if err != nil {
		t.Fatal(err)
	}
	handlerExpr, err := exprs.Lambda("x", allocBody)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewHandlerRegistry(entities)
	if _, err := registry.Register(Handler{HandlesType: "mint", Priority: 1, Expression: handlerExpr}); err != nil {
		t.Fatal(err)
	}

	domainId, err := entities.PutDomain(TypedDomain{Kind: DomainCompute})
	if err != nil {
		t.Fatal(err)
	}

	payload, err := exprs.LitExpr(values.Int(1))
	if err != nil {
		t.Fatal(err)
	}
	effId, err := entities.PutEffect(Effect{EffectType: "mint", Expression: &payload, DomainId: domainId})
	if err != nil {
		t.Fatal(err)
	}

	tx := Transaction{Effects: []ca.EffectId{effId}}
	result, err := CompileTransaction(exprs, hasher, entities, registry, tx)
	if err != nil {
		t.Fatal(err)
	}

	ms := machine.NewMachineState(result.Program, machine.WithHasher(hasher))
	if err := result.Seed(ms); err != nil {
		t.Fatal(err)
	}
	if _, err := machine.Run(ms, 0); err != nil {
		t.Fatal(err)
	}
}
