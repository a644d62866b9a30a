package effect

import (
	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/compiler"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/expr"
)

// CompileTransaction resolves every effect in tx against registry,
// threads the handler's expression around each effect's own expression,
// interleaves Consume/Alloc for each declared input/output flow, and
// lowers the resulting single Layer 1 term through internal/compiler
// (spec.md §4.10, §6.2's `compile_transaction`).
//
// Flows carry no expression id of their own in the data model (spec.md's
// Data Model lists only `resource_type`/`quantity`/`domain_id` per flow),
// so this compiler threads one value through a Consume per input flow
// followed by an Alloc per output flow, in declaration order, rather than
// binding each flow to an independent sub-expression — an Open Question
// decision recorded in DESIGN.md.
func CompileTransaction(exprs *expr.Store, hasher ca.Hasher, entities *Store, registry *HandlerRegistry, tx Transaction) (*compiler.Result, error) {
	termIds := make([]ca.ExprId, 0, len(tx.Effects)+len(tx.Intents))
	for _, effectId := range tx.Effects {
		id, err := compileEffectTerm(exprs, entities, registry, effectId)
		if err != nil {
			return nil, err
		}
		termIds = append(termIds, id)
	}
	for _, intentId := range tx.Intents {
		id, err := compileIntentTerm(exprs, entities, intentId)
		if err != nil {
			return nil, err
		}
		termIds = append(termIds, id)
	}

	combined, err := sequence(exprs, termIds)
	if err != nil {
		return nil, err
	}
	combined, err = wrapFlows(exprs, combined, tx.Inputs, tx.Outputs)
	if err != nil {
		return nil, err
	}

	return compiler.Compile(exprs, hasher, combined)
}

// compileEffectTerm resolves effectId's handler, rejects it if its body
// allocates a resource while the effect's bound domain forbids
// non-determinism (TypedDomain.AllowsNonDeterminism, SPEC_FULL.md §3.8),
// applies it to the effect's own expression (Unit if absent), and wraps
// the result with the effect's declared resource flows.
func compileEffectTerm(exprs *expr.Store, entities *Store, registry *HandlerRegistry, effectId ca.EffectId) (ca.ExprId, error) {
	eff, err := entities.resolveEffect(effectId)
	if err != nil {
		return ca.Zero, err
	}
	handlerId, err := registry.Resolve(eff.EffectType)
	if err != nil {
		return ca.Zero, err
	}
	handler, _ := registry.Get(handlerId)

	if eff.DomainId != ca.Zero {
		domain, err := entities.resolveDomain(eff.DomainId)
		if err != nil {
			return ca.Zero, err
		}
		if !domain.AllowsNonDeterminism() {
			allocates, err := expr.UsesAlloc(exprs, handler.Expression)
			if err != nil {
				return ca.Zero, err
			}
			if allocates {
				return ca.Zero, causalityerrors.CompilationError(
					"handler for effect type %q allocates a resource but domain %s forbids non-determinism",
					eff.EffectType, eff.DomainId.ToHex())
			}
		}
	}

	base, err := optionalOrUnit(exprs, eff.Expression)
	if err != nil {
		return ca.Zero, err
	}
	wrapped, err := exprs.Apply(handler.Expression, base)
	if err != nil {
		return ca.Zero, err
	}
	return wrapFlows(exprs, wrapped, eff.Inputs, eff.Outputs)
}

// compileIntentTerm wraps an intent's own expression (Unit if absent)
// with its declared resource flows. Intents have no effect_type, so no
// handler resolution applies to them (spec.md §4.10 names only effects
// as handler-resolved).
func compileIntentTerm(exprs *expr.Store, entities *Store, intentId ca.IntentId) (ca.ExprId, error) {
	it, err := entities.resolveIntent(intentId)
	if err != nil {
		return ca.Zero, err
	}
	base, err := optionalOrUnit(exprs, it.Expression)
	if err != nil {
		return ca.Zero, err
	}
	return wrapFlows(exprs, base, it.Inputs, it.Outputs)
}

func optionalOrUnit(exprs *expr.Store, id *ca.ExprId) (ca.ExprId, error) {
	if id != nil {
		return *id, nil
	}
	return exprs.Unit()
}

// wrapFlows emits one Consume per input flow followed by one Alloc per
// output flow around term, in declaration order.
func wrapFlows(exprs *expr.Store, term ca.ExprId, inputs, outputs []ResourceFlow) (ca.ExprId, error) {
	for range inputs {
		next, err := exprs.ConsumeExpr(term)
		if err != nil {
			return ca.Zero, err
		}
		term = next
	}
	for range outputs {
		next, err := exprs.AllocExpr(term)
		if err != nil {
			return ca.Zero, err
		}
		term = next
	}
	return term, nil
}

// sequence chains terms with LetUnit so every term runs (in order) for
// its effect, discarding all but the last's value as the transaction's
// result — mirroring compileTerm's KindLetUnit, which evaluates its first
// subterm purely for effect.
func sequence(exprs *expr.Store, terms []ca.ExprId) (ca.ExprId, error) {
	if len(terms) == 0 {
		return exprs.Unit()
	}
	result := terms[len(terms)-1]
	for i := len(terms) - 2; i >= 0; i-- {
		next, err := exprs.LetUnit(terms[i], result)
		if err != nil {
			return ca.Zero, err
		}
		result = next
	}
	return result, nil
}
