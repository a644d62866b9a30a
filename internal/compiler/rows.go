package compiler

import (
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

// Records are represented at runtime as an association chain: a nested
// Tensor pair (fieldEntry, restOfChain) terminated by Unit, where each
// fieldEntry is itself (Symbol(fieldName), fieldValue). A record is built
// by Extend starting from Unit (the empty chain), and spec.md §3's other
// row operations (ReadField/UpdateField/Project/Restrict/Diff) walk and
// rebuild an existing chain, so this layout is purely a Layer 0 runtime
// representation, built from the same Pair side table Tensor already
// populates (pair.go).

func walkChain(ms *machine.MachineState, chain values.MachineValue) (map[string]values.MachineValue, []string, error) {
	fields := map[string]values.MachineValue{}
	var order []string
	for {
		if chain.IsPrimitive() && chain.Primitive().Kind() == values.KindUnit {
			return fields, order, nil
		}
		rest, err := machine.ResolvePair(ms, chain)
		if err != nil {
			return nil, nil, err
		}
		entry, err := machine.ResolvePair(ms, rest.Left)
		if err != nil {
			return nil, nil, err
		}
		if !entry.Left.IsPrimitive() || entry.Left.Primitive().Kind() != values.KindSymbol {
			return nil, nil, causalityerrors.MachineError("type mismatch: malformed record field tag")
		}
		name := entry.Left.Primitive().AsSymbol()
		fields[name] = entry.Right
		order = append(order, name)
		chain = rest.Right
	}
}

func buildChain(ms *machine.MachineState, order []string, fields map[string]values.MachineValue) (values.MachineValue, error) {
	acc := values.FromPrimitive(values.Unit())
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		entry, err := ms.MakePair(values.FromPrimitive(values.Symbol(name)), fields[name])
		if err != nil {
			return values.MachineValue{}, err
		}
		acc, err = ms.MakePair(entry, acc)
		if err != nil {
			return values.MachineValue{}, err
		}
	}
	return acc, nil
}

// readFieldMorphism builds the built-in that reads a named field off a
// record chain, discarding mode/location (informational annotations only,
// per spec.md §3 — no runtime access-control layer enforces them here).
func readFieldMorphism(ctx *context, field string) (*machine.Morphism, error) {
	return machine.NewBuiltinMorphism(ctx.hasher, "read-field:"+field, func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		fields, _, err := walkChain(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		v, ok := fields[field]
		if !ok {
			return values.MachineValue{}, causalityerrors.TypeError("record has no field %q", field)
		}
		return v, nil
	})
}

// updateFieldMorphism builds the built-in that replaces a named field's
// value. Input is (record, newValue) tensored together by the caller.
func updateFieldMorphism(ctx *context, field string) (*machine.Morphism, error) {
	return machine.NewBuiltinMorphism(ctx.hasher, "update-field:"+field, func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		fields, order, err := walkChain(ms, p.Left)
		if err != nil {
			return values.MachineValue{}, err
		}
		if _, ok := fields[field]; !ok {
			return values.MachineValue{}, causalityerrors.TypeError("record has no field %q", field)
		}
		fields[field] = p.Right
		return buildChain(ms, order, fields)
	})
}

// projectMorphism builds the built-in that narrows a record to exactly
// the named fields, in the order given.
func projectMorphism(ctx *context, names []string) (*machine.Morphism, error) {
	return machine.NewBuiltinMorphism(ctx.hasher, "project", func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		fields, _, err := walkChain(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		kept := make(map[string]values.MachineValue, len(names))
		for _, name := range names {
			v, ok := fields[name]
			if !ok {
				return values.MachineValue{}, causalityerrors.TypeError("record has no field %q", name)
			}
			kept[name] = v
		}
		return buildChain(ms, append([]string(nil), names...), kept)
	})
}

// restrictMorphism builds the built-in that removes the named fields.
func restrictMorphism(ctx *context, names []string) (*machine.Morphism, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	return machine.NewBuiltinMorphism(ctx.hasher, "restrict", func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		fields, order, err := walkChain(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		var keptOrder []string
		for _, name := range order {
			if !drop[name] {
				keptOrder = append(keptOrder, name)
			}
		}
		return buildChain(ms, keptOrder, fields)
	})
}

// extendMorphism builds the built-in that adds field:value to a record.
// Input is (record, value) tensored together by the caller.
func extendMorphism(ctx *context, field string) (*machine.Morphism, error) {
	return machine.NewBuiltinMorphism(ctx.hasher, "extend:"+field, func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		fields, order, err := walkChain(ms, p.Left)
		if err != nil {
			return values.MachineValue{}, err
		}
		if _, ok := fields[field]; ok {
			return values.MachineValue{}, causalityerrors.TypeError("record already has field %q", field)
		}
		fields[field] = p.Right
		return buildChain(ms, append(order, field), fields)
	})
}

// diffMorphism builds the built-in computing the fields in the left
// operand's record absent from the right's. Input is (a, b) tensored
// together by the caller.
func diffMorphism(ctx *context) (*machine.Morphism, error) {
	return machine.NewBuiltinMorphism(ctx.hasher, "diff", func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		aFields, aOrder, err := walkChain(ms, p.Left)
		if err != nil {
			return values.MachineValue{}, err
		}
		_, bOrder, err := walkChain(ms, p.Right)
		if err != nil {
			return values.MachineValue{}, err
		}
		inB := make(map[string]bool, len(bOrder))
		for _, name := range bOrder {
			inB[name] = true
		}
		var keptOrder []string
		for _, name := range aOrder {
			if !inB[name] {
				keptOrder = append(keptOrder, name)
			}
		}
		return buildChain(ms, keptOrder, aFields)
	})
}
