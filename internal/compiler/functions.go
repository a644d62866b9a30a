package compiler

import (
	"fmt"
	"sort"

	"github.com/causality-labs/causality/internal/ca"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

// compileLambda lowers a Lambda term to a closure: its body is compiled in
// a fresh register space (functions.go's own little program), the
// enclosing program tensors the lambda's free variables out of the current
// registers into a capture chain, and a "closure-maker" built-in, when run
// on that chain, constructs the actual machine.Morphism from them (spec.md §4.9's
// "tensor of captured environment and code pointer").
func compileLambda(ctx *context, node expr.Node, id ca.ExprId) (machine.RegisterId, error) {
	fv, err := expr.FreeVars(ctx.store, id)
	if err != nil {
		return 0, err
	}
	freeNames := make([]string, 0, len(fv))
	for name := range fv {
		freeNames = append(freeNames, name)
	}
	sort.Strings(freeNames)

	child := newChildContext(ctx)
	paramReg := child.fresh()
	restoreParam := child.bind(node.Name, paramReg)

	freeChildRegs := make(map[string]machine.RegisterId, len(freeNames))
	for _, name := range freeNames {
		r := child.fresh()
		freeChildRegs[name] = r
		child.bind(name, r)
	}

	bodyReg, err := compileTerm(child, node.Sub[0])
	restoreParam()
	if err != nil {
		return 0, err
	}
	if bodyReg != machine.ResultRegister {
		identity, err := machine.IdentityMorphism(child.hasher)
		if err != nil {
			return 0, err
		}
		idReg := child.constant(values.ValueRef(identity.ID), values.Unrestricted)
		child.registerMorphism(identity)
		child.emit(machine.Transform{Morph: idReg, Input: bodyReg, Output: machine.ResultRegister})
	}

	literalEnv := make(map[machine.RegisterId]*values.RegisterCell, len(child.constants))
	for reg, v := range child.constants {
		literalEnv[reg] = values.NewCell(v, child.linearity[reg], 0)
	}
	ctx.morphisms = append(ctx.morphisms, child.morphisms...)

	childBody := child.program
	name := fmt.Sprintf("closure#%d", ctx.nextClosureIndex())

	chainReg, err := ctx.buildCaptureChain(freeNames)
	if err != nil {
		return 0, err
	}

	maker, err := machine.NewBuiltinMorphism(ctx.hasher, name, func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		captured, err := decodePositionalChain(ms, in, len(freeNames))
		if err != nil {
			return values.MachineValue{}, err
		}
		env := make(map[machine.RegisterId]*values.RegisterCell, len(literalEnv)+len(freeNames))
		for reg, cell := range literalEnv {
			env[reg] = cell
		}
		for i, fname := range freeNames {
			env[freeChildRegs[fname]] = values.NewCell(captured[i], values.Unrestricted, 0)
		}
		closure, err := machine.NewClosureMorphism(ms.Hasher(), name, paramReg, childBody, env)
		if err != nil {
			return values.MachineValue{}, err
		}
		ms.RegisterMorphism(closure)
		return values.ValueRef(closure.ID), nil
	})
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(maker)

	makerReg := ctx.constant(values.ValueRef(maker.ID), values.Unrestricted)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: makerReg, Input: chainReg, Output: out})
	return out, nil
}

// compileApply lowers Apply(fn, arg) directly to a Transform.
func compileApply(ctx *context, node expr.Node) (machine.RegisterId, error) {
	fnReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	argReg, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: fnReg, Input: argReg, Output: out})
	return out, nil
}

// decodePositionalChain unpacks a right-nested Tensor chain of n values,
// the layout context.buildCaptureChain produces.
func decodePositionalChain(ms *machine.MachineState, chain values.MachineValue, n int) ([]values.MachineValue, error) {
	out := make([]values.MachineValue, n)
	for i := 0; i < n; i++ {
		p, err := machine.ResolvePair(ms, chain)
		if err != nil {
			return nil, err
		}
		out[i] = p.Left
		chain = p.Right
	}
	return out, nil
}
