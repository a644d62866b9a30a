package compiler

import (
	"github.com/causality-labs/causality/internal/ca"
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/expr"
	"github.com/causality-labs/causality/internal/machine"
	"github.com/causality-labs/causality/internal/values"
)

// Result is everything Compile produces: the Layer 0 program plus the
// side tables a caller must install on a machine.MachineState before
// running it — constant registers (there is no "load literal" opcode among
// the five) and the morphisms (built-ins, closure-makers, row operations)
// the program's Transform instructions reference.
type Result struct {
	Program   machine.Program
	Constants map[machine.RegisterId]values.MachineValue
	Linearity map[machine.RegisterId]values.Linearity
	Morphisms []*machine.Morphism
}

// Seed installs Constants and Morphisms onto ms, the step pkg/causality's
// facade performs before calling machine.Run.
func (r *Result) Seed(ms *machine.MachineState) error {
	for _, m := range r.Morphisms {
		ms.RegisterMorphism(m)
	}
	for reg, v := range r.Constants {
		if err := ms.SetRegister(reg, v, r.Linearity[reg]); err != nil {
			return err
		}
	}
	return nil
}

// Compile lowers the term named by id to a Layer 0 program (scenario S5:
// compiling and running (λx.x) 11 yields Primitive(Int 11)).
func Compile(s *expr.Store, hasher ca.Hasher, id ca.ExprId) (*Result, error) {
	ctx := newContext(s, hasher)
	resultReg, err := compileTerm(ctx, id)
	if err != nil {
		return nil, err
	}
	if resultReg != machine.ResultRegister {
		identity, err := machine.IdentityMorphism(hasher)
		if err != nil {
			return nil, err
		}
		idReg := ctx.constant(values.ValueRef(identity.ID), values.Unrestricted)
		ctx.registerMorphism(identity)
		ctx.emit(machine.Transform{Morph: idReg, Input: resultReg, Output: machine.ResultRegister})
	}
	return &Result{
		Program:   ctx.program,
		Constants: ctx.constants,
		Linearity: ctx.linearity,
		Morphisms: ctx.morphisms,
	}, nil
}

// compileTerm recursively lowers the term named by id, returning the
// register its value ends up in.
func compileTerm(ctx *context, id ca.ExprId) (machine.RegisterId, error) {
	node, ok := ctx.store.Retrieve(id)
	if !ok {
		return 0, causalityerrors.InvalidExpression(id.ToHex())
	}

	switch node.Kind {
	case expr.KindUnit:
		return ctx.constant(values.FromPrimitive(values.Unit()), values.Unrestricted), nil

	case expr.KindLit:
		return ctx.constant(values.FromPrimitive(node.Lit), values.Unrestricted), nil

	case expr.KindVar:
		reg, ok := ctx.lookup(node.Name)
		if !ok {
			return 0, causalityerrors.TypeError("unbound variable %q", node.Name)
		}
		return reg, nil

	case expr.KindLetUnit:
		if _, err := compileTerm(ctx, node.Sub[0]); err != nil {
			return 0, err
		}
		return compileTerm(ctx, node.Sub[1])

	case expr.KindTensor:
		return compileTensor(ctx, node)

	case expr.KindLetTensor:
		return compileLetTensor(ctx, node)

	case expr.KindInl:
		return compileInjection(ctx, node.Sub[0], false)

	case expr.KindInr:
		return compileInjection(ctx, node.Sub[0], true)

	case expr.KindCase:
		return compileCase(ctx, node)

	case expr.KindLambda:
		return compileLambda(ctx, node, id)

	case expr.KindApply:
		return compileApply(ctx, node)

	case expr.KindAlloc:
		return compileAlloc(ctx, node)

	case expr.KindConsume:
		return compileConsume(ctx, node)

	case expr.KindReadField:
		return compileReadField(ctx, node)

	case expr.KindUpdateField:
		return compileUpdateField(ctx, node)

	case expr.KindProject:
		return compileProject(ctx, node)

	case expr.KindRestrict:
		return compileRestrict(ctx, node)

	case expr.KindExtend:
		return compileExtend(ctx, node)

	case expr.KindDiff:
		return compileDiff(ctx, node)

	case expr.KindLet:
		return compileLet(ctx, node)

	case expr.KindIf:
		return compileIf(ctx, node)

	case expr.KindQuote:
		return ctx.constant(values.ExprRef(node.Sub[0]), values.Unrestricted), nil

	case expr.KindList:
		return compileList(ctx, node)

	default:
		return 0, causalityerrors.CompilationError("unsupported term kind %v", node.Kind)
	}
}

func compileTensor(ctx *context, node expr.Node) (machine.RegisterId, error) {
	left, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	right, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	out := ctx.fresh()
	ctx.emit(machine.Tensor{Left: left, Right: right, Output: out})
	return out, nil
}

func compileLetTensor(ctx *context, node expr.Node) (machine.RegisterId, error) {
	pair, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}

	// A linear pair's register may be read as an instruction input exactly
	// once (consumeInputs), but destructuring needs the value read twice —
	// once per projection. Route it through a single identity Transform
	// first: its output register is Unrestricted (execTransform always
	// writes Unrestricted), so both projections can then read it freely.
	identity, err := machine.IdentityMorphism(ctx.hasher)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(identity)
	shared := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(identity.ID), values.Unrestricted), Input: pair, Output: shared})

	leftUnpack, err := unpackMorphism(ctx, true)
	if err != nil {
		return 0, err
	}
	rightUnpack, err := unpackMorphism(ctx, false)
	if err != nil {
		return 0, err
	}
	leftReg := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(leftUnpack.ID), values.Unrestricted), Input: shared, Output: leftReg})
	rightReg := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(rightUnpack.ID), values.Unrestricted), Input: shared, Output: rightReg})

	restoreLeft := ctx.bind(node.Fields[0], leftReg)
	restoreRight := ctx.bind(node.Fields[1], rightReg)
	defer restoreLeft()
	defer restoreRight()
	return compileTerm(ctx, node.Sub[1])
}

func unpackMorphism(ctx *context, left bool) (*machine.Morphism, error) {
	name := "unpack-right"
	if left {
		name = "unpack-left"
	}
	m, err := machine.NewBuiltinMorphism(ctx.hasher, name, func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		p, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		if left {
			return p.Left, nil
		}
		return p.Right, nil
	})
	if err != nil {
		return nil, err
	}
	ctx.registerMorphism(m)
	return m, nil
}

// compileInjection lowers Inl/Inr to a tagged pair (false/true tag, payload).
func compileInjection(ctx *context, payload ca.ExprId, tag bool) (machine.RegisterId, error) {
	payloadReg, err := compileTerm(ctx, payload)
	if err != nil {
		return 0, err
	}
	tagReg := ctx.constant(values.FromPrimitive(values.Bool(tag)), values.Unrestricted)
	out := ctx.fresh()
	ctx.emit(machine.Tensor{Left: tagReg, Right: payloadReg, Output: out})
	return out, nil
}

// compileCase lowers Case(scrutinee, left, right), with left/right each
// themselves Lambda terms (see internal/expr's Case constructor), to a
// runtime dispatch built-in that picks a branch by the scrutinee's tag.
func compileCase(ctx *context, node expr.Node) (machine.RegisterId, error) {
	scrutineeReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	leftReg, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	rightReg, err := compileTerm(ctx, node.Sub[2])
	if err != nil {
		return 0, err
	}
	branchesReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: leftReg, Right: rightReg, Output: branchesReg})
	dispatchInputReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: scrutineeReg, Right: branchesReg, Output: dispatchInputReg})

	dispatch, err := machine.NewBuiltinMorphism(ctx.hasher, "case-dispatch", func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		outer, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		sum, err := machine.ResolvePair(ms, outer.Left)
		if err != nil {
			return values.MachineValue{}, err
		}
		branches, err := machine.ResolvePair(ms, outer.Right)
		if err != nil {
			return values.MachineValue{}, err
		}
		if !sum.Left.IsPrimitive() || sum.Left.Primitive().Kind() != values.KindBool {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: case scrutinee is not a tagged sum")
		}
		chosenRef := branches.Left
		if sum.Left.Primitive().AsBool() {
			chosenRef = branches.Right
		}
		chosen, ok := ms.Morphism(chosenRef.RefId())
		if !ok {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: unknown case branch morphism")
		}
		return chosen.Apply(ms, sum.Right)
	})
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(dispatch)

	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(dispatch.ID), values.Unrestricted), Input: dispatchInputReg, Output: out})
	return out, nil
}

func compileAlloc(ctx *context, node expr.Node) (machine.RegisterId, error) {
	initReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	typeReg := ctx.constant(values.FromPrimitive(values.Symbol("")), values.Unrestricted)
	out := ctx.fresh()
	ctx.emit(machine.Alloc{Type: typeReg, Init: initReg, Output: out})
	return out, nil
}

func compileConsume(ctx *context, node expr.Node) (machine.RegisterId, error) {
	resourceReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	out := ctx.fresh()
	ctx.emit(machine.Consume{Resource: resourceReg, Output: out})
	return out, nil
}

func compileReadField(ctx *context, node expr.Node) (machine.RegisterId, error) {
	recReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	m, err := readFieldMorphism(ctx, node.Name)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: recReg, Output: out})
	return out, nil
}

func compileUpdateField(ctx *context, node expr.Node) (machine.RegisterId, error) {
	recReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	valReg, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	pairReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: recReg, Right: valReg, Output: pairReg})
	m, err := updateFieldMorphism(ctx, node.Name)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: pairReg, Output: out})
	return out, nil
}

func compileProject(ctx *context, node expr.Node) (machine.RegisterId, error) {
	recReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	m, err := projectMorphism(ctx, node.Fields)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: recReg, Output: out})
	return out, nil
}

func compileRestrict(ctx *context, node expr.Node) (machine.RegisterId, error) {
	recReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	m, err := restrictMorphism(ctx, node.Fields)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: recReg, Output: out})
	return out, nil
}

func compileExtend(ctx *context, node expr.Node) (machine.RegisterId, error) {
	recReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	valReg, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	pairReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: recReg, Right: valReg, Output: pairReg})
	m, err := extendMorphism(ctx, node.Name)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: pairReg, Output: out})
	return out, nil
}

func compileDiff(ctx *context, node expr.Node) (machine.RegisterId, error) {
	aReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	bReg, err := compileTerm(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	pairReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: aReg, Right: bReg, Output: pairReg})
	m, err := diffMorphism(ctx)
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(m)
	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(m.ID), values.Unrestricted), Input: pairReg, Output: out})
	return out, nil
}

func compileLet(ctx *context, node expr.Node) (machine.RegisterId, error) {
	valueReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	restore := ctx.bind(node.Name, valueReg)
	defer restore()
	return compileTerm(ctx, node.Sub[1])
}

// compileIf lowers If by compiling then/else as zero-argument closures and
// dispatching on cond the same way compileCase dispatches on a sum's tag.
func compileIf(ctx *context, node expr.Node) (machine.RegisterId, error) {
	condReg, err := compileTerm(ctx, node.Sub[0])
	if err != nil {
		return 0, err
	}
	thenThunk, err := compileThunk(ctx, node.Sub[1])
	if err != nil {
		return 0, err
	}
	elseThunk, err := compileThunk(ctx, node.Sub[2])
	if err != nil {
		return 0, err
	}
	branchesReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: thenThunk, Right: elseThunk, Output: branchesReg})
	dispatchInputReg := ctx.fresh()
	ctx.emit(machine.Tensor{Left: condReg, Right: branchesReg, Output: dispatchInputReg})

	dispatch, err := machine.NewBuiltinMorphism(ctx.hasher, "if-dispatch", func(ms *machine.MachineState, in values.MachineValue) (values.MachineValue, error) {
		outer, err := machine.ResolvePair(ms, in)
		if err != nil {
			return values.MachineValue{}, err
		}
		if !outer.Left.IsPrimitive() || outer.Left.Primitive().Kind() != values.KindBool {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: if condition is not a bool")
		}
		branches, err := machine.ResolvePair(ms, outer.Right)
		if err != nil {
			return values.MachineValue{}, err
		}
		chosenRef := branches.Left
		if !outer.Left.Primitive().AsBool() {
			chosenRef = branches.Right
		}
		chosen, ok := ms.Morphism(chosenRef.RefId())
		if !ok {
			return values.MachineValue{}, causalityerrors.MachineError("type mismatch: unknown if branch morphism")
		}
		return chosen.Apply(ms, values.FromPrimitive(values.Unit()))
	})
	if err != nil {
		return 0, err
	}
	ctx.registerMorphism(dispatch)

	out := ctx.fresh()
	ctx.emit(machine.Transform{Morph: ctx.constant(values.ValueRef(dispatch.ID), values.Unrestricted), Input: dispatchInputReg, Output: out})
	return out, nil
}

// compileThunk compiles body as a parameterless closure (its param is bound
// but never referenced), returning the register holding a ValueRef to the
// resulting morphism.
func compileThunk(ctx *context, body ca.ExprId) (machine.RegisterId, error) {
	wrapped, err := ctx.store.Lambda("_", body)
	if err != nil {
		return 0, err
	}
	node, ok := ctx.store.Retrieve(wrapped)
	if !ok {
		return 0, causalityerrors.InvalidExpression(wrapped.ToHex())
	}
	return compileLambda(ctx, node, wrapped)
}

func compileList(ctx *context, node expr.Node) (machine.RegisterId, error) {
	acc := ctx.constant(values.FromPrimitive(values.Unit()), values.Unrestricted)
	for i := len(node.Sub) - 1; i >= 0; i-- {
		itemReg, err := compileTerm(ctx, node.Sub[i])
		if err != nil {
			return 0, err
		}
		next := ctx.fresh()
		ctx.emit(machine.Tensor{Left: itemReg, Right: acc, Output: next})
		acc = next
	}
	return acc, nil
}
