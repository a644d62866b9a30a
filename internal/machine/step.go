package machine

import (
	causalityerrors "github.com/causality-labs/causality/internal/errors"
	"github.com/causality-labs/causality/internal/heap"
	"github.com/causality-labs/causality/internal/values"
)

// Step executes the instruction at ms.PC, then advances the program
// counter by one (spec.md §4.5: "every instruction advances the program
// counter by one on success"). Halts ms when PC moves past the last
// instruction (spec.md §4.6).
func Step(ms *MachineState) error {
	if ms.Halted {
		return causalityerrors.MachineError("step called on a halted machine")
	}
	if ms.PC >= len(ms.Program) {
		ms.Halted = true
		return nil
	}

	instr := ms.Program[ms.PC]
	if err := execute(ms, instr); err != nil {
		return err
	}
	if err := consumeInputs(ms, instr); err != nil {
		return err
	}

	ms.logger.WithFields(map[string]any{
		"pc":   ms.PC,
		"kind": instr,
	}).Debug("step")

	ms.tick++
	ms.PC++
	if ms.PC >= len(ms.Program) {
		ms.Halted = true
	}
	return nil
}

// consumeInputs marks every register an instruction names as input
// consumed, if its cell's linearity calls for it — spec.md §4.5's "all
// instructions preserve linearity (a linear input is consumed exactly by
// the instructions that name it as input)" implemented once, generically,
// rather than per opcode.
func consumeInputs(ms *MachineState, instr Instruction) error {
	for _, reg := range instr.ReadsFrom() {
		cell, err := ms.Registers.Cell(reg)
		if err != nil {
			return err
		}
		if err := cell.Consume(); err != nil {
			return err
		}
	}
	return nil
}

func execute(ms *MachineState, instr Instruction) error {
	switch i := instr.(type) {
	case Transform:
		return execTransform(ms, i)
	case Alloc:
		return execAlloc(ms, i)
	case Consume:
		return execConsume(ms, i)
	case Compose:
		return execCompose(ms, i)
	case Tensor:
		return execTensor(ms, i)
	default:
		return causalityerrors.MachineError("unknown instruction %T", instr)
	}
}

func execTransform(ms *MachineState, i Transform) error {
	morphCell, err := ms.Registers.Cell(i.Morph)
	if err != nil {
		return err
	}
	morphVal, err := morphCell.Extract()
	if err != nil {
		return causalityerrors.MachineError("consumed")
	}
	if morphVal.Kind() != values.KindValueRef && morphVal.Kind() != values.KindEffectRef {
		return causalityerrors.MachineError("type mismatch: morph register does not hold a morphism reference")
	}
	morph, ok := ms.Morphism(morphVal.RefId())
	if !ok {
		return causalityerrors.MachineError("type mismatch: unknown morphism %s", morphVal.RefId())
	}

	input, err := ms.Registers.Read(i.Input)
	if err != nil {
		return err
	}

	result, err := morph.Apply(ms, input)
	if err != nil {
		return err
	}
	return ms.SetRegister(i.Output, result, values.Unrestricted)
}

func execAlloc(ms *MachineState, i Alloc) error {
	typeVal, err := ms.Registers.Read(i.Type)
	if err != nil {
		return err
	}
	initVal, err := ms.Registers.Read(i.Init)
	if err != nil {
		return err
	}
	if typeVal.IsPrimitive() && typeVal.Primitive().Kind() == values.KindSymbol {
		declared := typeVal.Primitive().AsSymbol()
		if declared != "" && declared != values.GetType(initVal).Name {
			return causalityerrors.MachineError("type mismatch: alloc declared %q, got %q", declared, values.GetType(initVal).Name)
		}
	}

	id, err := ms.Heap.Alloc(initVal)
	if err != nil {
		return err
	}
	return ms.SetRegister(i.Output, values.ResourceRef(id), values.Linear)
}

func execConsume(ms *MachineState, i Consume) error {
	resourceVal, err := ms.Registers.Read(i.Resource)
	if err != nil {
		return err
	}
	if resourceVal.Kind() != values.KindResourceRef {
		return causalityerrors.MachineError("type mismatch: consume expects a resource reference")
	}

	value, err := ms.Heap.Consume(resourceVal.RefId())
	if err != nil {
		return err
	}

	nullifier, err := heap.DeriveNullifier(ms.hasher, resourceVal.RefId(), nil)
	if err != nil {
		return err
	}
	if err := ms.Nullifiers.Add(nullifier); err != nil {
		return err
	}

	return ms.SetRegister(i.Output, value, values.Unrestricted)
}

func execCompose(ms *MachineState, i Compose) error {
	firstVal, err := ms.Registers.Read(i.First)
	if err != nil {
		return err
	}
	secondVal, err := ms.Registers.Read(i.Second)
	if err != nil {
		return err
	}
	first, ok := ms.Morphism(firstVal.RefId())
	if !ok {
		return causalityerrors.MachineError("type mismatch: unknown morphism %s", firstVal.RefId())
	}
	second, ok := ms.Morphism(secondVal.RefId())
	if !ok {
		return causalityerrors.MachineError("type mismatch: unknown morphism %s", secondVal.RefId())
	}

	composed, err := NewComposedMorphism(ms.hasher, first, second)
	if err != nil {
		return err
	}
	ms.RegisterMorphism(composed)
	return ms.SetRegister(i.Output, values.ValueRef(composed.ID), values.Unrestricted)
}

func execTensor(ms *MachineState, i Tensor) error {
	leftCell, err := ms.Registers.Cell(i.Left)
	if err != nil {
		return err
	}
	rightCell, err := ms.Registers.Cell(i.Right)
	if err != nil {
		return err
	}
	leftVal, err := leftCell.Extract()
	if err != nil {
		return causalityerrors.MachineError("consumed")
	}
	rightVal, err := rightCell.Extract()
	if err != nil {
		return causalityerrors.MachineError("consumed")
	}

	id, err := pairId(ms.hasher, leftVal, rightVal)
	if err != nil {
		return err
	}
	ms.pairs[id] = Pair{Left: leftVal, Right: rightVal}

	linearity := combineLinearity(leftCell.Linearity(), rightCell.Linearity())
	return ms.SetRegister(i.Output, values.ValueRef(id), linearity)
}
