package machine

import (
	"fmt"
	"strings"
)

// Disassemble renders program as a readable, line-per-instruction listing
// for debugging traces (spec.md §4.5's Layer 0 instructions, rendered the
// way the teacher's bytecode package ships its own disassembler).
func Disassemble(program Program) string {
	var b strings.Builder
	for pc, instr := range program {
		fmt.Fprintf(&b, "%04d  %s\n", pc, disassembleOne(instr))
	}
	return b.String()
}

func disassembleOne(instr Instruction) string {
	switch i := instr.(type) {
	case Transform:
		return fmt.Sprintf("transform r%d(r%d) -> r%d", i.Morph, i.Input, i.Output)
	case Alloc:
		return fmt.Sprintf("alloc type=r%d init=r%d -> r%d", i.Type, i.Init, i.Output)
	case Consume:
		return fmt.Sprintf("consume r%d -> r%d", i.Resource, i.Output)
	case Compose:
		return fmt.Sprintf("compose r%d;r%d -> r%d", i.First, i.Second, i.Output)
	case Tensor:
		return fmt.Sprintf("tensor r%d,r%d -> r%d", i.Left, i.Right, i.Output)
	default:
		return fmt.Sprintf("<unknown instruction %T>", instr)
	}
}
