package errors

import (
	"fmt"
	"strings"
)

// StackFrame represents a single return point on the machine's call stack:
// the program counter instruction composition left behind, and the morphism
// (if named) that was being applied when the call was made.
type StackFrame struct {
	ReturnPC     int
	MorphismName string
}

// String returns a formatted representation of the frame, e.g.
// "compose [pc: 4]". If the morphism has no name, only the PC is shown.
func (sf StackFrame) String() string {
	if sf.MorphismName == "" {
		return fmt.Sprintf("[pc: %d]", sf.ReturnPC)
	}
	return fmt.Sprintf("%s [pc: %d]", sf.MorphismName, sf.ReturnPC)
}

// StackTrace represents the machine's call stack as a sequence of frames,
// ordered from oldest (bottom) to newest (top).
type StackTrace []StackFrame

// String renders the trace most-recent-first, one frame per line.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Reverse returns a new StackTrace with frames in reverse order.
func (st StackTrace) Reverse() StackTrace {
	reversed := make(StackTrace, len(st))
	for i, frame := range st {
		reversed[len(st)-1-i] = frame
	}
	return reversed
}

// Top returns the most recent frame, or nil if the trace is empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Bottom returns the oldest frame, or nil if the trace is empty.
func (st StackTrace) Bottom() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[0]
}

// Depth returns the number of frames in the trace.
func (st StackTrace) Depth() int {
	return len(st)
}

// NewStackFrame creates a new stack frame for the given return PC.
func NewStackFrame(returnPC int, morphismName string) StackFrame {
	return StackFrame{ReturnPC: returnPC, MorphismName: morphismName}
}

// NewStackTrace creates a new empty stack trace.
func NewStackTrace() StackTrace {
	return make(StackTrace, 0)
}

// AttachFrame records frame on err's call stack if err is a MachineErr,
// placing it before the frames already attached (each enclosing invocation
// adds its frame as the error unwinds, so the trace stays ordered oldest
// call first), and returns err unchanged otherwise — stack traces are
// specific to machine-level failures, not the other nine error kinds.
func AttachFrame(err error, frame StackFrame) error {
	me, ok := err.(*MachineErr)
	if !ok {
		return err
	}
	me.Trace = append(StackTrace{frame}, me.Trace...)
	return me
}
