package types

import "fmt"

// SessionKind enumerates the session type constructors (spec.md §3's
// session types for describing protocol-shaped effect sequences).
type SessionKind uint8

const (
	SessionSend SessionKind = iota
	SessionReceive
	SessionInternalChoice
	SessionExternalChoice
	SessionEnd
	SessionRec
	SessionVar
)

// Session is a session type expression, mirroring Type's closed-variant
// struct representation.
type Session struct {
	kind SessionKind

	// Send/Receive carry the payload type and continuation.
	payload *Type
	cont    *Session

	// InternalChoice/ExternalChoice carry labeled branches.
	branches map[string]*Session

	// Rec/Var carry the recursion variable name; Rec also carries its body.
	name string
	body *Session
}

// Send constructs a session that sends payload then continues as cont.
func Send(payload *Type, cont *Session) *Session {
	return &Session{kind: SessionSend, payload: payload, cont: cont}
}

// Receive constructs a session that receives payload then continues as cont.
func Receive(payload *Type, cont *Session) *Session {
	return &Session{kind: SessionReceive, payload: payload, cont: cont}
}

// InternalChoice constructs a session choosing among branches (the
// chooser is this end of the protocol).
func InternalChoice(branches map[string]*Session) *Session {
	return &Session{kind: SessionInternalChoice, branches: cloneBranches(branches)}
}

// ExternalChoice constructs a session offering branches (the other end
// chooses).
func ExternalChoice(branches map[string]*Session) *Session {
	return &Session{kind: SessionExternalChoice, branches: cloneBranches(branches)}
}

// End constructs the terminated session.
func End() *Session { return &Session{kind: SessionEnd} }

// Rec constructs a recursive session binding name in body.
func Rec(name string, body *Session) *Session {
	return &Session{kind: SessionRec, name: name, body: body}
}

// SessionVarRef references a session bound by an enclosing Rec.
func SessionVarRef(name string) *Session {
	return &Session{kind: SessionVar, name: name}
}

func cloneBranches(b map[string]*Session) map[string]*Session {
	out := make(map[string]*Session, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Kind reports which of the seven session constructors this is.
func (s *Session) Kind() SessionKind { return s.kind }

// Payload returns the Send/Receive payload type.
func (s *Session) Payload() *Type { return s.payload }

// Continuation returns the Send/Receive continuation.
func (s *Session) Continuation() *Session { return s.cont }

// Branches returns the InternalChoice/ExternalChoice branch map.
func (s *Session) Branches() map[string]*Session { return s.branches }

// Name returns the Rec/Var recursion variable name.
func (s *Session) Name() string { return s.name }

// Body returns the Rec's bound body.
func (s *Session) Body() *Session { return s.body }

// Dual swaps send/receive and internal/external choice throughout the
// protocol, producing the type the other endpoint must present — the
// defining duality relation session types exist to check (spec.md §3).
func (s *Session) Dual() *Session {
	if s == nil {
		return nil
	}
	switch s.kind {
	case SessionSend:
		return Receive(s.payload, s.cont.Dual())
	case SessionReceive:
		return Send(s.payload, s.cont.Dual())
	case SessionInternalChoice:
		return ExternalChoice(dualBranches(s.branches))
	case SessionExternalChoice:
		return InternalChoice(dualBranches(s.branches))
	case SessionEnd:
		return End()
	case SessionRec:
		return Rec(s.name, s.body.Dual())
	case SessionVar:
		return SessionVarRef(s.name)
	default:
		return nil
	}
}

func dualBranches(b map[string]*Session) map[string]*Session {
	out := make(map[string]*Session, len(b))
	for label, s := range b {
		out[label] = s.Dual()
	}
	return out
}

// Equal implements structural session equality.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case SessionSend, SessionReceive:
		return s.payload.Equal(other.payload) && s.cont.Equal(other.cont)
	case SessionInternalChoice, SessionExternalChoice:
		if len(s.branches) != len(other.branches) {
			return false
		}
		for label, branch := range s.branches {
			ob, ok := other.branches[label]
			if !ok || !branch.Equal(ob) {
				return false
			}
		}
		return true
	case SessionEnd:
		return true
	case SessionRec:
		return s.name == other.name && s.body.Equal(other.body)
	case SessionVar:
		return s.name == other.name
	default:
		return false
	}
}

// String pretty-prints the session for diagnostics.
func (s *Session) String() string {
	if s == nil {
		return "<nil session>"
	}
	switch s.kind {
	case SessionSend:
		return fmt.Sprintf("!%s.%s", s.payload, s.cont)
	case SessionReceive:
		return fmt.Sprintf("?%s.%s", s.payload, s.cont)
	case SessionInternalChoice:
		return fmt.Sprintf("⊕%s", branchNames(s.branches))
	case SessionExternalChoice:
		return fmt.Sprintf("&%s", branchNames(s.branches))
	case SessionEnd:
		return "end"
	case SessionRec:
		return fmt.Sprintf("μ%s.%s", s.name, s.body)
	case SessionVar:
		return s.name
	default:
		return "<invalid session>"
	}
}

func branchNames(b map[string]*Session) string {
	out := "{"
	first := true
	for label, s := range b {
		if !first {
			out += ", "
		}
		first = false
		out += label + ": " + s.String()
	}
	return out + "}"
}
