package values

// Linearity tags how many times a value may be used. It is carried as an
// explicit field at construction time rather than as a type-level phantom
// parameter: Go has no
// phantom type parameters, so the "compile-time tag" becomes a checked
// invariant enforced wherever a value or register cell is consumed.
type Linearity int

const (
	// Linear values must be used exactly once.
	Linear Linearity = iota
	// Affine values may be used at most once (may be dropped unused).
	Affine
	// Relevant values must be used at least once (may be used more than
	// once). Tracked by the typechecker at bind-site granularity; at the
	// register-cell level a relevant cell behaves like Unrestricted (see
	// RegisterCell's doc comment).
	Relevant
	// Unrestricted values may be read any number of times.
	Unrestricted
)

// String renders the tag for diagnostics.
func (l Linearity) String() string {
	switch l {
	case Linear:
		return "linear"
	case Affine:
		return "affine"
	case Relevant:
		return "relevant"
	case Unrestricted:
		return "unrestricted"
	default:
		return "unknown"
	}
}

// ConsumesOnUse reports whether a value of this linearity is marked
// consumed the first time it's used (Linear and Affine), as opposed to
// remaining usable indefinitely (Relevant and Unrestricted).
func (l Linearity) ConsumesOnUse() bool {
	return l == Linear || l == Affine
}
