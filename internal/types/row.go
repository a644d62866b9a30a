package types

import causalityerrors "github.com/causality-labs/causality/internal/errors"

// Mode is a field's declared access discipline (spec.md §3's "field access
// is annotated with a location and a mode (read, write, read-write)").
type Mode string

const (
	ModeRead      Mode = "read"
	ModeWrite     Mode = "write"
	ModeReadWrite Mode = "read-write"
)

// The four row operations below work over a record type's field list.
// Each returns a *new* Record type; the original is never mutated.

// ProjectRow narrows rec to exactly the named fields, failing if any is
// absent from rec's declared fields. The result is a closed record; rec's
// row variable, if any, is not consulted.
func ProjectRow(rec *Type, fields []string) (*Type, error) {
	if rec.Kind() != KindRecord {
		return nil, causalityerrors.TypeError("project expects a record, got %s", rec)
	}
	kept := make([]Field, 0, len(fields))
	for _, name := range fields {
		f, ok := findField(rec, name)
		if !ok {
			return nil, causalityerrors.TypeError("record has no field %q", name)
		}
		kept = append(kept, f)
	}
	return Record(kept, nil, rec.Linearity()), nil
}

// RestrictRow removes the named fields from rec.
func RestrictRow(rec *Type, fields []string) (*Type, error) {
	if rec.Kind() != KindRecord {
		return nil, causalityerrors.TypeError("restrict expects a record, got %s", rec)
	}
	drop := make(map[string]bool, len(fields))
	for _, name := range fields {
		if _, ok := findField(rec, name); !ok {
			return nil, causalityerrors.TypeError("record has no field %q", name)
		}
		drop[name] = true
	}
	kept := make([]Field, 0, len(rec.Fields()))
	for _, f := range rec.Fields() {
		if !drop[f.Name] {
			kept = append(kept, f)
		}
	}
	return Record(kept, rec.Row(), rec.Linearity()), nil
}

// ExtendRow adds field:typ to rec, failing if the field already exists.
func ExtendRow(rec *Type, field string, typ *Type) (*Type, error) {
	if rec.Kind() != KindRecord {
		return nil, causalityerrors.TypeError("extend expects a record, got %s", rec)
	}
	if _, ok := findField(rec, field); ok {
		return nil, causalityerrors.TypeError("record already has field %q", field)
	}
	fields := append(append([]Field(nil), rec.Fields()...), Field{Name: field, Type: typ})
	return Record(fields, rec.Row(), rec.Linearity()), nil
}

// DiffRow computes the fields present in a but absent from b, per spec.md
// §3's row difference operation.
func DiffRow(a, b *Type) (*Type, error) {
	if a.Kind() != KindRecord || b.Kind() != KindRecord {
		return nil, causalityerrors.TypeError("diff expects two records, got %s and %s", a, b)
	}
	inB := make(map[string]bool, len(b.Fields()))
	for _, f := range b.Fields() {
		inB[f.Name] = true
	}
	var kept []Field
	for _, f := range a.Fields() {
		if !inB[f.Name] {
			kept = append(kept, f)
		}
	}
	return Record(kept, nil, a.Linearity()), nil
}

func findField(rec *Type, name string) (Field, bool) {
	for _, f := range rec.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
