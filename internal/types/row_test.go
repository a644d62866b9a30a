package types

import (
	"testing"

	"github.com/causality-labs/causality/internal/values"
)

func recordFixture() *Type {
	return Record([]Field{
		{Name: "amount", Type: Base(BaseInt, values.Linear)},
		{Name: "owner", Type: Base(BaseSymbol, values.Unrestricted)},
	}, nil, values.Linear)
}

func TestProjectRowKeepsOnlyNamedFields(t *testing.T) {
	projected, err := ProjectRow(recordFixture(), []string{"owner"})
	if err != nil {
		t.Fatal(err)
	}
	if len(projected.Fields()) != 1 || projected.Fields()[0].Name != "owner" {
		t.Fatalf("unexpected projected fields: %+v", projected.Fields())
	}
}

func TestProjectRowRejectsUnknownField(t *testing.T) {
	if _, err := ProjectRow(recordFixture(), []string{"nonexistent"}); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestRestrictRowDropsNamedFields(t *testing.T) {
	restricted, err := RestrictRow(recordFixture(), []string{"amount"})
	if err != nil {
		t.Fatal(err)
	}
	if len(restricted.Fields()) != 1 || restricted.Fields()[0].Name != "owner" {
		t.Fatalf("unexpected restricted fields: %+v", restricted.Fields())
	}
}

func TestExtendRowAddsFieldRejectsDuplicate(t *testing.T) {
	extended, err := ExtendRow(recordFixture(), "memo", Base(BaseSymbol, values.Unrestricted))
	if err != nil {
		t.Fatal(err)
	}
	if len(extended.Fields()) != 3 {
		t.Fatalf("expected 3 fields after extend, got %d", len(extended.Fields()))
	}
	if _, err := ExtendRow(extended, "memo", Base(BaseSymbol, values.Unrestricted)); err == nil {
		t.Fatal("expected extend with a duplicate field name to fail")
	}
}

func TestDiffRowComputesFieldDifference(t *testing.T) {
	smaller := Record([]Field{{Name: "owner", Type: Base(BaseSymbol, values.Unrestricted)}}, nil, values.Linear)
	diff, err := DiffRow(recordFixture(), smaller)
	if err != nil {
		t.Fatal(err)
	}
	if len(diff.Fields()) != 1 || diff.Fields()[0].Name != "amount" {
		t.Fatalf("unexpected diff fields: %+v", diff.Fields())
	}
}
