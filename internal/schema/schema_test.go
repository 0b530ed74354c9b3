package schema

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"string":    String,
		"number":    Number,
		"boolean":   Boolean,
		"reference": Reference,
	}
	for tag, want := range cases {
		got, err := ParseKind(tag)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tag, err)
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", tag, got, want)
		}
		if got.String() != tag {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tag)
		}
	}
}

func TestParseKind_Unknown(t *testing.T) {
	if _, err := ParseKind("date"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestLabelAttribute_FirstString(t *testing.T) {
	res := Resource{
		Category: "warehouse",
		Attributes: []Attribute{
			{Name: "capacity", Kind: Number},
			{Name: "location", Kind: String},
			{Name: "notes", Kind: String},
		},
	}
	name, ok := res.LabelAttribute()
	if !ok || name != "location" {
		t.Errorf("LabelAttribute = %q (%v), want location", name, ok)
	}
}

func TestLabelAttribute_NoStringAttribute(t *testing.T) {
	res := Resource{
		Category:   "counter",
		Attributes: []Attribute{{Name: "count", Kind: Number}},
	}
	if _, ok := res.LabelAttribute(); ok {
		t.Error("expected no label attribute")
	}
}

func TestNewTable_DuplicateCategory(t *testing.T) {
	_, err := NewTable([]Resource{
		{Category: "item"},
		{Category: "item"},
	})
	if err == nil {
		t.Fatal("expected duplicate category error")
	}
}

func TestTable_PreservesDeclarationOrder(t *testing.T) {
	table, err := NewTable([]Resource{
		{Category: "zeta"},
		{Category: "alpha"},
	})
	if err != nil {
		t.Fatal(err)
	}
	resources := table.Resources()
	if resources[0].Category != "zeta" || resources[1].Category != "alpha" {
		t.Errorf("order = %v", resources)
	}

	if _, ok := table.Resource("alpha"); !ok {
		t.Error("alpha not found")
	}
	if _, ok := table.Resource("missing"); ok {
		t.Error("missing should not resolve")
	}
}
