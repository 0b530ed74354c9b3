// Package schema holds the per-category attribute declarations that drive
// routing, validation, and form rendering.
package schema

import "fmt"

// Kind is the closed set of attribute types.
type Kind int

const (
	// String is free text, neutralized by the escaping codec.
	String Kind = iota
	// Number is a non-negative numeric value.
	Number
	// Boolean is a checkbox-style flag; absent means false.
	Boolean
	// Reference holds the identifier of a record in another category. The
	// attribute name doubles as the target category.
	Reference
)

// ParseKind maps a configuration type tag to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return String, nil
	case "number":
		return Number, nil
	case "boolean":
		return Boolean, nil
	case "reference":
		return Reference, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attribute is one declared field of a resource.
type Attribute struct {
	Name string
	Kind Kind
}

// Target returns the category a reference attribute points at.
func (a Attribute) Target() string {
	return a.Name
}

// Resource declares one resource category with its ordered attributes.
type Resource struct {
	Category   string
	Attributes []Attribute
}

// LabelAttribute returns the name of the first string-typed attribute, used
// to label display options for records of this category. The first string
// attribute is a heuristic: a long free-text field declared first produces
// poor (but not incorrect) labels, so configs are expected to declare short
// identifying attributes before prose ones.
func (r Resource) LabelAttribute() (string, bool) {
	for _, a := range r.Attributes {
		if a.Kind == String {
			return a.Name, true
		}
	}
	return "", false
}

// Table is the immutable category lookup built once at startup. It preserves
// the declaration order of the configured resources.
type Table struct {
	byCategory map[string]Resource
	order      []string
}

// NewTable builds a Table from the configured resources.
func NewTable(resources []Resource) (*Table, error) {
	t := &Table{byCategory: make(map[string]Resource, len(resources))}
	for _, r := range resources {
		if _, dup := t.byCategory[r.Category]; dup {
			return nil, fmt.Errorf("duplicate category %q", r.Category)
		}
		t.byCategory[r.Category] = r
		t.order = append(t.order, r.Category)
	}
	return t, nil
}

// Resource looks up a category's declaration.
func (t *Table) Resource(category string) (Resource, bool) {
	r, ok := t.byCategory[category]
	return r, ok
}

// Resources returns all declarations in configuration order.
func (t *Table) Resources() []Resource {
	out := make([]Resource, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, t.byCategory[c])
	}
	return out
}
