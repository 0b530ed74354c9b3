package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/starford/othala/internal/populate"
	"github.com/starford/othala/internal/record"
	"github.com/starford/othala/internal/resource"
	"github.com/starford/othala/internal/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views renders the embedded HTML templates.
type Views struct {
	tmpl *template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{tmpl: tmpl}, nil
}

func (v *Views) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := v.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", slog.String("template", name), slog.String("error", err.Error()))
	}
}

// field is one attribute value prepared for display.
type field struct {
	Name  string
	Value any
}

// row is one record in a list view, trimmed to the configured detail level.
type row struct {
	ID     string
	Fields []field
}

// formField is one input of a create or edit form.
type formField struct {
	Name     string
	Kind     string
	Value    any
	Checked  bool
	Options  []populate.Option
	Selected string
}

// basePage carries what every page needs: the navigation categories.
type basePage struct {
	Title      string
	Categories []string
}

func newBasePage(title string, table *schema.Table) basePage {
	var categories []string
	for _, res := range table.Resources() {
		categories = append(categories, res.Category)
	}
	return basePage{Title: title, Categories: categories}
}

// fieldsFor projects a record onto the given attributes, in attribute order.
func fieldsFor(attrs []schema.Attribute, rec *record.Record) []field {
	fields := make([]field, 0, len(attrs))
	for _, attr := range attrs {
		v, _ := rec.Get(attr.Name)
		if v == nil {
			v = ""
		}
		fields = append(fields, field{Name: attr.Name, Value: v})
	}
	return fields
}

// formFieldsFor prepares the inputs of a create or edit form from the
// populated form data.
func formFieldsFor(form *resource.FormData) []formField {
	fields := make([]formField, 0, len(form.Resource.Attributes))
	for _, attr := range form.Resource.Attributes {
		f := formField{Name: attr.Name, Kind: attr.Kind.String(), Value: ""}
		if form.Options != nil {
			if opts, ok := form.Options.Get(attr.Name); ok {
				f.Options = opts
			}
		}
		if form.Existing != nil {
			if v, ok := form.Existing.Get(attr.Name); ok && v != nil {
				f.Value = v
				switch attr.Kind {
				case schema.Boolean:
					f.Checked = v == true
				case schema.Reference:
					f.Selected = fmt.Sprint(v)
				}
			}
		}
		fields = append(fields, f)
	}
	return fields
}
