// Package record models a store document as an ordered set of named fields.
//
// Attribute order is significant throughout the application: it drives both
// validation order and form-field order. A plain map would lose it, so the
// record is backed by an insertion-ordered map with an order-preserving JSON
// round trip.
package record

import (
	"iter"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IDField is the identifier field name used by the document store.
const IDField = "_id"

// Record is a flat mapping from attribute name to scalar value that
// preserves insertion order.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// New returns an empty record.
func New() *Record {
	return &Record{fields: orderedmap.New[string, any]()}
}

// Set appends the field, or replaces its value in place if already present.
func (r *Record) Set(name string, value any) {
	r.fields.Set(name, value)
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	return r.fields.Get(name)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return r.fields.Len()
}

// ID returns the record's store identifier, or "" if it has none.
func (r *Record) ID() string {
	v, ok := r.fields.Get(IDField)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// All iterates fields in insertion order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string {
	names := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// MarshalJSON writes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON reads a JSON object, preserving its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, any]()
	if err := om.UnmarshalJSON(data); err != nil {
		return err
	}
	r.fields = om
	return nil
}
