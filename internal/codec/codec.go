// Package codec implements the reversible text sanitation applied to every
// stored field.
//
// Free text is round-tripped through an HTML-safe encoding before it is sent
// to the store and decoded again before it reaches a view: the store performs
// no sanitization of its own and views render stored text. Read paths use
// Normalize (decode, re-encode, decode) so that values which never passed
// through the codec on the way in still come out consistent.
package codec

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/cast"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/record"
)

// EncodeField coerces a value to text, trims surrounding whitespace, and
// escapes markup-significant characters. An empty result is valid output.
func EncodeField(v any) string {
	return html.EscapeString(strings.TrimSpace(cast.ToString(v)))
}

// DecodeField coerces a value to text, trims, and reverses the escaping step
// only, restoring the original markup-bearing text.
func DecodeField(v any) string {
	return html.UnescapeString(strings.TrimSpace(cast.ToString(v)))
}

// EncodeRecord returns a copy of r with every key and every text value passed
// through EncodeField. Non-text scalars (numbers, booleans, null) carry no
// markup and pass through unchanged. A nested or otherwise non-scalar entry
// fails with apperr.ErrMalformedRecord.
func EncodeRecord(r *record.Record) (*record.Record, error) {
	return mapRecord(r, EncodeField)
}

// DecodeRecord is the inverse of EncodeRecord: every key and text value is
// passed through DecodeField.
func DecodeRecord(r *record.Record) (*record.Record, error) {
	return mapRecord(r, DecodeField)
}

// NormalizeField force-escapes a single value read back from the store:
// decode whatever encoding it carries, re-escape, then decode again. The
// round trip is idempotent, so a value that never passed through the codec
// on its way in and an already-encoded one both come out as the original
// markup-bearing text.
func NormalizeField(v any) string {
	return DecodeField(EncodeField(DecodeField(v)))
}

// Normalize applies NormalizeField to every text field of a record read back
// from the store, which is not assumed to preserve encoding invariants.
func Normalize(r *record.Record) (*record.Record, error) {
	return mapRecord(r, NormalizeField)
}

func mapRecord(r *record.Record, f func(any) string) (*record.Record, error) {
	out := record.New()
	for name, value := range r.All() {
		if !scalar(value) {
			return nil, fmt.Errorf("field %q: %w", name, apperr.ErrMalformedRecord)
		}
		if s, ok := value.(string); ok {
			out.Set(f(name), f(s))
			continue
		}
		out.Set(f(name), value)
	}
	return out, nil
}

func scalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
