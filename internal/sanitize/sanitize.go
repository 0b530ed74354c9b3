// Package sanitize validates and coerces raw form submissions against a
// category's declared attribute schema.
package sanitize

import (
	"fmt"
	"math"
	"net/url"

	"github.com/spf13/cast"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/record"
	"github.com/starford/othala/internal/schema"
)

// Submission is the raw inbound body of a create or update request, before
// any validation. Values may be strings (urlencoded forms) or already-typed
// JSON values.
type Submission map[string]any

// FromForm builds a Submission from urlencoded form data, keeping the first
// value of each key.
func FromForm(values url.Values) Submission {
	sub := make(Submission, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			sub[key] = vals[0]
		}
	}
	return sub
}

// Escape returns a copy of the submission with every key and every text
// value passed through the escaping codec. Write paths escape before they
// sanitize, mirroring the order the fields reach the store in.
func (s Submission) Escape() Submission {
	out := make(Submission, len(s))
	for key, value := range s {
		if str, ok := value.(string); ok {
			out[codec.EncodeField(key)] = codec.EncodeField(str)
			continue
		}
		out[codec.EncodeField(key)] = value
	}
	return out
}

// Sanitize validates sub against the resource's attribute declarations and
// returns a record holding exactly the declared attributes, in declaration
// order, each value coerced to its declared type. Fields submitted but not
// declared are dropped. The first violation aborts with
// apperr.ErrInvalidAttribute; nothing is accumulated.
func Sanitize(sub Submission, res schema.Resource) (*record.Record, error) {
	out := record.New()
	for _, attr := range res.Attributes {
		raw, present := sub[attr.Name]

		switch attr.Kind {
		case schema.Reference:
			// A reference is an opaque foreign identifier; whether it
			// resolves is the store's concern. Absent means no foreign key.
			if !present {
				out.Set(attr.Name, nil)
				continue
			}
			out.Set(attr.Name, cast.ToString(raw))

		case schema.Boolean:
			// The only kind for which absence is not an error: an unchecked
			// checkbox simply does not submit its field.
			out.Set(attr.Name, present && !explicitFalse(raw))

		case schema.Number:
			if !present {
				return nil, invalid(attr.Name, "missing")
			}
			n, err := cast.ToFloat64E(raw)
			if err != nil {
				return nil, invalid(attr.Name, "not numeric")
			}
			// ToFloat64E happily parses "NaN" and "Inf"; neither is a
			// storable number, and NaN even fails the JSON encoder.
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, invalid(attr.Name, "not finite")
			}
			if n < 0 {
				return nil, invalid(attr.Name, "negative")
			}
			out.Set(attr.Name, n)

		case schema.String:
			if !present {
				return nil, invalid(attr.Name, "missing")
			}
			out.Set(attr.Name, cast.ToString(raw))

		default:
			return nil, invalid(attr.Name, "unsupported kind")
		}
	}
	return out, nil
}

// explicitFalse reports whether a present value is the literal false; any
// other present value ("on", "1", "yes", ...) counts as checked.
func explicitFalse(v any) bool {
	if b, ok := v.(bool); ok {
		return !b
	}
	return cast.ToString(v) == "false"
}

func invalid(name, reason string) error {
	return fmt.Errorf("attribute %q %s: %w", name, reason, apperr.ErrInvalidAttribute)
}
