package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/record"
)

func TestEncodeField_EscapesAndTrims(t *testing.T) {
	got := EncodeField("  <b>A</b> ")
	want := "&lt;b&gt;A&lt;/b&gt;"
	if got != want {
		t.Errorf("EncodeField = %q, want %q", got, want)
	}
}

func TestEncodeField_EmptyAfterTrimIsValid(t *testing.T) {
	if got := EncodeField("   "); got != "" {
		t.Errorf("EncodeField = %q, want empty", got)
	}
}

func TestDecodeField_ReversesEncoding(t *testing.T) {
	inputs := []string{
		"<b>A</b>",
		`he said "hi" & left`,
		"plain text",
		"  padded  ",
		"'quoted'",
	}
	for _, in := range inputs {
		if got, want := DecodeField(EncodeField(in)), strings.TrimSpace(in); got != want {
			t.Errorf("DecodeField(EncodeField(%q)) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeField_CoercesNonText(t *testing.T) {
	if got := EncodeField(5); got != "5" {
		t.Errorf("EncodeField(5) = %q, want \"5\"", got)
	}
	if got := EncodeField(true); got != "true" {
		t.Errorf("EncodeField(true) = %q, want \"true\"", got)
	}
}

func TestRecordRoundTrip_TrimsTextKeepsScalars(t *testing.T) {
	r := record.New()
	r.Set("label", "  <b>A</b> ")
	r.Set("qty", float64(5))
	r.Set("active", true)
	r.Set("warehouse", nil)

	enc, err := EncodeRecord(r)
	if err != nil {
		t.Fatalf("EncodeRecord: %v", err)
	}
	dec, err := DecodeRecord(enc)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}

	if v, _ := dec.Get("label"); v != "<b>A</b>" {
		t.Errorf("label = %v, want <b>A</b>", v)
	}
	if v, _ := dec.Get("qty"); v != float64(5) {
		t.Errorf("qty = %v, want 5", v)
	}
	if v, _ := dec.Get("active"); v != true {
		t.Errorf("active = %v, want true", v)
	}
	if v, ok := dec.Get("warehouse"); !ok || v != nil {
		t.Errorf("warehouse = %v (present=%v), want nil present", v, ok)
	}
}

func TestRecordRoundTrip_PreservesFieldOrder(t *testing.T) {
	r := record.New()
	r.Set("z", "1")
	r.Set("a", "2")
	r.Set("m", "3")

	enc, err := EncodeRecord(r)
	if err != nil {
		t.Fatal(err)
	}
	names := enc.Names()
	want := []string{"z", "a", "m"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestEncodeRecord_RejectsNestedValue(t *testing.T) {
	r := record.New()
	r.Set("label", "fine")
	r.Set("nested", map[string]any{"x": 1})

	_, err := EncodeRecord(r)
	if !errors.Is(err, apperr.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
}

func TestDecodeRecord_RejectsSliceValue(t *testing.T) {
	r := record.New()
	r.Set("tags", []any{"a", "b"})

	_, err := DecodeRecord(r)
	if !errors.Is(err, apperr.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
}

func TestNormalizeField_DecodesStoredEscapedText(t *testing.T) {
	// Written through the codec, the store holds the escaped form.
	stored := EncodeField("<b>A</b>")
	if got := NormalizeField(stored); got != "<b>A</b>" {
		t.Errorf("NormalizeField(%q) = %q, want <b>A</b>", stored, got)
	}
}

func TestNormalizeField_HandlesUnencodedStoredText(t *testing.T) {
	// A record written by another client may have bypassed the codec.
	if got := NormalizeField("<b>A</b>"); got != "<b>A</b>" {
		t.Errorf("NormalizeField = %q, want <b>A</b>", got)
	}
}

func TestNormalizeField_Idempotent(t *testing.T) {
	inputs := []string{"&lt;b&gt;A&lt;/b&gt;", "<i>x</i>", "plain", `a &amp; b`}
	for _, in := range inputs {
		once := NormalizeField(in)
		if twice := NormalizeField(once); twice != once {
			t.Errorf("NormalizeField not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalize_Record(t *testing.T) {
	r := record.New()
	r.Set("label", "&lt;b&gt;A&lt;/b&gt;")
	r.Set("qty", float64(2))

	n, err := Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v, _ := n.Get("label"); v != "<b>A</b>" {
		t.Errorf("label = %v, want <b>A</b>", v)
	}
	if v, _ := n.Get("qty"); v != float64(2) {
		t.Errorf("qty = %v, want 2", v)
	}
}
