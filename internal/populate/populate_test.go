package populate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/starford/othala/internal/record"
	"github.com/starford/othala/internal/schema"
)

// fakeLister serves canned collections per category and fails for any
// category listed in failing. List is called from concurrent goroutines.
type fakeLister struct {
	collections map[string][]*record.Record
	failing     map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakeLister) List(_ context.Context, category string) ([]*record.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, category)
	f.mu.Unlock()
	if err, ok := f.failing[category]; ok {
		return nil, err
	}
	return f.collections[category], nil
}

func rec(pairs ...string) *record.Record {
	r := record.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func testTable(t *testing.T, resources ...schema.Resource) *schema.Table {
	t.Helper()
	table, err := schema.NewTable(resources)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestOptions_LabelsFromFirstStringAttribute(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "warehouse", Attributes: []schema.Attribute{
			{Name: "location", Kind: schema.String},
			{Name: "capacity", Kind: schema.Number},
		}},
	)
	src := &fakeLister{collections: map[string][]*record.Record{
		"warehouse": {
			rec("_id", "w1", "location", "North"),
			rec("_id", "w2", "location", "South"),
		},
	}}

	attrs := []schema.Attribute{{Name: "warehouse", Kind: schema.Reference}}
	options, err := Options(context.Background(), attrs, table, src)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	opts, ok := options.Get("warehouse")
	if !ok {
		t.Fatal("no warehouse options")
	}
	want := []Option{{ID: "w1", Label: "North"}, {ID: "w2", Label: "South"}}
	if len(opts) != len(want) {
		t.Fatalf("opts = %v, want %v", opts, want)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("opts[%d] = %v, want %v", i, opts[i], want[i])
		}
	}
}

func TestOptions_NoStringAttributeYieldsIDOnly(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "counter", Attributes: []schema.Attribute{
			{Name: "count", Kind: schema.Number},
		}},
	)
	src := &fakeLister{collections: map[string][]*record.Record{
		"counter": {rec("_id", "c1", "count", "3")},
	}}

	attrs := []schema.Attribute{{Name: "counter", Kind: schema.Reference}}
	options, err := Options(context.Background(), attrs, table, src)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	opts, _ := options.Get("counter")
	if len(opts) != 1 || opts[0].ID != "c1" || opts[0].Label != "" {
		t.Errorf("opts = %v, want id-only c1", opts)
	}
}

func TestOptions_DecodesStoredLabels(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "warehouse", Attributes: []schema.Attribute{
			{Name: "location", Kind: schema.String},
		}},
	)
	src := &fakeLister{collections: map[string][]*record.Record{
		"warehouse": {rec("_id", "w1", "location", "North &amp; South")},
	}}

	attrs := []schema.Attribute{{Name: "warehouse", Kind: schema.Reference}}
	options, err := Options(context.Background(), attrs, table, src)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	opts, _ := options.Get("warehouse")
	if opts[0].Label != "North & South" {
		t.Errorf("label = %q, want decoded", opts[0].Label)
	}
}

func TestOptions_SkipsNonReferenceAttributes(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "warehouse", Attributes: []schema.Attribute{
			{Name: "location", Kind: schema.String},
		}},
	)
	src := &fakeLister{collections: map[string][]*record.Record{}}

	attrs := []schema.Attribute{
		{Name: "label", Kind: schema.String},
		{Name: "qty", Kind: schema.Number},
	}
	options, err := Options(context.Background(), attrs, table, src)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if options.Len() != 0 {
		t.Errorf("len = %d, want 0", options.Len())
	}
	if len(src.calls) != 0 {
		t.Errorf("calls = %v, want none", src.calls)
	}
}

func TestOptions_OneFailedFetchFailsAll(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "warehouse", Attributes: []schema.Attribute{
			{Name: "location", Kind: schema.String},
		}},
		schema.Resource{Category: "supplier", Attributes: []schema.Attribute{
			{Name: "name", Kind: schema.String},
		}},
	)
	boom := errors.New("boom")
	src := &fakeLister{
		collections: map[string][]*record.Record{
			"warehouse": {rec("_id", "w1", "location", "North")},
		},
		failing: map[string]error{"supplier": boom},
	}

	attrs := []schema.Attribute{
		{Name: "warehouse", Kind: schema.Reference},
		{Name: "supplier", Kind: schema.Reference},
	}
	options, err := Options(context.Background(), attrs, table, src)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if options != nil {
		t.Error("expected no partial result")
	}
}

func TestOptions_PreservesDeclarationOrder(t *testing.T) {
	table := testTable(t,
		schema.Resource{Category: "zeta", Attributes: []schema.Attribute{{Name: "name", Kind: schema.String}}},
		schema.Resource{Category: "alpha", Attributes: []schema.Attribute{{Name: "name", Kind: schema.String}}},
	)
	src := &fakeLister{collections: map[string][]*record.Record{}}

	attrs := []schema.Attribute{
		{Name: "zeta", Kind: schema.Reference},
		{Name: "alpha", Kind: schema.Reference},
	}
	options, err := Options(context.Background(), attrs, table, src)
	if err != nil {
		t.Fatal(err)
	}

	var keys []string
	for pair := options.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if len(keys) != 2 || keys[0] != "zeta" || keys[1] != "alpha" {
		t.Errorf("keys = %v, want [zeta alpha]", keys)
	}
}
