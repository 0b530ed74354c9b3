package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/record"
)

func TestRemoteCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/item" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"abc123","label":"x"}`))
	}))
	defer srv.Close()

	client := NewRemote(srv.URL, nil)
	rec := record.New()
	rec.Set("label", "x")

	created, err := client.Create(context.Background(), "item", rec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID() != "abc123" {
		t.Errorf("id = %q, want abc123", created.ID())
	}
}

func TestRemoteGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item/abc123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"_id":"abc123","label":"x","qty":5}`))
	}))
	defer srv.Close()

	client := NewRemote(srv.URL, nil)
	rec, err := client.Get(context.Background(), "item", "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := rec.Get("qty"); v != float64(5) {
		t.Errorf("qty = %v, want 5", v)
	}
}

func TestRemoteList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/warehouse" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"_id":"w1","location":"North"},{"_id":"w2","location":"South"}]`))
	}))
	defer srv.Close()

	client := NewRemote(srv.URL, nil)
	records, err := client.List(context.Background(), "warehouse")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].ID() != "w1" || records[1].ID() != "w2" {
		t.Errorf("records = %v", records)
	}
}

func TestRemoteUpdateAndDelete(t *testing.T) {
	var gotMethods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethods = append(gotMethods, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRemote(srv.URL, nil)
	rec := record.New()
	rec.Set("label", "y")

	if err := client.Update(context.Background(), "item", "abc123", rec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := client.Delete(context.Background(), "item", "abc123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(gotMethods) != 2 || gotMethods[0] != http.MethodPut || gotMethods[1] != http.MethodDelete {
		t.Errorf("methods = %v", gotMethods)
	}
}

func TestRemoteErrorResponseBecomesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "r42")
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewRemote(srv.URL, nil)
	_, err := client.Get(context.Background(), "item", "abc123")

	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if ue.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", ue.Status)
	}
	if ue.Header.Get("X-Request-Id") != "r42" {
		t.Errorf("header not relayed: %v", ue.Header)
	}
}

func TestRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewRemote(srv.URL, nil)
	_, err := client.Get(context.Background(), "item", "abc123")
	if !errors.Is(err, apperr.ErrUpstreamUnreachable) {
		t.Fatalf("err = %v, want ErrUpstreamUnreachable", err)
	}
}
