package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/record"
)

// Remote talks to the remote document store over its HTTP collection API.
//
// Error policy: an error response from the store becomes an
// apperr.UpstreamError carrying the store's status and headers; a transport
// failure (no response at all) becomes apperr.ErrUpstreamUnreachable. No
// operation is retried; the caller sees the outcome of exactly one round trip.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a store client for the given base endpoint. A nil
// httpClient falls back to http.DefaultClient.
func NewRemote(endpoint string, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Remote{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   httpClient,
	}
}

// Create POSTs the record to the category collection and decodes the echoed
// record, which carries the store-assigned identifier.
func (r *Remote) Create(ctx context.Context, category string, rec *record.Record) (*record.Record, error) {
	body, err := r.do(ctx, http.MethodPost, r.url(category), rec)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Get fetches one record by identifier.
func (r *Remote) Get(ctx context.Context, category, id string) (*record.Record, error) {
	body, err := r.do(ctx, http.MethodGet, r.url(category, id), nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Update PUTs the record; the store replies with an empty body on success.
func (r *Remote) Update(ctx context.Context, category, id string, rec *record.Record) error {
	_, err := r.do(ctx, http.MethodPut, r.url(category, id), rec)
	return err
}

// Delete removes the record by identifier.
func (r *Remote) Delete(ctx context.Context, category, id string) error {
	_, err := r.do(ctx, http.MethodDelete, r.url(category, id), nil)
	return err
}

// List fetches the full collection for a category.
func (r *Remote) List(ctx context.Context, category string) ([]*record.Record, error) {
	body, err := r.do(ctx, http.MethodGet, r.url(category), nil)
	if err != nil {
		return nil, err
	}
	var records []*record.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("store: decode collection: %w", err)
	}
	return records, nil
}

func (r *Remote) url(parts ...string) string {
	return r.endpoint + "/" + strings.Join(parts, "/")
}

func (r *Remote) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("store: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, apperr.ErrUpstreamUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &apperr.UpstreamError{
			Status: resp.StatusCode,
			Header: resp.Header.Clone(),
		}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, apperr.ErrUpstreamUnreachable)
	}
	return buf.Bytes(), nil
}

func decodeRecord(body []byte) (*record.Record, error) {
	rec := record.New()
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, fmt.Errorf("store: decode record: %w", err)
	}
	return rec, nil
}
