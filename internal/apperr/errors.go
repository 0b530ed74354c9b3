// Package apperr defines the error taxonomy shared by the pipeline layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidIdentifier marks a path identifier that failed the
	// alphanumeric check, rejected before any store call.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidAttribute marks a submitted value that failed type coercion
	// or a required attribute that was missing.
	ErrInvalidAttribute = errors.New("invalid attribute")

	// ErrMalformedRecord marks a record that is not a flat key/value
	// structure; an internal contract violation rather than user input.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUpstreamUnreachable means no response was received from the store.
	ErrUpstreamUnreachable = errors.New("store unreachable")

	// ErrNotFound is returned by the embedded store for missing records.
	// The remote store reports the same condition as an UpstreamError 404.
	ErrNotFound = errors.New("not found")
)

// UpstreamError carries an error response returned by the remote store.
// Its status is forwarded to the caller transparently and the headers are
// relayed for diagnostics.
type UpstreamError struct {
	Status int
	Header http.Header
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("store returned %d %s", e.Status, http.StatusText(e.Status))
}

// hopByHop lists headers that must not be copied from an upstream response
// onto our own.
var hopByHop = map[string]struct{}{
	"Connection":        {},
	"Content-Length":    {},
	"Content-Type":      {},
	"Date":              {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
}

// Relay copies the diagnostic headers of an upstream error response onto dst.
// It is a no-op for every other kind of error.
func Relay(dst http.Header, err error) {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return
	}
	for name, values := range ue.Header {
		if _, skip := hopByHop[name]; skip {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

// StatusFor maps an error to the HTTP status the caller should see.
func StatusFor(err error) int {
	var ue *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ue):
		return ue.Status
	case errors.Is(err, ErrInvalidAttribute):
		return http.StatusNotAcceptable
	case errors.Is(err, ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamUnreachable):
		// Cannot tell a transient outage from a malformed call at this
		// layer, so it surfaces as a client-class error.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
