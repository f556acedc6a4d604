package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"errgate/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
// Errors from dependent APIs (see upstream.APIError) implement it.
type HTTPError interface {
	error
	StatusCode() int
}

// panicError carries a value recovered from a panicking handler.
type panicError struct{ value any }

func (e panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// Unwrap exposes a panicked error so it is classified like a returned one.
func (e panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

const (
	kindUpstream = "upstream"
	kindPanic    = "panic"
	kindGeneric  = "generic"
)

// classify selects the response status for err and names its failure kind.
// Codes 300..599 are propagated except 304, which cannot carry a body;
// anything else maps to 500.
func classify(err error) (status int, kind string) {
	var he HTTPError
	if errors.As(err, &he) {
		if c := he.StatusCode(); c >= 300 && c <= 599 && c != http.StatusNotModified {
			return c, kindUpstream
		}
	}
	var pe panicError
	if errors.As(err, &pe) {
		return http.StatusInternalServerError, kindPanic
	}
	return http.StatusInternalServerError, kindGeneric
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSONString writes s as a bare JSON string literal without a trailing newline.
func writeJSONString(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSONBody(w, s)
}

// writeJSONBody writes only the string literal, for responses whose
// headers are already on the wire.
func writeJSONBody(w http.ResponseWriter, s string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	_, _ = w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
