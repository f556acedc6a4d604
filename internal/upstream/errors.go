package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned whenever a call to the upstream API comes back with a
// non-success status code. The HTTP layer propagates StatusCode to its caller.
type APIError struct {
	Method string
	URL    string
	Status int
	Reason string
	// Body holds the upstream response body, truncated to maxErrorBody.
	Body []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %q failed because response status code does not indicate success: %d (%s).",
		e.Method, e.URL, e.Status, e.Reason)
}

// StatusCode reports the upstream status code.
func (e *APIError) StatusCode() int { return e.Status }

// ErrAPI constructs an APIError for the given request and status.
func ErrAPI(method, url string, status int, body []byte) error {
	return &APIError{
		Method: method,
		URL:    url,
		Status: status,
		Reason: http.StatusText(status),
		Body:   body,
	}
}

// IsAPIError reports whether err (or anything it wraps) is an APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
