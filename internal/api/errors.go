package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is a structured error returned by the cluster control API.
// Its text renders as "Error <code>: <message>"; callers that classify
// failures (the acceptance workflow in particular) match on that convention,
// so the format must not change.
type RequestError struct {
	StatusCode int    // HTTP status
	Code       string // machine-readable error code, e.g. "replication_target_not_empty_error"
	Message    string // human-readable detail, may span multiple lines
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Error %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Message)
}

// ErrUnauthorized indicates the session token was rejected.
var ErrUnauthorized = errors.New("authentication failed: unauthorized")

// IsNotFound reports whether err is an API error for a missing resource
// (unknown path, relationship id, or endpoint).
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// isRetryable reports whether a read may be retried: server-side failures
// only. Client errors are definitive and mutations are never retried.
func isRetryable(statusCode int) bool {
	return statusCode >= 500
}
