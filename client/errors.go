package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classifying backend failures by HTTP status.
var (
	// ErrNoSession is the soft-failure precondition: no authenticated
	// session could be obtained, so no request was attempted. Callers are
	// expected to branch on it rather than treat it as a backend fault.
	ErrNoSession = errors.New("no authentication session found")

	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError carries the HTTP status and the backend's message for a failed
// call. It unwraps to one of the sentinel errors above so callers can branch
// with errors.Is.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.kind }

// statusError builds the taxonomy error for a non-2xx response. A 401 also
// drops the cached session so the next call re-authenticates from scratch.
func (c *Client) statusError(status int, raw []byte) error {
	if status == http.StatusUnauthorized {
		c.cache.Invalidate()
	}

	msg := backendMessage(raw)
	switch status {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "Your session has expired. Please log in again."
		}
		return &APIError{Status: status, Message: msg, kind: ErrUnauthorized}
	case http.StatusForbidden:
		if msg == "" {
			msg = "You do not have permission to perform this action."
		}
		return &APIError{Status: status, Message: msg, kind: ErrForbidden}
	case http.StatusInternalServerError:
		return &APIError{
			Status:  status,
			Message: "Something went wrong on the server. Please try again later.",
			kind:    ErrServer,
		}
	default:
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", status)
		}
		return &APIError{Status: status, Message: msg}
	}
}
