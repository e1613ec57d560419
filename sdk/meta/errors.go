package meta

import (
	"fmt"
	"strings"
)

// ErrAuthentication represents an error asserting an inability to
// authenticate a request. The IT Portal API answers with this (an HTTP 401)
// when an access token is missing, expired or revoked, and when login
// credentials are rejected.
type ErrAuthentication struct {
	// Reason is a natural language explanation for why authentication failed.
	Reason string `json:"message,omitempty"`
}

func (e *ErrAuthentication) Error() string {
	if e.Reason == "" {
		return "Could not authenticate the request."
	}
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

// ErrAuthorization represents an error asserting that an authenticated
// principal is not permitted to perform the requested operation.
type ErrAuthorization struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrAuthorization) Error() string {
	return "The request is not authorized."
}

// ErrBadRequest represents an error wherein an invalid request has been
// rejected, either by the API or by client-side payload validation.
type ErrBadRequest struct {
	// Reason is a natural language explanation for why the request is invalid.
	Reason string `json:"message,omitempty"`
	// Details may further qualify why a request is invalid. For instance, if
	// the Reason field states that a request failed schema validation, the
	// Details field may enumerate every individual violation.
	Details []string `json:"details,omitempty"`
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("Bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

// ErrNotFound represents an error wherein a resource presumed to exist could
// not be located.
type ErrNotFound struct {
	// Type identifies the type of the resource that could not be located.
	Type string `json:"type,omitempty"`
	// ID is the identifier of the resource that could not be located.
	ID string `json:"id,omitempty"`
	// Reason is whatever explanation the API volunteered.
	Reason string `json:"message,omitempty"`
}

func (e *ErrNotFound) Error() string {
	if e.Type == "" || e.ID == "" {
		if e.Reason != "" {
			return fmt.Sprintf("Not found: %s", e.Reason)
		}
		return "The requested resource was not found."
	}
	return fmt.Sprintf("%s %q not found.", e.Type, e.ID)
}

// ErrConflict represents an error wherein a request cannot be completed
// because it would violate some constraint of the system, for instance
// creating a resource with an identifier that is already taken.
type ErrConflict struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrConflict) Error() string {
	if e.Reason == "" {
		return "The request conflicts with the current state of the resource."
	}
	return e.Reason
}

// ErrInternalServer represents a condition wherein the API server encountered
// an unexpected condition that prevented it from fulfilling the request.
type ErrInternalServer struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

// ErrUnexpectedStatus represents any other non-2xx response.
type ErrUnexpectedStatus struct {
	StatusCode int    `json:"-"`
	Body       string `json:"-"`
}

func (e *ErrUnexpectedStatus) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("received %d from API server", e.StatusCode)
	}
	return fmt.Sprintf("received %d from API server: %s", e.StatusCode, body)
}
