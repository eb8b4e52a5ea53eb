package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a request payload rejected locally, before
	// any network call was made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionBusy reports a session transition attempted while another
	// one is still in flight. Only one of login/logout/refresh may run at
	// a time.
	ErrSessionBusy = errors.New("session operation in progress")

	// ErrNotAuthenticated reports an operation that requires an
	// established session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is the single error shape every request failure is normalized
// into before it leaves the client boundary.
//
//	Status 0   — transport failure (DNS, refused connection, no response)
//	Status 408 — the configured wall-clock timeout elapsed
//	otherwise  — the HTTP status returned by the server
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Timeout reports whether the error is the client-side deadline expiry.
func (e *APIError) Timeout() bool { return e.Status == 408 }

// Transport reports whether the request failed before any response arrived.
func (e *APIError) Transport() bool { return e.Status == 0 }

// Unauthorized reports whether the server rejected the caller's token or
// credentials.
func (e *APIError) Unauthorized() bool { return e.Status == 401 }
