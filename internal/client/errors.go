package client

import (
	"context"
	"errors"
	"net"

	"github.com/utpfund/admin-console-go/internal/core/domain"
)

const fallbackMessage = "An error occurred"

// statusError builds the APIError for a non-2xx response, falling back to a
// generic message when the server supplied none.
func statusError(status int, message, code string) *domain.APIError {
	if message == "" {
		message = fallbackMessage
	}
	return &domain.APIError{Message: message, Status: status, Code: code}
}

// transportError builds the status-0 APIError used for failures where no
// HTTP response was obtained.
func transportError(message string) *domain.APIError {
	if message == "" {
		message = "Network error"
	}
	return &domain.APIError{Message: message, Status: 0}
}

// normalizeTransport maps a transport-level failure onto the two
// non-HTTP error classes: 408 when the wall-clock deadline elapsed,
// 0 for everything else.
func normalizeTransport(err error) *domain.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.APIError{Message: "Request timeout", Status: 408}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.APIError{Message: "Request timeout", Status: 408}
	}
	return transportError(err.Error())
}

// asAPIError unwraps err into the normalized shape, or nil.
func asAPIError(err error) *domain.APIError {
	if err == nil {
		return nil
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
