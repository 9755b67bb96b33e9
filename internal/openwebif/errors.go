// SPDX-License-Identifier: MIT

package openwebif

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnavailable = errors.New("receiver: host unreachable or transport failure")
	ErrBadStatus   = errors.New("receiver: unexpected HTTP status")
	ErrBadResponse = errors.New("receiver: invalid response format or malformed XML")
	ErrTimeout     = errors.New("receiver: request timed out")
)

// APIError wraps the sentinel errors with call context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("openwebif: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
