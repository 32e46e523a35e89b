// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	// Local input errors, raised before any network call.
	KindMissingCredential ErrorKind = "missing_credential"
	KindInvalidIdentifier ErrorKind = "invalid_identifier"
	KindInvalidRequest    ErrorKind = "invalid_request"

	// Remote errors, classified from the HTTP exchange.
	KindAuthFailed        ErrorKind = "auth_failed"
	KindNotFound          ErrorKind = "not_found"
	KindRateLimited       ErrorKind = "rate_limited"
	KindServerError       ErrorKind = "server_error"
	KindNetworkError      ErrorKind = "network_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindClientError       ErrorKind = "client_error"
)

// Transient reports whether a failure of this kind may heal on retry.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindServerError, KindNetworkError:
		return true
	default:
		return false
	}
}

// APIError is the classified outcome of a failed call.
type APIError struct {
	Kind ErrorKind
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	// Message is extracted from the response body when one was available.
	Message string
	// RetryAfterSeconds is set for KindRateLimited only.
	RetryAfterSeconds int
	// Err is the underlying cause, if any.
	Err error
}

func (e *APIError) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Kind == KindRateLimited && e.RetryAfterSeconds > 0 {
		msg += fmt.Sprintf(", retry after %d seconds", e.RetryAfterSeconds)
	}
	if e.Err != nil && e.Message == "" {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// Temporary reports whether the retry policy may try the call again.
func (e *APIError) Temporary() bool { return e.Kind.Transient() }

// RetryAfter is the minimum wait the service asked for before the next
// attempt. It is zero for every kind except KindRateLimited.
func (e *APIError) RetryAfter() time.Duration {
	if e.Kind != KindRateLimited {
		return 0
	}
	return time.Duration(e.RetryAfterSeconds) * time.Second
}

// KindOf returns the ErrorKind of the first APIError in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err carries an APIError of kind k.
func IsKind(err error, k ErrorKind) bool {
	return err != nil && KindOf(err) == k
}
