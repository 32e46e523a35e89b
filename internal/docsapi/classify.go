// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/libdocs/pkg/types"
)

// DefaultRetryAfterSeconds is assumed for a 429 that does not say how long
// to wait.
const DefaultRetryAfterSeconds = 60

const maxMessageLen = 512

// errorBody is the shape of an error payload from the service.
type errorBody struct {
	Error             string   `json:"error"`
	Message           string   `json:"message"`
	RetryAfterSeconds *float64 `json:"retryAfterSeconds"`
}

// Classify turns one HTTP exchange into either a decoded payload or an
// *types.APIError. It does no I/O: a 200 body is decoded into out, any
// other status is mapped onto an error kind.
func Classify(status int, header http.Header, body []byte, out any) error {
	if status == http.StatusOK {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &types.APIError{
				Kind:    types.KindMalformedResponse,
				Status:  status,
				Message: "decoding response body: " + err.Error(),
				Err:     err,
			}
		}
		return nil
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	apiErr := &types.APIError{
		Status:  status,
		Message: extractMessage(status, eb, body),
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		apiErr.Kind = types.KindAuthFailed
	case status == http.StatusNotFound:
		apiErr.Kind = types.KindNotFound
	case status == http.StatusTooManyRequests:
		apiErr.Kind = types.KindRateLimited
		apiErr.RetryAfterSeconds = retryAfterSeconds(eb, header)
	case status >= 500:
		apiErr.Kind = types.KindServerError
	default:
		apiErr.Kind = types.KindClientError
	}
	return apiErr
}

// extractMessage prefers the JSON error/message field, then the raw body,
// then the status text.
func extractMessage(status int, eb errorBody, body []byte) string {
	switch {
	case eb.Error != "":
		return truncate(eb.Error)
	case eb.Message != "":
		return truncate(eb.Message)
	}
	if raw := strings.TrimSpace(string(body)); raw != "" && !strings.HasPrefix(raw, "{") {
		return truncate(raw)
	}
	return http.StatusText(status)
}

// retryAfterSeconds reads the wait from the body, then the Retry-After
// header, then falls back to DefaultRetryAfterSeconds.
func retryAfterSeconds(eb errorBody, header http.Header) int {
	if eb.RetryAfterSeconds != nil && *eb.RetryAfterSeconds > 0 {
		return int(math.Ceil(*eb.RetryAfterSeconds))
	}
	if v := header.Get("Retry-After"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return DefaultRetryAfterSeconds
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen-3] + "..."
}
