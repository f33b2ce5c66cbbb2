package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is the error type for non-success responses from the stats API.
// It supports errors.Is matching by status code and errors.As extraction.
type APIError struct {
	StatusCode int
	// Status is the HTTP status text, e.g. "Too Many Requests".
	Status string
	// Message is the decoded error body: the "message" field of a JSON
	// error document, or the raw body when it is not JSON.
	Message    string
	RetryAfter time.Duration // only set for 429
}

// Error returns the formatted error string.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is supports errors.Is matching by status code.
// ErrRemote matches every APIError, ErrServer (500) matches any 5xx status
// code, all other sentinels require an exact status code match.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	if t == ErrRemote {
		return true
	}
	if t.StatusCode == http.StatusInternalServerError && e.StatusCode >= 500 && e.StatusCode < 600 {
		return true
	}
	return e.StatusCode == t.StatusCode
}

// Sentinel errors for the status codes the stats API documents.
var (
	ErrRemote       = &APIError{Message: "remote error"}
	ErrBadRequest   = &APIError{StatusCode: 400, Message: "bad request"}
	ErrUnauthorized = &APIError{StatusCode: 401, Message: "unauthorized"}
	ErrNotFound     = &APIError{StatusCode: 404, Message: "not found"}
	ErrRateLimit    = &APIError{StatusCode: 429, Message: "rate limit exceeded"}
	ErrServer       = &APIError{StatusCode: 500, Message: "server error"}
)

// maxErrorBody is the maximum number of bytes read from an error response body.
const maxErrorBody = 4096

// errorBody is the JSON error document returned by the stats API.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// errorFromResponse creates an *APIError from an HTTP response.
// It reads up to 4KB of the response body.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Message:    decodeErrorMessage(body),
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				apiErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
	}

	return apiErr
}

func decodeErrorMessage(body []byte) string {
	var doc errorBody
	if err := json.Unmarshal(body, &doc); err == nil && doc.Message != "" {
		return doc.Message
	}
	return strings.TrimSpace(string(body))
}
