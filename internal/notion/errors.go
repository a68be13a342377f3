package notion

import (
	"errors"
	"fmt"
	"time"
)

// ErrorResponse represents a Notion API error response body.
type ErrorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("notion API error %d (%s): %s", e.Status, e.Code, e.Message)
}

// APIError wraps an ErrorResponse with transport-level context.
type APIError struct {
	StatusCode int
	Response   *ErrorResponse
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Response != nil {
		return e.Response.Error()
	}
	return fmt.Sprintf("notion API error %d", e.StatusCode)
}

// IsNotFound reports whether err is a Notion 404 (object_not_found).
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
