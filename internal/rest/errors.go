package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is an error response from the exchange REST API
type APIError struct {
	Code       int    `json:"code"`
	Message    string `json:"msg"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("exchange API error %d: %s", e.Code, e.Message)
}

// IsRetryable reports whether this error should trigger a retry
func (e *APIError) IsRetryable() bool {
	switch e.Code {
	case -1003: // Too many requests
		return true
	case -1021: // Timestamp outside recv window
		return true
	}
	return false
}

// IsAuthError reports whether the credentials were rejected
func (e *APIError) IsAuthError() bool {
	switch e.Code {
	case -1022: // Invalid signature
		return true
	case -2014: // API key format invalid
		return true
	case -2015: // Invalid API key, IP, or permissions
		return true
	}
	return false
}

// IsUnknownSymbol reports whether the symbol does not exist on the exchange
func (e *APIError) IsUnknownSymbol() bool {
	return e.Code == -1121
}

// ParseAPIError extracts an exchange error from a non-2xx HTTP response
func ParseAPIError(resp *http.Response) error {
	if resp == nil {
		return fmt.Errorf("nil response")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr APIError
	jsonErr := json.Unmarshal(body, &apiErr)
	if jsonErr == nil && apiErr.Code != 0 {
		apiErr.HTTPStatus = resp.StatusCode
		return &apiErr
	}

	bodyStr := strings.TrimSpace(string(body))
	if jsonErr != nil && (strings.HasPrefix(bodyStr, "{") || strings.HasPrefix(bodyStr, "[")) {
		return fmt.Errorf("failed to parse error response: %w", jsonErr)
	}

	if bodyStr == "" {
		bodyStr = "empty response"
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
}

// IsRetryableError reports whether an error should trigger a retry
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	errMsg := err.Error()
	for _, status := range []string{"HTTP 429", "HTTP 500", "HTTP 502", "HTTP 503", "HTTP 504"} {
		if strings.Contains(errMsg, status) {
			return true
		}
	}

	return false
}

// ErrorWithContext wraps an error with the name of the failing operation
func ErrorWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
