// ABOUTME: Error taxonomy for backend exchanges
// ABOUTME: Separates expired authentication, application errors and transport failures

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AuthExpiredError is a 401: the session is no longer valid
type AuthExpiredError struct {
	Message string
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("authentication expired: %s", e.Message)
}

// APIError is a non-401 error response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError means no response was received
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized returns true if err is an expired-authentication error.
func IsUnauthorized(err error) bool {
	var authErr *AuthExpiredError
	return errors.As(err, &authErr)
}

// IsTransport returns true if no response was received.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsAPIError returns true if the backend answered with an application error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// errorBody covers the error shapes the backend emits
type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
}

// classify converts a non-2xx response into the matching error type
func classify(resp *Response) error {
	msg := errorMessage(resp)
	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthExpiredError{Message: msg}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// errorMessage prefers message, then a string detail, then error
func errorMessage(resp *Response) string {
	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		var detail string
		if len(body.Detail) > 0 && json.Unmarshal(body.Detail, &detail) == nil && detail != "" {
			return detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "request failed"
}
