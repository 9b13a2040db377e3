package nabdasdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any *APIError produced by a 401. By the time it
	// is returned the token store has already been cleared.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingAccessToken is returned when a login response carries no
	// credential under any known field name.
	ErrMissingAccessToken = errors.New("no access token in login response")
)

// APIError is a non-2xx backend response.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the decoded JSON object, or nil when the response had no JSON
	// object body. Always nil for 401.
	Body map[string]any

	// Message is the backend supplied message or a generic fallback.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is reports 401 errors as ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func newUnauthorized() *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
}

func newAPIError(status int, body map[string]any) *APIError {
	msg := fmt.Sprintf("Request failed with status %d", status)
	if m, ok := body["message"].(string); ok && m != "" {
		msg = m
	}
	return &APIError{StatusCode: status, Body: body, Message: msg}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// AuthFailure classifies errors from the login and OTP forms.
type AuthFailure int

const (
	AuthFailureGeneric AuthFailure = iota
	AuthFailureInvalidCredentials
	AuthFailureUnverified
)

func (f AuthFailure) String() string {
	switch f {
	case AuthFailureInvalidCredentials:
		return "invalid_credentials"
	case AuthFailureUnverified:
		return "unverified"
	default:
		return "generic"
	}
}

// ClassifyAuthError maps 401 and 400 to invalid credentials, 403 to an
// unverified account and everything else, local errors included, to generic.
func ClassifyAuthError(err error) AuthFailure {
	switch StatusCode(err) {
	case http.StatusUnauthorized, http.StatusBadRequest:
		return AuthFailureInvalidCredentials
	case http.StatusForbidden:
		return AuthFailureUnverified
	default:
		return AuthFailureGeneric
	}
}

// UserMessage returns the message to show for err: the backend message for
// API errors, a generic sentence otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
