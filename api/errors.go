package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vrcfetch/internal"
	"vrcfetch/model"
)

// ErrMissingCookie is matched by errors.Is when a response lacked the
// session cookie a login or verification should have set
var ErrMissingCookie = errors.New("response did not set the expected cookie")

// ErrorType classifies API errors
type ErrorType int

const (
	// RequestBuildError means the request could not be assembled. Nothing was sent.
	RequestBuildError ErrorType = iota
	// SerializationError means the response body did not decode into the result type
	SerializationError
	// TransportError means the request was not answered, including a cancelled context
	TransportError
	// StatusError means the API answered with a non-2xx status
	StatusError
	// MissingCookieError means an expected Set-Cookie was absent
	MissingCookieError
	// UnexpectedShapeError means a decoded sum type held a different variant
	UnexpectedShapeError
)

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case RequestBuildError:
		return "RequestBuild"
	case SerializationError:
		return "Serialization"
	case TransportError:
		return "Transport"
	case StatusError:
		return "Status"
	case MissingCookieError:
		return "MissingCookie"
	case UnexpectedShapeError:
		return "UnexpectedShape"
	default:
		return "Unknown"
	}
}

// APIError is returned by every client operation
type APIError struct {
	Type       ErrorType `json:"type"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
	URL        string    `json:"url,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Cause      error     `json:"-"`
}

func newAPIError(errorType ErrorType, message string) *APIError {
	return &APIError{
		Type:       errorType,
		Message:    message,
		Suggestion: defaultSuggestion(errorType, 0),
	}
}

func statusError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Type:       StatusError,
		StatusCode: status,
		Message:    message,
		Suggestion: defaultSuggestion(StatusError, status),
	}
}

// WithURL records the request URL. It is redacted in DetailedError.
func (e *APIError) WithURL(url string) *APIError {
	e.URL = url
	return e
}

// WithCause records the underlying error
func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

// WithSuggestion replaces the default suggestion
func (e *APIError) WithSuggestion(suggestion string) *APIError {
	e.Suggestion = suggestion
	return e
}

// Error implements the error interface
func (e *APIError) Error() string {
	var parts []string

	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("vrchat api error (type: %s, status: %d)", e.Type, e.StatusCode))
	} else {
		parts = append(parts, fmt.Sprintf("vrchat api error (type: %s)", e.Type))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, " - ")
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches the package sentinels by error type
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrMissingCookie:
		return e.Type == MissingCookieError
	case model.ErrUnexpectedShape:
		return e.Type == UnexpectedShapeError
	}
	return false
}

// DetailedError returns a multi-line description with the URL redacted
func (e *APIError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s Error", e.Type))

	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("Status: %d %s", e.StatusCode, http.StatusText(e.StatusCode)))
	}
	if e.Message != "" {
		parts = append(parts, fmt.Sprintf("Message: %s", e.Message))
	}
	if e.URL != "" {
		redactor := &internal.URLRedactor{}
		parts = append(parts, fmt.Sprintf("URL: %s", redactor.Redact(e.URL)))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}
	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "\n")
}

// IsRetryable reports whether repeating the request could succeed.
// The client never retries on its own.
func (e *APIError) IsRetryable() bool {
	switch e.Type {
	case TransportError:
		return !errors.Is(e.Cause, context.Canceled)
	case StatusError:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func defaultSuggestion(errorType ErrorType, status int) string {
	switch errorType {
	case RequestBuildError:
		return "Check the user agent and credentials for characters that cannot be sent in headers"
	case SerializationError:
		return "The API response changed shape; run with --debug to inspect it"
	case TransportError:
		return "Check your network connection and try again"
	case MissingCookieError:
		return "Check the credentials; VRChat only sets session cookies on success"
	case UnexpectedShapeError:
		return "Verify the second factor before requesting account data"
	case StatusError:
		switch {
		case status == http.StatusUnauthorized:
			return "The session is missing or expired; log in again"
		case status == http.StatusForbidden:
			return "The account is not allowed to perform this action"
		case status == http.StatusNotFound:
			return "Check that the ID exists"
		case status == http.StatusTooManyRequests:
			return "Lower the request rate or wait before trying again"
		case status >= 500:
			return "VRChat is having problems; try again later"
		}
	}
	return ""
}
