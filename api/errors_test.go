package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"vrcfetch/model"
)

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      string
	}{
		{RequestBuildError, "RequestBuild"},
		{SerializationError, "Serialization"},
		{TransportError, "Transport"},
		{StatusError, "Status"},
		{MissingCookieError, "MissingCookie"},
		{UnexpectedShapeError, "UnexpectedShape"},
		{ErrorType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.errorType.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(tt.errorType), got, tt.want)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := statusError(http.StatusNotFound, "World not found")
	msg := err.Error()
	for _, want := range []string{"Status", "404", "World not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	cause := errors.New("connection reset")
	wrapped := newAPIError(TransportError, "request failed").WithCause(cause)
	if !strings.Contains(wrapped.Error(), "connection reset") {
		t.Errorf("Error() = %q, want cause", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestAPIErrorDetailedRedactsURL(t *testing.T) {
	err := newAPIError(TransportError, "request failed").
		WithURL("https://api.vrchat.cloud/api/1/auth?token=secret-value").
		WithCause(errors.New("timeout"))

	detailed := err.DetailedError()
	if strings.Contains(detailed, "secret-value") {
		t.Errorf("DetailedError() leaked the token: %s", detailed)
	}
	for _, want := range []string{"Transport Error", "Message: request failed", "Cause: timeout", "Suggestion:"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("DetailedError() missing %q:\n%s", want, detailed)
		}
	}

	status := statusError(http.StatusUnauthorized, "").DetailedError()
	if !strings.Contains(status, "Status: 401 Unauthorized") || !strings.Contains(status, "log in again") {
		t.Errorf("DetailedError() = %s", status)
	}
}

func TestAPIErrorSentinels(t *testing.T) {
	missing := newAPIError(MissingCookieError, "no auth cookie")
	if !errors.Is(missing, ErrMissingCookie) {
		t.Error("MissingCookieError should match ErrMissingCookie")
	}
	if errors.Is(missing, model.ErrUnexpectedShape) {
		t.Error("MissingCookieError should not match ErrUnexpectedShape")
	}

	shape := newAPIError(UnexpectedShapeError, "challenge")
	if !errors.Is(shape, model.ErrUnexpectedShape) {
		t.Error("UnexpectedShapeError should match model.ErrUnexpectedShape")
	}
}

func TestAPIErrorIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want bool
	}{
		{"transport", newAPIError(TransportError, "x").WithCause(errors.New("reset")), true},
		{"cancelled", newAPIError(TransportError, "x").WithCause(context.Canceled), false},
		{"deadline", newAPIError(TransportError, "x").WithCause(context.DeadlineExceeded), true},
		{"too_many_requests", statusError(http.StatusTooManyRequests, ""), true},
		{"server_error", statusError(http.StatusBadGateway, ""), true},
		{"forbidden", statusError(http.StatusForbidden, ""), false},
		{"serialization", newAPIError(SerializationError, "x"), false},
		{"missing_cookie", newAPIError(MissingCookieError, "x"), false},
		{"request_build", newAPIError(RequestBuildError, "x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
