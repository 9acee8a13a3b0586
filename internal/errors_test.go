package internal

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("user_agent", "user agent cannot be empty").
		WithSuggestion("Set VRCFETCH_USER_AGENT")

	result := err.Error()

	if !strings.Contains(result, "validation error for user_agent") {
		t.Errorf("Error message should name the field, got %q", result)
	}
	if !strings.Contains(result, "user agent cannot be empty") {
		t.Error("Error message should contain the message")
	}
	if !strings.Contains(result, "Suggestion: Set VRCFETCH_USER_AGENT") {
		t.Error("Error message should contain the suggestion")
	}
}

func TestValidationError_DetailedError(t *testing.T) {
	err := NewValidationErrorWithValue("burst", "must be positive", 0).
		WithContext("source", "env").
		WithSuggestion("Use a burst of at least 1")

	result := err.DetailedError()

	expected := []string{
		"Validation Error for field 'burst'",
		"Message: must be positive",
		"Provided value: 0",
		"source=env",
		"Suggestion: Use a burst of at least 1",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("DetailedError() missing %q in:\n%s", want, result)
		}
	}
}

func TestValidationError_WithContextInitializesMap(t *testing.T) {
	err := &ValidationError{Field: "id", Message: "bad"}
	err.WithContext("value", "usr_x")

	if err.Context["value"] != "usr_x" {
		t.Errorf("context not recorded: %v", err.Context)
	}
}

func TestValidationError_DetailedErrorMasksCredentials(t *testing.T) {
	tests := []struct {
		field  string
		value  string
		masked bool
	}{
		{"password", "hunter2", true},
		{"token", "authcookie_abc", true},
		{"code", "123456", true},
		{"user_id", "usr_not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			result := NewValidationErrorWithValue(tt.field, "invalid", tt.value).DetailedError()
			if got := strings.Contains(result, tt.value); got == tt.masked {
				t.Errorf("DetailedError() shows value = %v, want %v:\n%s", got, !tt.masked, result)
			}
			if tt.masked && !strings.Contains(result, "Provided value: "+redacted) {
				t.Errorf("DetailedError() should show %s:\n%s", redacted, result)
			}
		})
	}
}

func TestValidationError_DetailedErrorSortsContext(t *testing.T) {
	err := NewValidationError("rate", "invalid rate").
		WithContext("source", "flag").
		WithContext("error", "bad unit").
		WithContext("input", "5/day")

	if got := err.DetailedError(); !strings.Contains(got, "Context: error=bad unit, input=5/day, source=flag") {
		t.Errorf("DetailedError() context not sorted:\n%s", got)
	}
}
