package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SessionFile is the on-disk session layout the CLI accepts through --auth-file.
// It matches the JSON written by VRChat auth helper scripts:
//
//	{"token": "authcookie_...", "second_factor_token": "..."}
type SessionFile struct {
	Token             string  `json:"token"`
	SecondFactorToken *string `json:"second_factor_token,omitempty"`
}

// LoadSessionFile reads and validates a session file
func LoadSessionFile(path string) (*SessionFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, NewValidationError("auth_file", "no session file configured").
			WithSuggestion("Pass --auth-file or set VRCFETCH_AUTH_FILE, or log in with 'vrcfetch login'")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session SessionFile
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, NewValidationErrorWithValue("auth_file", "session file is not valid JSON", path).
			WithContext("error", err.Error())
	}

	if session.Token == "" {
		return nil, NewValidationErrorWithValue("auth_file", "session file has an empty token", path).
			WithSuggestion("Re-run 'vrcfetch login' and store its output")
	}
	if session.SecondFactorToken != nil && *session.SecondFactorToken == "" {
		session.SecondFactorToken = nil
	}

	return &session, nil
}
