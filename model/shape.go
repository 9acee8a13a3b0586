// Package model contains the typed responses of the VRChat API.
//
// Types whose JSON shape overlaps with another type check for their
// distinguishing keys while decoding, so a response is never silently
// decoded into the wrong type.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedShape is returned when a response decoded into a variant the
// caller did not ask for
var ErrUnexpectedShape = errors.New("unexpected response shape")

// ShapeError reports that a JSON object lacks the keys of its target type
type ShapeError struct {
	Target  string
	Missing []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response is not a %s: missing %s", e.Target, strings.Join(e.Missing, ", "))
}

// fields is a JSON object split into its top-level members
type fields map[string]json.RawMessage

func probe(target string, data []byte) (fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("response is not a %s: expected a JSON object", target)
	}

	var f fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// has reports whether every key is present and not null
func (f fields) has(keys ...string) bool {
	return len(f.missing(keys...)) == 0
}

func (f fields) missing(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		raw, ok := f[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, key)
		}
	}
	return missing
}

// require returns a ShapeError naming the absent keys
func (f fields) require(target string, keys ...string) error {
	if missing := f.missing(keys...); len(missing) > 0 {
		return &ShapeError{Target: target, Missing: missing}
	}
	return nil
}

// isTrue reports whether key holds the JSON literal true
func (f fields) isTrue(key string) bool {
	return bytes.Equal(bytes.TrimSpace(f[key]), []byte("true"))
}

// nonEmptyString reports whether key holds a non-empty JSON string
func (f fields) nonEmptyString(key string) bool {
	raw, ok := f[key]
	if !ok {
		return false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return s != ""
}

// Success is the generic acknowledgement some write endpoints return
type Success struct {
	Success struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"success"`
}
