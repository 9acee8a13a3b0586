package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// noneSentinel is what the API sends instead of a timestamp for some users
const noneSentinel = "none"

// OptionalTime is a timestamp that the API may leave empty.
// Both "" and the literal "none" decode as absent. Only last_login and
// last_activity use it.
type OptionalTime struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (t *OptionalTime) UnmarshalJSON(data []byte) error {
	*t = OptionalTime{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" || raw == noneSentinel {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	t.Valid = true
	return nil
}

// MarshalJSON writes an RFC 3339 timestamp, or "" when absent
func (t OptionalTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t OptionalTime) String() string {
	if !t.Valid {
		return "never"
	}
	return t.Time.Format(time.RFC3339)
}
