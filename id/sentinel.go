package id

import (
	"bytes"
	"encoding/json"
)

const (
	offlineSentinel = "offline"
	privateSentinel = "private"
)

// OfflineOr is either the literal "offline" or an ID.
// JSON null and "" decode to the zero value, which is neither.
type OfflineOr[T any] struct {
	Offline bool
	ID      T
	set     bool
}

// Online wraps an ID
func Online[T any](value T) OfflineOr[T] {
	return OfflineOr[T]{ID: value, set: true}
}

// Get returns the ID and whether one is present
func (o OfflineOr[T]) Get() (T, bool) {
	return o.ID, o.set
}

// UnmarshalJSON checks for the sentinel before decoding an ID
func (o *OfflineOr[T]) UnmarshalJSON(data []byte) error {
	literal, isEmpty, err := sentinelLiteral(data)
	if err != nil {
		return err
	}
	*o = OfflineOr[T]{}
	switch {
	case isEmpty:
		return nil
	case literal == offlineSentinel:
		o.Offline = true
		return nil
	}

	if err := json.Unmarshal(data, &o.ID); err != nil {
		return err
	}
	o.set = true
	return nil
}

// MarshalJSON writes the sentinel, the ID, or null
func (o OfflineOr[T]) MarshalJSON() ([]byte, error) {
	switch {
	case o.Offline:
		return json.Marshal(offlineSentinel)
	case o.set:
		return json.Marshal(o.ID)
	default:
		return []byte("null"), nil
	}
}

// OfflineOrPrivateOr is the literal "offline", the literal "private", or an ID.
// JSON null and "" decode to the zero value.
type OfflineOrPrivateOr[T any] struct {
	Offline bool
	Private bool
	ID      T
	set     bool
}

// Visible wraps an ID
func Visible[T any](value T) OfflineOrPrivateOr[T] {
	return OfflineOrPrivateOr[T]{ID: value, set: true}
}

// Get returns the ID and whether one is present
func (o OfflineOrPrivateOr[T]) Get() (T, bool) {
	return o.ID, o.set
}

func (o *OfflineOrPrivateOr[T]) UnmarshalJSON(data []byte) error {
	literal, isEmpty, err := sentinelLiteral(data)
	if err != nil {
		return err
	}
	*o = OfflineOrPrivateOr[T]{}
	switch {
	case isEmpty:
		return nil
	case literal == offlineSentinel:
		o.Offline = true
		return nil
	case literal == privateSentinel:
		o.Private = true
		return nil
	}

	if err := json.Unmarshal(data, &o.ID); err != nil {
		return err
	}
	o.set = true
	return nil
}

func (o OfflineOrPrivateOr[T]) MarshalJSON() ([]byte, error) {
	switch {
	case o.Offline:
		return json.Marshal(offlineSentinel)
	case o.Private:
		return json.Marshal(privateSentinel)
	case o.set:
		return json.Marshal(o.ID)
	default:
		return []byte("null"), nil
	}
}

// sentinelLiteral returns the string held by data, if it is a JSON string,
// and whether data is null or the empty string
func sentinelLiteral(data []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false, nil
	}

	var literal string
	if err := json.Unmarshal(trimmed, &literal); err != nil {
		return "", false, err
	}
	return literal, literal == "", nil
}
