// Package id holds validated VRChat identifiers.
//
// Each identifier type can only be constructed through its Parse function or
// by decoding text, so a value of the type is known to have the right shape.
package id

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"vrcfetch/internal"
)

const (
	userPrefix   = "usr_"
	worldPrefix  = "wrld_"
	groupPrefix  = "grp_"
	avatarPrefix = "avtr_"

	// Legacy user IDs predate the usr_ prefix and are at most this long
	maxLegacyUserLength = 10
)

// parsePrefixed validates a "<prefix><uuid>" identifier
func parsePrefixed(field, prefix, raw string) (string, error) {
	rest, ok := strings.CutPrefix(raw, prefix)
	if !ok {
		return "", internal.NewValidationErrorWithValue(field, "missing "+prefix+" prefix", raw)
	}
	if err := validateUUID(rest); err != nil {
		return "", internal.NewValidationErrorWithValue(field, "invalid UUID part", raw).
			WithContext("error", err.Error())
	}
	return raw, nil
}

// validateUUID accepts only the canonical 36 character form
func validateUUID(s string) error {
	if len(s) != 36 {
		return fmt.Errorf("invalid UUID length: %d", len(s))
	}
	_, err := uuid.Parse(s)
	return err
}

// User is a VRChat user ID, either usr_<uuid> or a short legacy ID
type User struct {
	value  string
	legacy bool
}

// ParseUser validates a user ID
func ParseUser(raw string) (User, error) {
	if strings.HasPrefix(raw, userPrefix) {
		value, err := parsePrefixed("user_id", userPrefix, raw)
		if err != nil {
			return User{}, err
		}
		return User{value: value}, nil
	}

	if raw == "" || len(raw) > maxLegacyUserLength {
		return User{}, internal.NewValidationErrorWithValue("user_id", "not a usr_ ID or a legacy ID", raw).
			WithSuggestion("User IDs look like usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469")
	}
	for _, r := range raw {
		if !isAlphanumeric(r) {
			return User{}, internal.NewValidationErrorWithValue("user_id", "legacy IDs are alphanumeric", raw)
		}
	}
	return User{value: raw, legacy: true}, nil
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// String returns the raw ID
func (u User) String() string { return u.value }

// IsLegacy reports whether the ID predates the usr_ prefix
func (u User) IsLegacy() bool { return u.legacy }

// IsZero reports whether the ID is unset
func (u User) IsZero() bool { return u.value == "" }

// PathEscape returns the ID encoded for use as a URL path segment
func (u User) PathEscape() string { return url.PathEscape(u.value) }

// MarshalText implements encoding.TextMarshaler
func (u User) MarshalText() ([]byte, error) { return []byte(u.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (u *User) UnmarshalText(text []byte) error {
	parsed, err := ParseUser(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// World is a VRChat world ID (wrld_<uuid>)
type World struct{ value string }

// ParseWorld validates a world ID
func ParseWorld(raw string) (World, error) {
	value, err := parsePrefixed("world_id", worldPrefix, raw)
	if err != nil {
		return World{}, err
	}
	return World{value: value}, nil
}

// String returns the raw ID
func (w World) String() string { return w.value }

// IsZero reports whether the ID is unset
func (w World) IsZero() bool { return w.value == "" }

// PathEscape returns the ID encoded for use as a URL path segment
func (w World) PathEscape() string { return url.PathEscape(w.value) }

// MarshalText implements encoding.TextMarshaler
func (w World) MarshalText() ([]byte, error) { return []byte(w.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler, validating with ParseWorld
func (w *World) UnmarshalText(text []byte) error {
	parsed, err := ParseWorld(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Group is a VRChat group ID (grp_<uuid>)
type Group struct{ value string }

// ParseGroup validates a group ID
func ParseGroup(raw string) (Group, error) {
	value, err := parsePrefixed("group_id", groupPrefix, raw)
	if err != nil {
		return Group{}, err
	}
	return Group{value: value}, nil
}

// String returns the raw ID
func (g Group) String() string { return g.value }

// IsZero reports whether the ID is unset
func (g Group) IsZero() bool { return g.value == "" }

// PathEscape returns the ID encoded for use as a URL path segment
func (g Group) PathEscape() string { return url.PathEscape(g.value) }

// MarshalText implements encoding.TextMarshaler
func (g Group) MarshalText() ([]byte, error) { return []byte(g.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler, validating with ParseGroup
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Avatar is a VRChat avatar ID (avtr_<uuid>)
type Avatar struct{ value string }

// ParseAvatar validates an avatar ID
func ParseAvatar(raw string) (Avatar, error) {
	value, err := parsePrefixed("avatar_id", avatarPrefix, raw)
	if err != nil {
		return Avatar{}, err
	}
	return Avatar{value: value}, nil
}

// String returns the raw ID
func (a Avatar) String() string { return a.value }

// IsZero reports whether the ID is unset
func (a Avatar) IsZero() bool { return a.value == "" }

// PathEscape returns the ID encoded for use as a URL path segment
func (a Avatar) PathEscape() string { return url.PathEscape(a.value) }

// MarshalText implements encoding.TextMarshaler
func (a Avatar) MarshalText() ([]byte, error) { return []byte(a.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler, validating with ParseAvatar
func (a *Avatar) UnmarshalText(text []byte) error {
	parsed, err := ParseAvatar(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Instance is the opaque instance part of a location, such as
// "12345~private(usr_...)~region(eu)"
type Instance struct{ value string }

// ParseInstance validates an instance ID
func ParseInstance(raw string) (Instance, error) {
	if raw == "" {
		return Instance{}, internal.NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.Contains(raw, ":") {
		return Instance{}, internal.NewValidationErrorWithValue("instance_id", "instance ID cannot contain ':'", raw).
			WithSuggestion("Use ParseWorldInstance for wrld_...:instance locations")
	}
	return Instance{value: raw}, nil
}

// String returns the raw ID
func (i Instance) String() string { return i.value }

// IsZero reports whether the ID is unset
func (i Instance) IsZero() bool { return i.value == "" }

// PathEscape returns the ID encoded for use as a URL path segment
func (i Instance) PathEscape() string { return url.PathEscape(i.value) }

// MarshalText implements encoding.TextMarshaler
func (i Instance) MarshalText() ([]byte, error) { return []byte(i.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler, validating with ParseInstance
func (i *Instance) UnmarshalText(text []byte) error {
	parsed, err := ParseInstance(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// WorldInstance identifies an instance within a world, written "wrld_...:instance"
type WorldInstance struct {
	World    World
	Instance Instance
}

// ParseWorldInstance splits and validates a world instance location
func ParseWorldInstance(raw string) (WorldInstance, error) {
	worldPart, instancePart, ok := strings.Cut(raw, ":")
	if !ok {
		return WorldInstance{}, internal.NewValidationErrorWithValue("world_instance_id", "missing ':' separator", raw).
			WithSuggestion("Locations look like wrld_<uuid>:<instance>")
	}

	world, err := ParseWorld(worldPart)
	if err != nil {
		return WorldInstance{}, err
	}
	instance, err := ParseInstance(instancePart)
	if err != nil {
		return WorldInstance{}, err
	}
	return WorldInstance{World: world, Instance: instance}, nil
}

// String returns "wrld_...:instance", or "" when unset
func (wi WorldInstance) String() string {
	if wi.IsZero() {
		return ""
	}
	return wi.World.String() + ":" + wi.Instance.String()
}

// IsZero reports whether both parts are unset
func (wi WorldInstance) IsZero() bool { return wi.World.IsZero() && wi.Instance.IsZero() }

// PathEscape encodes both parts, keeping the ':' separator the API expects
func (wi WorldInstance) PathEscape() string {
	return wi.World.PathEscape() + ":" + wi.Instance.PathEscape()
}

// MarshalText implements encoding.TextMarshaler
func (wi WorldInstance) MarshalText() ([]byte, error) { return []byte(wi.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler, validating with ParseWorldInstance
func (wi *WorldInstance) UnmarshalText(text []byte) error {
	parsed, err := ParseWorldInstance(string(text))
	if err != nil {
		return err
	}
	*wi = parsed
	return nil
}
