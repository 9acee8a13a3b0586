package model

import (
	"bytes"
	"encoding/json"

	"vrcfetch/id"
)

// Group describes a VRChat group
type Group struct {
	ID                  id.Group `json:"id"`
	Name                string   `json:"name"`
	ShortCode           string   `json:"shortCode"`
	Discriminator       string   `json:"discriminator"`
	Description         string   `json:"description"`
	IconID              string   `json:"iconId"`
	IconURL             string   `json:"iconUrl"`
	BannerID            string   `json:"bannerId"`
	BannerURL           string   `json:"bannerUrl"`
	Privacy             string   `json:"privacy"`
	OwnerID             id.User  `json:"ownerId"`
	Rules               string   `json:"rules"`
	Links               []string `json:"links"`
	Languages           []string `json:"languages"`
	MemberCount         int64    `json:"memberCount"`
	MemberCountSyncedAt string   `json:"memberCountSyncedAt"`
	IsVerified          bool     `json:"isVerified"`
	JoinState           string   `json:"joinState"`
	CreatedAt           string   `json:"createdAt"`
	OnlineMemberCount   int64    `json:"onlineMemberCount"`
	MembershipStatus    string   `json:"membershipStatus"`
}

// GroupMember is a user's membership record in a group
type GroupMember struct {
	ID                          string   `json:"id"`
	GroupID                     id.Group `json:"groupId"`
	UserID                      id.User  `json:"userId"`
	IsRepresenting              bool     `json:"isRepresenting"`
	RoleIDs                     []string `json:"roleIds"`
	MembershipStatus            string   `json:"membershipStatus"`
	Visibility                  string   `json:"visibility"`
	IsSubscribedToAnnouncements bool     `json:"isSubscribedToAnnouncements"`
	JoinedAt                    *string  `json:"joinedAt,omitempty"`
	BannedAt                    *string  `json:"bannedAt,omitempty"`
	ManagerNotes                string   `json:"managerNotes"`
}

// GroupAuditLogs is one page of a group's audit log
type GroupAuditLogs struct {
	Results    []GroupAuditLog `json:"results"`
	TotalCount int             `json:"totalCount"`
	HasNext    bool            `json:"hasNext"`
}

// GroupAuditLog is a single audit log entry
type GroupAuditLog struct {
	ID               string            `json:"id"`
	CreatedAt        string            `json:"created_at"`
	GroupID          id.Group          `json:"groupId"`
	ActorID          id.User           `json:"actorId"`
	ActorDisplayName *string           `json:"actorDisplayname,omitempty"`
	TargetID         *string           `json:"targetId,omitempty"`
	EventType        string            `json:"eventType"`
	Description      string            `json:"description"`
	Data             GroupAuditLogData `json:"data"`
}

// GroupAuditLogData holds the changed values of an audit log entry
type GroupAuditLogData struct {
	Description *ChangeOr[string] `json:"description,omitempty"`
	JoinState   *ChangeOr[string] `json:"joinState,omitempty"`
	Order       *ChangeOr[int]    `json:"order,omitempty"`
}

// Change is an old and a new value of a field
type Change[T any] struct {
	Old T `json:"old"`
	New T `json:"new"`
}

// ChangeOr is either a Change or a single plain value.
// An object with both "old" and "new" keys decodes as a Change.
type ChangeOr[T any] struct {
	Change *Change[T]
	Value  T
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ChangeOr[T]) UnmarshalJSON(data []byte) error {
	*c = ChangeOr[T]{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		f, err := probe("change", trimmed)
		if err != nil {
			return err
		}
		if f.has("old", "new") {
			var change Change[T]
			if err := json.Unmarshal(trimmed, &change); err != nil {
				return err
			}
			c.Change = &change
			return nil
		}
	}

	return json.Unmarshal(trimmed, &c.Value)
}

// MarshalJSON writes the change object or the plain value
func (c ChangeOr[T]) MarshalJSON() ([]byte, error) {
	if c.Change != nil {
		return json.Marshal(c.Change)
	}
	return json.Marshal(c.Value)
}

// Current returns the newest value
func (c ChangeOr[T]) Current() T {
	if c.Change != nil {
		return c.Change.New
	}
	return c.Value
}
