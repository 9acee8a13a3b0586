package model

import (
	"encoding/json"
	"fmt"

	"vrcfetch/id"
)

// DeveloperType marks users with a special status
type DeveloperType string

const (
	DeveloperNone      DeveloperType = "none"
	DeveloperTrusted   DeveloperType = "trusted"
	DeveloperInternal  DeveloperType = "internal"
	DeveloperModerator DeveloperType = "moderator"
)

// UserState is whether a user is online in VRChat, active elsewhere, or offline
type UserState string

const (
	UserStateOffline UserState = "offline"
	UserStateActive  UserState = "active"
	UserStateOnline  UserState = "online"
)

// UserStatus is the colored status a user picks for themselves
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusJoinMe  UserStatus = "join me"
	StatusAskMe   UserStatus = "ask me"
	StatusBusy    UserStatus = "busy"
	StatusOffline UserStatus = "offline"
)

// Profile holds the fields shared by every user representation
type Profile struct {
	ID                             id.User       `json:"id"`
	DisplayName                    string        `json:"displayName"`
	Bio                            string        `json:"bio"`
	BioLinks                       []string      `json:"bioLinks"`
	CurrentAvatarImageURL          string        `json:"currentAvatarImageUrl"`
	CurrentAvatarThumbnailImageURL string        `json:"currentAvatarThumbnailImageUrl"`
	DeveloperType                  DeveloperType `json:"developerType"`
	LastPlatform                   string        `json:"last_platform"`
	ProfilePicOverride             string        `json:"profilePicOverride"`
	Status                         UserStatus    `json:"status"`
	StatusDescription              string        `json:"statusDescription"`
	Tags                           []string      `json:"tags"`
	UserIcon                       string        `json:"userIcon"`
}

// User is another user's profile as seen by the authenticated user
type User struct {
	Profile
	AllowAvatarCopying  bool                               `json:"allowAvatarCopying"`
	DateJoined          string                             `json:"date_joined"`
	FriendKey           string                             `json:"friendKey"`
	FriendRequestStatus string                             `json:"friendRequestStatus"`
	InstanceID          id.OfflineOrPrivateOr[id.Instance] `json:"instanceId"`
	IsFriend            bool                               `json:"isFriend"`
	LastActivity        OptionalTime                       `json:"last_activity"`
	LastLogin           OptionalTime                       `json:"last_login"`
	Location            string                             `json:"location"`
	Note                string                             `json:"note"`
	State               UserState                          `json:"state"`
	TravelingToInstance *string                            `json:"travelingToInstance,omitempty"`
	TravelingToLocation *string                            `json:"travelingToLocation,omitempty"`
	TravelingToWorld    *string                            `json:"travelingToWorld,omitempty"`
	WorldID             id.OfflineOrPrivateOr[id.World]    `json:"worldId"`
}

var userKeys = []string{"id", "displayName"}

// UnmarshalJSON requires the keys every user object carries
func (u *User) UnmarshalJSON(data []byte) error {
	f, err := probe("User", data)
	if err != nil {
		return err
	}
	if err := f.require("User", userKeys...); err != nil {
		return err
	}
	type plain User
	return json.Unmarshal(data, (*plain)(u))
}

// Friend is an entry of the authenticated user's friend list
type Friend struct {
	Profile
	FriendKey string       `json:"friendKey"`
	IsFriend  bool         `json:"isFriend"`
	ImageURL  string       `json:"imageUrl"`
	LastLogin OptionalTime `json:"last_login"`
	Location  string       `json:"location"`
}

func (f *Friend) UnmarshalJSON(data []byte) error {
	fs, err := probe("Friend", data)
	if err != nil {
		return err
	}
	if err := fs.require("Friend", userKeys...); err != nil {
		return err
	}
	type plain Friend
	return json.Unmarshal(data, (*plain)(f))
}

// CurrentAccount is the authenticated user's own account
type CurrentAccount struct {
	Profile
	Username             string       `json:"username"`
	EmailVerified        bool         `json:"emailVerified"`
	ObfuscatedEmail      string       `json:"obfuscatedEmail"`
	HasBirthday          bool         `json:"hasBirthday"`
	TwoFactorAuthEnabled bool         `json:"twoFactorAuthEnabled"`
	AcceptedTOSVersion   int          `json:"acceptedTOSVersion"`
	AccountDeletionDate  *string      `json:"accountDeletionDate,omitempty"`
	CurrentAvatar        *id.Avatar   `json:"currentAvatar,omitempty"`
	HomeLocation         string       `json:"homeLocation"`
	Friends              []id.User    `json:"friends"`
	OnlineFriends        []id.User    `json:"onlineFriends"`
	ActiveFriends        []id.User    `json:"activeFriends"`
	OfflineFriends       []id.User    `json:"offlineFriends"`
	LastActivity         OptionalTime `json:"last_activity"`
	LastLogin            OptionalTime `json:"last_login"`
	State                UserState    `json:"state"`
}

var currentAccountKeys = []string{"id", "displayName", "username"}

// UnmarshalJSON requires id, displayName and username
func (a *CurrentAccount) UnmarshalJSON(data []byte) error {
	f, err := probe("CurrentAccount", data)
	if err != nil {
		return err
	}
	if err := f.require("CurrentAccount", currentAccountKeys...); err != nil {
		return err
	}
	type plain CurrentAccount
	return json.Unmarshal(data, (*plain)(a))
}

// UserKind names which variant an AnyUser holds
type UserKind int

const (
	KindUser UserKind = iota
	KindFriend
	KindCurrentAccount
)

func (k UserKind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindFriend:
		return "Friend"
	case KindCurrentAccount:
		return "CurrentAccount"
	default:
		return "Unknown"
	}
}

// AnyUser is what /users/{id} returns: the caller's own account, a friend,
// or any other user. Variants are tried in that order:
//
//  1. CurrentAccount when both username and emailVerified are present
//  2. Friend when friendKey is a non-empty string and isFriend is true
//  3. User when id and displayName are present
type AnyUser struct {
	kind    UserKind
	account *CurrentAccount
	friend  *Friend
	user    *User
}

// UnmarshalJSON picks the first matching variant
func (u *AnyUser) UnmarshalJSON(data []byte) error {
	f, err := probe("user", data)
	if err != nil {
		return err
	}

	*u = AnyUser{}
	switch {
	case f.has("username", "emailVerified"):
		var account CurrentAccount
		if err := json.Unmarshal(data, &account); err != nil {
			return err
		}
		u.kind, u.account = KindCurrentAccount, &account
	case f.nonEmptyString("friendKey") && f.isTrue("isFriend"):
		var friend Friend
		if err := json.Unmarshal(data, &friend); err != nil {
			return err
		}
		u.kind, u.friend = KindFriend, &friend
	case f.has(userKeys...):
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}
		u.kind, u.user = KindUser, &user
	default:
		return &ShapeError{Target: "user", Missing: f.missing(userKeys...)}
	}
	return nil
}

// MarshalJSON writes the held variant
func (u AnyUser) MarshalJSON() ([]byte, error) {
	switch u.kind {
	case KindCurrentAccount:
		return json.Marshal(u.account)
	case KindFriend:
		return json.Marshal(u.friend)
	default:
		return json.Marshal(u.user)
	}
}

// Kind returns the decoded variant
func (u AnyUser) Kind() UserKind { return u.kind }

// Profile returns the fields every variant shares
func (u AnyUser) Profile() Profile {
	switch u.kind {
	case KindCurrentAccount:
		return u.account.Profile
	case KindFriend:
		return u.friend.Profile
	default:
		if u.user == nil {
			return Profile{}
		}
		return u.user.Profile
	}
}

// Account returns the CurrentAccount variant
func (u AnyUser) Account() (CurrentAccount, error) {
	if u.kind != KindCurrentAccount {
		return CurrentAccount{}, fmt.Errorf("%w: got %s, want CurrentAccount", ErrUnexpectedShape, u.kind)
	}
	return *u.account, nil
}

// Friend returns the Friend variant
func (u AnyUser) Friend() (Friend, error) {
	if u.kind != KindFriend {
		return Friend{}, fmt.Errorf("%w: got %s, want Friend", ErrUnexpectedShape, u.kind)
	}
	return *u.friend, nil
}

// User returns the User variant
func (u AnyUser) User() (User, error) {
	if u.kind != KindUser || u.user == nil {
		return User{}, fmt.Errorf("%w: got %s, want User", ErrUnexpectedShape, u.kind)
	}
	return *u.user, nil
}
