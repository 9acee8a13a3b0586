package model

import "vrcfetch/id"

// InstancePrivacy is who can join an instance; the API calls it the type
type InstancePrivacy string

const (
	PrivacyPublic           InstancePrivacy = "public"
	PrivacyFriendsOfFriends InstancePrivacy = "hidden"
	PrivacyFriends          InstancePrivacy = "friends"
	PrivacyGroup            InstancePrivacy = "group"
	PrivacyPrivate          InstancePrivacy = "private"
)

// InstanceRegion is where an instance is hosted. Unknown values are kept as sent.
type InstanceRegion string

const (
	RegionUSA     InstanceRegion = "us"
	RegionUSAWest InstanceRegion = "usw"
	RegionUSAEast InstanceRegion = "use"
	RegionEurope  InstanceRegion = "eu"
	RegionJapan   InstanceRegion = "jp"
)

// InstancePlatformUserCounter counts users per platform
type InstancePlatformUserCounter struct {
	Android int `json:"android"`
	Windows int `json:"standalonewindows"`
}

// Instance describes a running instance of a world
type Instance struct {
	Active           bool                        `json:"active"`
	CanRequestInvite bool                        `json:"canRequestInvite"`
	Capacity         int                         `json:"capacity"`
	Full             bool                        `json:"full"`
	ID               id.WorldInstance            `json:"id"`
	InstanceID       id.Instance                 `json:"instanceId"`
	UserCount        int                         `json:"n_users"`
	Name             string                      `json:"name"`
	OwnerID          *string                     `json:"ownerId,omitempty"`
	Permanent        bool                        `json:"permanent"`
	PhotonRegion     InstanceRegion              `json:"photonRegion"`
	Platforms        InstancePlatformUserCounter `json:"platforms"`
	Region           InstanceRegion              `json:"region"`
	SecureName       string                      `json:"secureName"`
	ShortName        *string                     `json:"shortName,omitempty"`
	Tags             []string                    `json:"tags"`
	Privacy          InstancePrivacy             `json:"type"`
	WorldID          id.World                    `json:"worldId"`

	// Only present when the authenticated user is treated as the creator
	Hidden  *id.User `json:"hidden,omitempty"`
	Friends *id.User `json:"friends,omitempty"`
	Private *id.User `json:"private,omitempty"`
}

// Creator returns the creator ID when the API disclosed it
func (i Instance) Creator() (id.User, bool) {
	for _, creator := range []*id.User{i.Hidden, i.Friends, i.Private} {
		if creator != nil {
			return *creator, true
		}
	}
	return id.User{}, false
}
