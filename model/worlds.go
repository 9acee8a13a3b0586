package model

import "vrcfetch/id"

// ReleaseStatus is the visibility of a world or avatar
type ReleaseStatus string

const (
	ReleasePublic  ReleaseStatus = "public"
	ReleasePrivate ReleaseStatus = "private"
	ReleaseHidden  ReleaseStatus = "hidden"
	ReleaseAll     ReleaseStatus = "all"
)

// UnityPackage is one platform build of a world or avatar
type UnityPackage struct {
	ID           string `json:"id"`
	Platform     string `json:"platform"`
	UnityVersion string `json:"unityVersion"`
	AssetVersion int    `json:"assetVersion"`
}

// WorldListing is the reduced world shape returned by list endpoints
type WorldListing struct {
	ID                  id.World       `json:"id"`
	Name                string         `json:"name"`
	AuthorID            id.User        `json:"authorId"`
	AuthorName          string         `json:"authorName"`
	Capacity            int            `json:"capacity"`
	Favorites           int            `json:"favorites"`
	Heat                int            `json:"heat"`
	Popularity          int            `json:"popularity"`
	Occupants           int            `json:"occupants"`
	ImageURL            string         `json:"imageUrl"`
	ThumbnailImageURL   string         `json:"thumbnailImageUrl"`
	ReleaseStatus       ReleaseStatus  `json:"releaseStatus"`
	Tags                []string       `json:"tags"`
	LabsPublicationDate string         `json:"labsPublicationDate"`
	PublicationDate     string         `json:"publicationDate"`
	CreatedAt           string         `json:"created_at"`
	UpdatedAt           string         `json:"updated_at"`
	UnityPackages       []UnityPackage `json:"unityPackages"`
}

// World is the full description of a world
type World struct {
	ID                  id.World       `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	AuthorID            id.User        `json:"authorId"`
	AuthorName          string         `json:"authorName"`
	Capacity            int            `json:"capacity"`
	RecommendedCapacity int            `json:"recommendedCapacity"`
	Favorites           int            `json:"favorites"`
	Visits              int            `json:"visits"`
	Heat                int            `json:"heat"`
	Popularity          int            `json:"popularity"`
	Occupants           int            `json:"occupants"`
	PublicOccupants     int            `json:"publicOccupants"`
	PrivateOccupants    int            `json:"privateOccupants"`
	ImageURL            string         `json:"imageUrl"`
	ThumbnailImageURL   string         `json:"thumbnailImageUrl"`
	ReleaseStatus       ReleaseStatus  `json:"releaseStatus"`
	Tags                []string       `json:"tags"`
	Version             int            `json:"version"`
	LabsPublicationDate string         `json:"labsPublicationDate"`
	PublicationDate     string         `json:"publicationDate"`
	CreatedAt           string         `json:"created_at"`
	UpdatedAt           string         `json:"updated_at"`
	UnityPackages       []UnityPackage `json:"unityPackages"`
}
