package query

import (
	"strconv"

	"vrcfetch/id"
	"vrcfetch/model"
)

// World fetches a world by ID
type World struct {
	Base[Authentication]
	JSON[model.World]
	ID id.World
}

func (w World) URL(Authentication) string {
	return apiURL().Path("worlds").Escaped(w.ID.String()).String()
}

func (w World) Body(Authentication) ([]byte, error) {
	return nil, requireID("world", w.ID)
}

// WorldsSort is the sort key of a world listing. The zero value means heat.
type WorldsSort string

const (
	SortPopularity          WorldsSort = "popularity"
	SortHeat                WorldsSort = "heat"
	SortTrust               WorldsSort = "trust"
	SortShuffle             WorldsSort = "shuffle"
	SortRandom              WorldsSort = "random"
	SortFavorites           WorldsSort = "favorites"
	SortReportScore         WorldsSort = "reportScore"
	SortReportCount         WorldsSort = "reportCount"
	SortPublicationDate     WorldsSort = "publicationDate"
	SortLabsPublicationDate WorldsSort = "labsPublicationDate"
	SortCreated             WorldsSort = "created"
	SortCreatedAt           WorldsSort = "_created_at"
	SortUpdated             WorldsSort = "updated"
	SortUpdatedAt           WorldsSort = "_updated_at"
	SortOrder               WorldsSort = "order"
	SortRelevance           WorldsSort = "relevance"
	SortMagic               WorldsSort = "magic"
	SortName                WorldsSort = "name"
)

// DefaultWorldsSort is used when ActiveWorlds.Sort is empty
const DefaultWorldsSort = SortHeat

func (s WorldsSort) String() string {
	if s == "" {
		return string(DefaultWorldsSort)
	}
	return string(s)
}

// ActiveWorlds lists worlds that currently have players in them.
// Empty filters are left out of the request.
type ActiveWorlds struct {
	Base[Authentication]
	JSON[[]model.WorldListing]
	Pagination      Pagination
	Sort            WorldsSort
	Order           Order
	ReleaseStatus   model.ReleaseStatus
	Featured        *bool
	Search          string
	Tag             string
	NoTag           string
	MaxUnityVersion string
	MinUnityVersion string
	Platform        string
}

func (a ActiveWorlds) URL(Authentication) string {
	b := a.Pagination.apply(apiURL().Path("worlds", "active")).
		Param("sort", a.Sort.String()).
		Param("order", a.Order.String()).
		ParamIf("releaseStatus", string(a.ReleaseStatus))
	if a.Featured != nil {
		b.Param("featured", strconv.FormatBool(*a.Featured))
	}
	return b.ParamIf("search", a.Search).
		ParamIf("tag", a.Tag).
		ParamIf("notag", a.NoTag).
		ParamIf("maxUnityVersion", a.MaxUnityVersion).
		ParamIf("minUnityVersion", a.MinUnityVersion).
		ParamIf("platform", a.Platform).
		String()
}

// Instance fetches a world instance
type Instance struct {
	Base[Authentication]
	JSON[model.Instance]
	ID id.WorldInstance
}

func (i Instance) URL(Authentication) string {
	return apiURL().Path("instances", i.ID.PathEscape()).String()
}

// Body rejects a location missing either its world or its instance part
func (i Instance) Body(Authentication) ([]byte, error) {
	if err := requireID("world", i.ID.World); err != nil {
		return nil, err
	}
	return nil, requireID("instance", i.ID.Instance)
}
