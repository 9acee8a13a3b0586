package query

import (
	"net/http"
	"strconv"

	"vrcfetch/id"
	"vrcfetch/model"
)

// Group fetches a group by ID
type Group struct {
	Base[Authentication]
	JSON[model.Group]
	ID id.Group
}

func (g Group) URL(Authentication) string {
	return apiURL().Path("groups").Escaped(g.ID.String()).String()
}

func (g Group) Body(Authentication) ([]byte, error) {
	return nil, requireID("group", g.ID)
}

// GroupAuditLogs fetches a page of a group's audit log. Zero N and Offset
// are left out of the request.
type GroupAuditLogs struct {
	Base[Authentication]
	JSON[model.GroupAuditLogs]
	ID     id.Group
	N      int
	Offset int
}

func (g GroupAuditLogs) URL(Authentication) string {
	b := apiURL().Path("groups").Escaped(g.ID.String()).Path("auditLogs")
	if g.N > 0 {
		b.Param("n", strconv.Itoa(g.N))
	}
	if g.Offset > 0 {
		b.Param("offset", strconv.Itoa(g.Offset))
	}
	return b.String()
}

func (g GroupAuditLogs) Body(Authentication) ([]byte, error) {
	return nil, requireID("group", g.ID)
}

// BanGroupMember bans a user from a group
type BanGroupMember struct {
	JSON[model.GroupMember]
	GroupID id.Group
	UserID  id.User
}

func (BanGroupMember) Method(Authentication) string { return http.MethodPost }

func (b BanGroupMember) URL(Authentication) string {
	return apiURL().Path("groups").Escaped(b.GroupID.String()).Path("bans").String()
}

func (b BanGroupMember) Body(Authentication) ([]byte, error) {
	if err := requireID("group", b.GroupID); err != nil {
		return nil, err
	}
	if err := requireID("user", b.UserID); err != nil {
		return nil, err
	}
	return jsonBody(struct {
		UserID id.User `json:"userId"`
	}{UserID: b.UserID})
}

// UnbanGroupMember lifts a user's ban from a group
type UnbanGroupMember struct {
	Base[Authentication]
	JSON[model.GroupMember]
	GroupID id.Group
	UserID  id.User
}

func (UnbanGroupMember) Method(Authentication) string { return http.MethodDelete }

func (u UnbanGroupMember) URL(Authentication) string {
	return apiURL().Path("groups").Escaped(u.GroupID.String()).Path("bans").Escaped(u.UserID.String()).String()
}

func (u UnbanGroupMember) Body(Authentication) ([]byte, error) {
	if err := requireID("group", u.GroupID); err != nil {
		return nil, err
	}
	return nil, requireID("user", u.UserID)
}
