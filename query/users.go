package query

import (
	"net/http"
	"strconv"

	"vrcfetch/id"
	"vrcfetch/model"
)

// User fetches a user by ID. The shape depends on who is asking: the
// current account, a friend or anyone else.
type User struct {
	Base[Authentication]
	JSON[model.AnyUser]
	ID id.User
}

func (u User) URL(Authentication) string {
	return apiURL().Path("users").Escaped(u.ID.String()).String()
}

func (u User) Body(Authentication) ([]byte, error) {
	return nil, requireID("user", u.ID)
}

// SearchUsers searches users by display name
type SearchUsers struct {
	Base[Authentication]
	JSON[[]model.User]
	Search     string
	Pagination Pagination
}

func (s SearchUsers) URL(Authentication) string {
	b := apiURL().Path("users").Param("search", s.Search)
	return s.Pagination.apply(b).String()
}

// DefaultFriendsLimit is the page size used when ListFriends.Limit is zero
const DefaultFriendsLimit = 10

// ListFriends lists the current account's friends, online ones unless
// Offline is set
type ListFriends struct {
	Base[Authentication]
	JSON[[]model.Friend]
	Limit   int
	Offset  int
	Offline bool
}

func (l ListFriends) URL(Authentication) string {
	limit := l.Limit
	if limit <= 0 {
		limit = DefaultFriendsLimit
	}
	b := apiURL().Path("auth", "user", "friends").
		Param("n", strconv.Itoa(limit)).
		Param("offset", strconv.Itoa(l.Offset))
	if l.Offline {
		b.Param("offline", "true")
	}
	return b.String()
}

// Next returns the query for the following page
func (l ListFriends) Next() ListFriends {
	limit := l.Limit
	if limit <= 0 {
		limit = DefaultFriendsLimit
	}
	return ListFriends{Limit: limit, Offset: l.Offset + limit, Offline: l.Offline}
}

// Unfriend removes a user from the current account's friends
type Unfriend struct {
	Base[Authentication]
	JSON[model.Success]
	ID id.User
}

func (Unfriend) Method(Authentication) string { return http.MethodDelete }

func (u Unfriend) URL(Authentication) string {
	return apiURL().Path("auth", "user", "friends").Escaped(u.ID.String()).String()
}

func (u Unfriend) Body(Authentication) ([]byte, error) {
	return nil, requireID("user", u.ID)
}
