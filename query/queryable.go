// Package query describes VRChat API operations.
//
// Every operation is a small value implementing Queryable for exactly one
// authentication state. The state an operation needs is the parameter type of
// its methods, so handing a login-only operation to an authenticated client
// (or the reverse) does not compile.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vrcfetch/utils"
)

// Queryable renders one API operation into a request and decodes its response
type Queryable[S State, R any] interface {
	// Method returns the HTTP method, such as http.MethodGet
	Method(state S) string
	// URL returns the fully qualified request URL
	URL(state S) string
	// Body returns the request body, or nil when there is none
	Body(state S) ([]byte, error)
	// Deserialize decodes the response body
	Deserialize(data []byte) (R, error)
}

// Base provides the GET method and an empty body
type Base[S State] struct{}

func (Base[S]) Method(S) string { return http.MethodGet }

func (Base[S]) Body(S) ([]byte, error) { return nil, nil }

// JSON decodes the response body as R
type JSON[R any] struct{}

func (JSON[R]) Deserialize(data []byte) (R, error) {
	return DecodeJSON[R](data)
}

// DecodeJSON decodes data into a new R
func DecodeJSON[R any](data []byte) (R, error) {
	var result R
	if err := json.Unmarshal(data, &result); err != nil {
		var zero R
		return zero, fmt.Errorf("decode %T: %w", zero, err)
	}
	return result, nil
}

func apiURL() *utils.URLBuilder {
	return utils.APIURL()
}

// Pagination selects a page of a list endpoint. A zero N means DefaultPageSize.
type Pagination struct {
	N      int `json:"n"`
	Offset int `json:"offset"`
}

// DefaultPageSize is the page size used when Pagination.N is zero
const DefaultPageSize = 60

func (p Pagination) apply(b *utils.URLBuilder) *utils.URLBuilder {
	n := p.N
	if n <= 0 {
		n = DefaultPageSize
	}
	return b.Param("n", strconv.Itoa(n)).Param("offset", strconv.Itoa(p.Offset))
}

// Next returns the pagination of the following page
func (p Pagination) Next() Pagination {
	n := p.N
	if n <= 0 {
		n = DefaultPageSize
	}
	return Pagination{N: n, Offset: p.Offset + n}
}

// Order is the direction of a sorted listing. The zero value means descending.
type Order string

const (
	Ascending  Order = "ascending"
	Descending Order = "descending"
)

func (o Order) String() string {
	if o == "" {
		return string(Descending)
	}
	return string(o)
}

// ErrMissingID is returned by Body when an ID that belongs in the request
// path is unset. Without it the URL would name the collection instead.
var ErrMissingID = errors.New("missing ID")

func requireID(name string, v interface{ IsZero() bool }) error {
	if v.IsZero() {
		return fmt.Errorf("%s: %w", name, ErrMissingID)
	}
	return nil
}

func jsonBody(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return body, nil
}
