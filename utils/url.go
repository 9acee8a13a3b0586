package utils

import (
	"net/url"
	"strings"
)

// APIBaseURL is the root every VRChat API URL is built from
const APIBaseURL = "https://api.vrchat.cloud/api/1"

type queryParam struct {
	key   string
	value string
}

// URLBuilder assembles request URLs deterministically.
// Path segments added with Escaped are percent-encoded, and query parameters
// keep the order they were added in.
type URLBuilder struct {
	base   string
	path   []string
	params []queryParam
}

// NewURLBuilder starts a URL at base, which must not end with a slash
func NewURLBuilder(base string) *URLBuilder {
	return &URLBuilder{base: strings.TrimSuffix(base, "/")}
}

// APIURL starts a URL at APIBaseURL
func APIURL() *URLBuilder {
	return NewURLBuilder(APIBaseURL)
}

// Path appends trusted segments verbatim
func (b *URLBuilder) Path(segments ...string) *URLBuilder {
	b.path = append(b.path, segments...)
	return b
}

// Escaped appends an untrusted segment such as an ID or a username
func (b *URLBuilder) Escaped(segment string) *URLBuilder {
	b.path = append(b.path, url.PathEscape(segment))
	return b
}

// Param appends a query parameter
func (b *URLBuilder) Param(key, value string) *URLBuilder {
	b.params = append(b.params, queryParam{key: key, value: value})
	return b
}

// ParamIf appends a query parameter only when value is not empty
func (b *URLBuilder) ParamIf(key, value string) *URLBuilder {
	if value == "" {
		return b
	}
	return b.Param(key, value)
}

// String renders the URL
func (b *URLBuilder) String() string {
	var sb strings.Builder
	sb.WriteString(b.base)
	for _, segment := range b.path {
		sb.WriteByte('/')
		sb.WriteString(segment)
	}
	for i, p := range b.params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}
