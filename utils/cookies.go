package utils

import (
	"net/http"
	"strings"
)

// Cookie names VRChat uses for session material
const (
	APIKeyCookie        = "apiKey"
	AuthCookie          = "auth"
	TwoFactorAuthCookie = "twoFactorAuth"
)

// ExtractCookie returns the value of the named cookie from the response's
// Set-Cookie headers. Names match exactly, falling back to a case-insensitive
// match. An empty value counts as absent.
func ExtractCookie(resp *http.Response, name string) (string, bool) {
	if resp == nil {
		return "", false
	}

	cookies := resp.Cookies()
	for _, cookie := range cookies {
		if cookie.Name == name && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	for _, cookie := range cookies {
		if strings.EqualFold(cookie.Name, name) && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}
