package api

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"vrcfetch/query"
	"vrcfetch/utils"
)

// apiKey is the public key every VRChat client sends as a cookie
const apiKey = "JlE5Jldo5Jibnk5O5hTx6XVqsJu4WJ26"

func baseHeaders(userAgent string) http.Header {
	header := make(http.Header)
	header.Set("Accept", "application/json")
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", userAgent)
	return header
}

// authenticatingHeaders sends the API key cookie and the credentials as
// basic auth, each part query-escaped before encoding
func authenticatingHeaders(userAgent string, auth query.Authenticating) http.Header {
	header := baseHeaders(userAgent)
	header.Set("Cookie", utils.APIKeyCookie+"="+apiKey)

	credentials := url.QueryEscape(auth.Username) + ":" + url.QueryEscape(auth.Password)
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	return header
}

// authenticatedHeaders sends the API key and session cookies
func authenticatedHeaders(userAgent string, auth query.Authentication) http.Header {
	cookies := []string{
		utils.APIKeyCookie + "=" + apiKey,
		utils.AuthCookie + "=" + auth.Token,
	}
	if auth.SecondFactorToken != nil {
		cookies = append(cookies, utils.TwoFactorAuthCookie+"="+*auth.SecondFactorToken)
	}

	header := baseHeaders(userAgent)
	header.Set("Cookie", strings.Join(cookies, "; "))
	return header
}
