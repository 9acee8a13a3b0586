package model

import (
	"encoding/json"
	"fmt"
)

// AdditionalAuthFactor is a second factor the API may ask for after login
type AdditionalAuthFactor string

const (
	FactorEmailOTP AdditionalAuthFactor = "emailOtp"
	FactorTOTP     AdditionalAuthFactor = "totp"
	FactorOTP      AdditionalAuthFactor = "otp"
)

// LoginResponse is returned by /auth/user when a second factor is still required
type LoginResponse struct {
	RequiresAdditionalAuth []AdditionalAuthFactor `json:"requiresTwoFactorAuth"`
}

var loginResponseKeys = []string{"requiresTwoFactorAuth"}

// UnmarshalJSON requires the requiresTwoFactorAuth key
func (l *LoginResponse) UnmarshalJSON(data []byte) error {
	f, err := probe("LoginResponse", data)
	if err != nil {
		return err
	}
	if err := f.require("LoginResponse", loginResponseKeys...); err != nil {
		return err
	}
	type plain LoginResponse
	return json.Unmarshal(data, (*plain)(l))
}

// Requires reports whether factor is one of the accepted second factors
func (l LoginResponse) Requires(factor AdditionalAuthFactor) bool {
	for _, f := range l.RequiresAdditionalAuth {
		if f == factor {
			return true
		}
	}
	return false
}

// LoginResponseOrCurrentUser is the result of /auth/user: either the full
// account, or a challenge listing the second factors still needed.
// The account shape is tried first (id, displayName and username present),
// then the challenge shape (requiresTwoFactorAuth present).
type LoginResponseOrCurrentUser struct {
	account *CurrentAccount
	login   *LoginResponse
}

// UnmarshalJSON picks the first matching variant
func (r *LoginResponseOrCurrentUser) UnmarshalJSON(data []byte) error {
	f, err := probe("login response or current user", data)
	if err != nil {
		return err
	}

	*r = LoginResponseOrCurrentUser{}
	switch {
	case f.has(currentAccountKeys...):
		var account CurrentAccount
		if err := json.Unmarshal(data, &account); err != nil {
			return err
		}
		r.account = &account
	case f.has(loginResponseKeys...):
		var login LoginResponse
		if err := json.Unmarshal(data, &login); err != nil {
			return err
		}
		r.login = &login
	default:
		return &ShapeError{
			Target:  "login response or current user",
			Missing: append(f.missing(currentAccountKeys...), f.missing(loginResponseKeys...)...),
		}
	}
	return nil
}

// MarshalJSON writes the held variant
func (r LoginResponseOrCurrentUser) MarshalJSON() ([]byte, error) {
	if r.account != nil {
		return json.Marshal(r.account)
	}
	if r.login != nil {
		return json.Marshal(r.login)
	}
	return []byte("null"), nil
}

// IsLogin reports whether the response is a second factor challenge
func (r LoginResponseOrCurrentUser) IsLogin() bool { return r.login != nil }

// Account returns the account variant, or ErrUnexpectedShape for a challenge
func (r LoginResponseOrCurrentUser) Account() (CurrentAccount, error) {
	if r.account == nil {
		return CurrentAccount{}, fmt.Errorf("%w: got a second factor challenge, want the current account", ErrUnexpectedShape)
	}
	return *r.account, nil
}

// Login returns the challenge variant, or ErrUnexpectedShape for an account
func (r LoginResponseOrCurrentUser) Login() (LoginResponse, error) {
	if r.login == nil {
		return LoginResponse{}, fmt.Errorf("%w: got the current account, want a second factor challenge", ErrUnexpectedShape)
	}
	return *r.login, nil
}

// AuthStatus reports whether the session token is still valid
type AuthStatus struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// String masks the token
func (s AuthStatus) String() string {
	return fmt.Sprintf("AuthStatus{OK: %t, Token: *****}", s.OK)
}

// GoString masks the token for %#v
func (s AuthStatus) GoString() string {
	return fmt.Sprintf("model.AuthStatus{OK:%t, Token:\"*****\"}", s.OK)
}

// Format masks the token for every verb
func (s AuthStatus) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		fmt.Fprint(f, s.GoString())
		return
	}
	fmt.Fprint(f, s.String())
}

// SecondFactorVerificationStatus reports whether a second factor code was accepted
type SecondFactorVerificationStatus struct {
	Verified bool `json:"verified"`
}
