package query

import "fmt"

const mask = "*****"

// State is the set of authentication states an operation can require
type State interface {
	Authenticating | Authentication
}

// Authenticating holds credentials for a login that has not produced a
// session yet. The password is masked in every fmt rendering.
type Authenticating struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a Authenticating) String() string {
	return fmt.Sprintf("Authenticating{Username: %s, Password: %s}", a.Username, mask)
}

func (a Authenticating) GoString() string {
	return fmt.Sprintf("query.Authenticating{Username:%q, Password:%q}", a.Username, mask)
}

// Format masks the password for every verb
func (a Authenticating) Format(f fmt.State, verb rune) {
	formatMasked(f, verb, a.String(), a.GoString())
}

// Authentication is an established session: the auth cookie and, once a
// second factor has been verified, the twoFactorAuth cookie. Both are masked
// in every fmt rendering.
type Authentication struct {
	Token             string  `json:"token"`
	SecondFactorToken *string `json:"second_factor_token,omitempty"`
}

func (a Authentication) maskedSecondFactor() string {
	if a.SecondFactorToken == nil {
		return "None"
	}
	return "Some(" + mask + ")"
}

func (a Authentication) String() string {
	return fmt.Sprintf("Authentication{Token: %s, SecondFactorToken: %s}", mask, a.maskedSecondFactor())
}

func (a Authentication) GoString() string {
	return fmt.Sprintf("query.Authentication{Token:%q, SecondFactorToken:%q}", mask, a.maskedSecondFactor())
}

// Format masks the tokens for every verb
func (a Authentication) Format(f fmt.State, verb rune) {
	formatMasked(f, verb, a.String(), a.GoString())
}

// WithSecondFactor returns a copy carrying token as the second factor.
// A nil token removes it.
func (a Authentication) WithSecondFactor(token *string) Authentication {
	if token != nil {
		copied := *token
		token = &copied
	}
	return Authentication{Token: a.Token, SecondFactorToken: token}
}

// Equal compares two sessions by value
func (a Authentication) Equal(other Authentication) bool {
	if a.Token != other.Token {
		return false
	}
	if a.SecondFactorToken == nil || other.SecondFactorToken == nil {
		return a.SecondFactorToken == nil && other.SecondFactorToken == nil
	}
	return *a.SecondFactorToken == *other.SecondFactorToken
}

func formatMasked(f fmt.State, verb rune, plain, goSyntax string) {
	if verb == 'v' && f.Flag('#') {
		fmt.Fprint(f, goSyntax)
		return
	}
	fmt.Fprint(f, plain)
}
