package query

import (
	"fmt"
	"net/http"

	"vrcfetch/internal"
	"vrcfetch/model"
)

// Login fetches the current user with basic credentials. The response is
// either the account or a second-factor challenge, and carries the auth
// cookie either way.
type Login struct {
	Base[Authenticating]
	JSON[model.LoginResponseOrCurrentUser]
}

func (Login) URL(Authenticating) string {
	return apiURL().Path("auth", "user").String()
}

// CurrentUser fetches the current user with an established session. A
// session whose second factor is still pending gets the challenge back.
type CurrentUser struct {
	Base[Authentication]
	JSON[model.LoginResponseOrCurrentUser]
}

func (CurrentUser) URL(Authentication) string {
	return apiURL().Path("auth", "user").String()
}

// CurrentAccount fetches the current user and only accepts the account shape
type CurrentAccount struct {
	Base[Authentication]
	JSON[model.CurrentAccount]
}

func (CurrentAccount) URL(Authentication) string {
	return apiURL().Path("auth", "user").String()
}

// VerifyAuth checks whether the session token is still valid
type VerifyAuth struct {
	Base[Authentication]
	JSON[model.AuthStatus]
}

func (VerifyAuth) URL(Authentication) string {
	return apiURL().Path("auth").String()
}

// SecondFactorKind selects how a second-factor code was obtained
type SecondFactorKind string

const (
	// SecondFactorCode is a code from an authenticator app
	SecondFactorCode SecondFactorKind = "totp"
	// SecondFactorRecovery is a one-time recovery code
	SecondFactorRecovery SecondFactorKind = "otp"
	// SecondFactorEmail is a code sent by email
	SecondFactorEmail SecondFactorKind = "emailotp"
)

// ParseSecondFactorKind accepts the path names as well as the login
// challenge names such as emailOtp.
func ParseSecondFactorKind(raw string) (SecondFactorKind, error) {
	switch raw {
	case string(model.FactorTOTP), "code":
		return SecondFactorCode, nil
	case string(model.FactorOTP), "recovery":
		return SecondFactorRecovery, nil
	case "emailotp", "email", string(model.FactorEmailOTP):
		return SecondFactorEmail, nil
	}
	return "", internal.NewValidationErrorWithValue("second_factor_kind", "unknown second factor kind", raw).
		WithSuggestion("use one of: totp, otp, emailotp")
}

func (k SecondFactorKind) valid() bool {
	switch k {
	case SecondFactorCode, SecondFactorRecovery, SecondFactorEmail:
		return true
	}
	return false
}

// VerifySecondFactor submits a second-factor code. The response carries the
// twoFactorAuth cookie on success.
type VerifySecondFactor struct {
	JSON[model.SecondFactorVerificationStatus]
	Kind SecondFactorKind
	Code string
}

func (VerifySecondFactor) Method(Authentication) string { return http.MethodPost }

func (v VerifySecondFactor) URL(Authentication) string {
	return apiURL().Path("auth", "twofactorauth").Escaped(string(v.Kind)).Path("verify").String()
}

func (v VerifySecondFactor) Body(Authentication) ([]byte, error) {
	if !v.Kind.valid() {
		return nil, fmt.Errorf("verify second factor: unknown kind %q", string(v.Kind))
	}
	if v.Code == "" {
		return nil, fmt.Errorf("verify second factor: empty code")
	}
	return jsonBody(struct {
		Code string `json:"code"`
	}{Code: v.Code})
}
