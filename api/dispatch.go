package api

import (
	"context"
	"io"
	"strings"

	"vrcfetch/internal"
	"vrcfetch/model"
	"vrcfetch/query"
	"vrcfetch/utils"
)

// maxErrorBody bounds how much of a non-2xx body ends up in an error message
const maxErrorBody = 4 << 10

// Query sends q with client's state and decodes the result
func Query[S query.State, R any](ctx context.Context, client Client[S], q query.Queryable[S, R]) (R, error) {
	result, _, err := dispatch(ctx, client.transport(), client.Auth(), q, "")
	return result, err
}

// Login exchanges the credentials for a session. The returned token is the
// auth cookie; the result tells whether a second factor is still required.
func (c *UnauthenticatedClient) Login(ctx context.Context) (model.LoginResponseOrCurrentUser, string, error) {
	return dispatch(ctx, c.t, c.auth, query.Login{}, utils.AuthCookie)
}

// VerifySecondFactor submits a second-factor code and returns the
// twoFactorAuth cookie. Use ChangeSecondFactor to attach it.
func (c *AuthenticatedClient) VerifySecondFactor(ctx context.Context, q query.VerifySecondFactor) (model.SecondFactorVerificationStatus, string, error) {
	return dispatch(ctx, c.t, c.auth, q, utils.TwoFactorAuthCookie)
}

// Me fetches the current account, failing with an UnexpectedShapeError while
// a second factor is still pending
func (c *AuthenticatedClient) Me(ctx context.Context) (model.CurrentAccount, error) {
	result, err := Query(ctx, c, query.CurrentUser{})
	if err != nil {
		return model.CurrentAccount{}, err
	}
	account, err := result.Account()
	if err != nil {
		apiErr := newAPIError(UnexpectedShapeError, "second factor verification required").WithCause(err)
		if login, loginErr := result.Login(); loginErr == nil {
			factors := make([]string, len(login.RequiresAdditionalAuth))
			for i, f := range login.RequiresAdditionalAuth {
				factors[i] = string(f)
			}
			apiErr.WithSuggestion("Verify one of: " + strings.Join(factors, ", "))
		}
		return model.CurrentAccount{}, apiErr
	}
	return account, nil
}

// dispatch renders, paces, sends and decodes one operation. When cookie is
// not empty the response must set it, and its value is returned.
func dispatch[S query.State, R any](ctx context.Context, t *transport, state S, q query.Queryable[S, R], cookie string) (R, string, error) {
	var zero R
	logger := internal.GetLogger()

	method := q.Method(state)
	rawURL := q.URL(state)
	body, err := q.Body(state)
	if err != nil {
		return zero, "", newAPIError(RequestBuildError, "failed to build request body").WithURL(rawURL).WithCause(err)
	}

	req, err := utils.NewRequest(ctx, method, rawURL, body, t.headers)
	if err != nil {
		return zero, "", newAPIError(RequestBuildError, "failed to build request").WithURL(rawURL).WithCause(err)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return zero, "", newAPIError(TransportError, "rate limiter wait aborted").WithURL(rawURL).WithCause(err)
	}

	logger.LogHTTPRequest(req)
	resp, err := t.doer.Do(req)
	if err != nil {
		return zero, "", newAPIError(TransportError, "request failed").WithURL(rawURL).WithCause(err)
	}
	defer resp.Body.Close()
	logger.LogHTTPResponse(resp)

	if !utils.IsSuccess(resp.StatusCode) {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return zero, "", statusError(resp.StatusCode, strings.TrimSpace(string(excerpt))).WithURL(rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, "", newAPIError(TransportError, "failed to read response body").WithURL(rawURL).WithCause(err)
	}

	var cookieValue string
	if cookie != "" {
		value, ok := utils.ExtractCookie(resp, cookie)
		if !ok {
			return zero, "", newAPIError(MissingCookieError, "response did not set the "+cookie+" cookie").
				WithURL(rawURL)
		}
		cookieValue = value
	}

	result, err := q.Deserialize(data)
	if err != nil {
		logger.Debug("failed to decode %d byte response from %s", len(data), rawURL)
		return zero, "", newAPIError(SerializationError, "failed to decode response").WithURL(rawURL).WithCause(err)
	}

	return result, cookieValue, nil
}
