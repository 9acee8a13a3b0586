// Package api sends VRChat API operations.
//
// A client is either unauthenticated (credentials only) or authenticated
// (a session token). Operations from package query only compile against the
// client in the state they need:
//
//	client := api.NewUnauthenticatedClient(userAgent, query.Authenticating{Username: u, Password: p})
//	login, token, err := client.Login(ctx)
//	...
//	authed := client.Upgrade(query.Authentication{Token: token})
//	world, err := api.Query(ctx, authed, query.World{ID: worldID})
package api

import (
	"net/http"

	"vrcfetch/internal"
	"vrcfetch/query"
	"vrcfetch/utils"
)

// Client is implemented by UnauthenticatedClient and AuthenticatedClient
type Client[S query.State] interface {
	// Auth returns a copy of the client's authentication state
	Auth() S
	transport() *transport
}

// transport is what one client uses to send requests. The doer and limiter
// may be shared between clients; the header set belongs to one client.
// A limiter passed in with WithRateLimiter is owned by the caller and never
// replaced.
type transport struct {
	userAgent string
	doer      utils.Doer
	limiter   internal.RateLimiter
	injected  bool
	quota     utils.Quota
	headers   http.Header
}

type options struct {
	doer    utils.Doer
	quota   utils.Quota
	limiter internal.RateLimiter
}

// Option configures a new client
type Option func(*options)

// WithHTTPClient sends requests through doer instead of a default *http.Client
func WithHTTPClient(doer utils.Doer) Option {
	return func(o *options) {
		o.doer = doer
	}
}

// WithQuota sets the pacing of the client's rate limiter
func WithQuota(quota utils.Quota) Option {
	return func(o *options) {
		o.quota = quota
	}
}

// WithRateLimiter uses limiter instead of building one from the quota.
// Clients built with the same limiter share one request budget, and every
// client derived from them keeps it, including after Recreate and
// ChangeSecondFactor.
func WithRateLimiter(limiter internal.RateLimiter) Option {
	return func(o *options) {
		o.limiter = limiter
	}
}

func newTransport(userAgent string, headers http.Header, opts []Option) *transport {
	o := options{quota: utils.DefaultQuota}
	for _, opt := range opts {
		opt(&o)
	}
	if o.doer == nil {
		o.doer = utils.NewHTTPClient()
	}
	injected := o.limiter != nil
	if !injected {
		o.limiter = utils.NewTokenBucketLimiter(o.quota)
	}
	return &transport{
		userAgent: userAgent,
		doer:      o.doer,
		limiter:   o.limiter,
		injected:  injected,
		quota:     o.quota,
		headers:   headers,
	}
}

// derive keeps the doer, limiter and quota and replaces the headers
func (t *transport) derive(headers http.Header) *transport {
	derived := *t
	derived.headers = headers
	return &derived
}

// fresh replaces the headers and starts a new limiter from the same quota.
// An injected limiter is kept.
func (t *transport) fresh(headers http.Header) *transport {
	derived := t.derive(headers)
	if !t.injected {
		derived.limiter = utils.NewTokenBucketLimiter(t.quota)
	}
	return derived
}

// UnauthenticatedClient holds credentials that have not been exchanged for a session
type UnauthenticatedClient struct {
	auth query.Authenticating
	t    *transport
}

// NewUnauthenticatedClient creates a client that can only log in
func NewUnauthenticatedClient(userAgent string, auth query.Authenticating, opts ...Option) *UnauthenticatedClient {
	return &UnauthenticatedClient{
		auth: auth,
		t:    newTransport(userAgent, authenticatingHeaders(userAgent, auth), opts),
	}
}

// Auth returns a copy of the credentials
func (c *UnauthenticatedClient) Auth() query.Authenticating { return c.auth }

// Headers returns a copy of the headers sent with every request
func (c *UnauthenticatedClient) Headers() http.Header { return c.t.headers.Clone() }

func (c *UnauthenticatedClient) transport() *transport { return c.t }

// Upgrade returns an authenticated client for auth. The new client shares
// this client's rate limiter.
func (c *UnauthenticatedClient) Upgrade(auth query.Authentication) *AuthenticatedClient {
	return &AuthenticatedClient{
		auth: auth.WithSecondFactor(auth.SecondFactorToken),
		t:    c.t.derive(authenticatedHeaders(c.t.userAgent, auth)),
	}
}

// AuthenticatedClient holds a session and can send every authenticated operation
type AuthenticatedClient struct {
	auth query.Authentication
	t    *transport
}

// NewAuthenticatedClient creates a client for an existing session
func NewAuthenticatedClient(userAgent string, auth query.Authentication, opts ...Option) *AuthenticatedClient {
	return &AuthenticatedClient{
		auth: auth.WithSecondFactor(auth.SecondFactorToken),
		t:    newTransport(userAgent, authenticatedHeaders(userAgent, auth), opts),
	}
}

// Auth returns a copy of the session
func (c *AuthenticatedClient) Auth() query.Authentication {
	return c.auth.WithSecondFactor(c.auth.SecondFactorToken)
}

// Headers returns a copy of the headers sent with every request
func (c *AuthenticatedClient) Headers() http.Header { return c.t.headers.Clone() }

func (c *AuthenticatedClient) transport() *transport { return c.t }

// Downgrade returns an unauthenticated client for auth. The new client shares
// this client's rate limiter.
func (c *AuthenticatedClient) Downgrade(auth query.Authenticating) *UnauthenticatedClient {
	return &UnauthenticatedClient{
		auth: auth,
		t:    c.t.derive(authenticatingHeaders(c.t.userAgent, auth)),
	}
}

// Recreate returns a client for another session with its own rate limiter.
// A limiter given with WithRateLimiter is shared instead.
func (c *AuthenticatedClient) Recreate(auth query.Authentication) *AuthenticatedClient {
	return &AuthenticatedClient{
		auth: auth.WithSecondFactor(auth.SecondFactorToken),
		t:    c.t.fresh(authenticatedHeaders(c.t.userAgent, auth)),
	}
}

// ChangeSecondFactor returns a client for the same session with token as
// the second factor. A nil token removes it.
func (c *AuthenticatedClient) ChangeSecondFactor(token *string) *AuthenticatedClient {
	return c.Recreate(c.auth.WithSecondFactor(token))
}
