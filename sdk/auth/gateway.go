package auth

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// SessionManager is the subset of SessionStore that a Gateway depends on.
type SessionManager interface {
	AccessToken() string
	Refresh(ctx context.Context) bool
	Logout(ctx context.Context)
}

// GatewayOptions represents optional Gateway configuration.
type GatewayOptions struct {
	// RefreshTimeout bounds a refresh triggered by a 401. Defaults to thirty
	// seconds.
	RefreshTimeout time.Duration
}

// Gateway is an http.RoundTripper that authenticates every outbound request
// with the current access token and reacts to 401 responses by refreshing the
// session.
//
// At most one refresh is in flight per Gateway. A 401 that arrives while one
// is in flight is returned to its caller without further action. A 401 from
// the logout endpoint never triggers a refresh. When a refresh fails the
// session is logged out and the Navigator is sent to LoginRoute.
//
// The request that was answered with a 401 is never retried; its caller
// receives the original response.
type Gateway struct {
	session        SessionManager
	navigator      Navigator
	next           http.RoundTripper
	refreshTimeout time.Duration
	refreshing     int32
}

// NewGateway returns a Gateway that sends requests through next. If next is
// nil, http.DefaultTransport is used. navigator may be nil, in which case a
// failed refresh only logs out.
func NewGateway(
	session SessionManager,
	navigator Navigator,
	next http.RoundTripper,
	opts *GatewayOptions,
) *Gateway {
	if next == nil {
		next = http.DefaultTransport
	}
	if opts == nil {
		opts = &GatewayOptions{}
	}
	refreshTimeout := opts.RefreshTimeout
	if refreshTimeout <= 0 {
		refreshTimeout = 30 * time.Second
	}
	return &Gateway{
		session:        session,
		navigator:      navigator,
		next:           next,
		refreshTimeout: refreshTimeout,
	}
}

// RoundTrip implements http.RoundTripper.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	outReq := req.Clone(req.Context())
	if accessToken := g.session.AccessToken(); accessToken != "" {
		outReq.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := g.next.RoundTrip(outReq)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized &&
		!strings.Contains(req.URL.Path, LogoutPath) {
		g.handleUnauthorized(req.Context())
	}
	return resp, nil
}

// InFlight returns true while a refresh started by this Gateway is running.
func (g *Gateway) InFlight() bool {
	return atomic.LoadInt32(&g.refreshing) == 1
}

func (g *Gateway) handleUnauthorized(reqCtx context.Context) {
	if !atomic.CompareAndSwapInt32(&g.refreshing, 0, 1) {
		glog.V(1).Info("token refresh already in progress; not starting another")
		return
	}
	defer atomic.StoreInt32(&g.refreshing, 0)

	ctx, cancel := context.WithTimeout(
		context.WithoutCancel(reqCtx),
		g.refreshTimeout,
	)
	defer cancel()

	if g.session.Refresh(ctx) {
		glog.V(1).Info("access token refreshed after 401")
		return
	}
	glog.Warning("session could not be refreshed; logging out")
	g.session.Logout(ctx)
	if g.navigator != nil {
		g.navigator.Navigate(LoginRoute)
	}
}
