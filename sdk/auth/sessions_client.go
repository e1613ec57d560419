package auth

import (
	"context"
	"net/http"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

// Paths of the API's authentication endpoints, relative to the API address.
const (
	LoginPath   = "api/auth/login"
	LogoutPath  = "api/auth/logout"
	RefreshPath = "api/auth/refresh"
)

// SessionsClient is the specialized client for the IT Portal API's
// authentication endpoints. None of its calls go through a Gateway: login
// and refresh are unauthenticated, and logout attaches the token it is given
// explicitly.
type SessionsClient interface {
	// Login exchanges Credentials for a token pair and the caller's identity.
	Login(context.Context, Credentials) (LoginResponse, error)
	// Logout asks the API to invalidate the specified access token.
	Logout(ctx context.Context, accessToken string) error
	// Refresh exchanges a refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type sessionsClient struct {
	*restmachinery.BaseClient
}

// NewSessionsClient returns a specialized client for the IT Portal API's
// authentication endpoints.
func NewSessionsClient(apiAddress string, allowInsecure bool) SessionsClient {
	return &sessionsClient{
		BaseClient: restmachinery.NewBaseClient(
			apiAddress,
			restmachinery.NewTransport(allowInsecure),
		),
	}
}

func (s *sessionsClient) Login(
	ctx context.Context,
	credentials Credentials,
) (LoginResponse, error) {
	loginResponse := LoginResponse{}
	err := s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       LoginPath,
			ReqBodyObj: credentials,
			RespObj:    &loginResponse,
		},
	)
	return loginResponse, err
}

func (s *sessionsClient) Logout(ctx context.Context, accessToken string) error {
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        LogoutPath,
			AuthHeaders: s.BearerTokenAuthHeaders(accessToken),
		},
	)
}

func (s *sessionsClient) Refresh(
	ctx context.Context,
	refreshToken string,
) (TokenPair, error) {
	tokens := TokenPair{}
	err := s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   RefreshPath,
			ReqBodyObj: refreshRequest{
				RefreshToken: refreshToken,
			},
			RespObj: &tokens,
		},
	)
	return tokens, err
}
