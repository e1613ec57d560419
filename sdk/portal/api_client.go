// Package portal provides specialized clients for the IT Portal API's
// business resources: projects, IT costs, approval applications and the
// organization directory. Every request these clients make is authenticated
// by an auth.Gateway.
package portal

import (
	"time"

	"github.com/itportal/itportal/sdk/auth"
	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

// APIClientOptions represents optional APIClient configuration.
type APIClientOptions struct {
	// AllowInsecure permits TLS connections to an API server whose certificate
	// cannot be verified.
	AllowInsecure bool
	// RefreshTimeout bounds a token refresh triggered by a 401.
	RefreshTimeout time.Duration
}

// APIClient is the root of all specialized IT Portal API clients.
type APIClient interface {
	// Projects returns a specialized client for project management.
	Projects() ProjectsClient
	// Costs returns a specialized client for IT cost management.
	Costs() CostsClient
	// Approvals returns a specialized client for approval applications.
	Approvals() ApprovalsClient
	// Organizations returns a specialized client for the organization
	// directory.
	Organizations() OrganizationsClient
}

// baseClients pairs the two request paths every specialized client uses.
// Reads go through one Gateway and writes (including bulk reads, which the
// API exposes as POSTs) go through another. Each Gateway coordinates its own
// refreshes.
type baseClients struct {
	reads  *restmachinery.BaseClient
	writes *restmachinery.BaseClient
}

type apiClient struct {
	projectsClient      ProjectsClient
	costsClient         CostsClient
	approvalsClient     ApprovalsClient
	organizationsClient OrganizationsClient
}

// NewAPIClient returns an APIClient for the IT Portal API at the specified
// address. Requests are authenticated with the session's current access
// token. navigator is sent to auth.LoginRoute when the session can no longer
// be refreshed; it may be nil.
func NewAPIClient(
	apiAddress string,
	session auth.SessionManager,
	navigator auth.Navigator,
	opts *APIClientOptions,
) APIClient {
	if opts == nil {
		opts = &APIClientOptions{}
	}
	gatewayOpts := &auth.GatewayOptions{
		RefreshTimeout: opts.RefreshTimeout,
	}
	clients := baseClients{
		reads: restmachinery.NewBaseClient(
			apiAddress,
			auth.NewGateway(
				session,
				navigator,
				restmachinery.NewTransport(opts.AllowInsecure),
				gatewayOpts,
			),
		),
		writes: restmachinery.NewBaseClient(
			apiAddress,
			auth.NewGateway(
				session,
				navigator,
				restmachinery.NewTransport(opts.AllowInsecure),
				gatewayOpts,
			),
		),
	}
	return &apiClient{
		projectsClient:      &projectsClient{baseClients: clients},
		costsClient:         &costsClient{baseClients: clients},
		approvalsClient:     &approvalsClient{baseClients: clients},
		organizationsClient: &organizationsClient{baseClients: clients},
	}
}

func (a *apiClient) Projects() ProjectsClient {
	return a.projectsClient
}

func (a *apiClient) Costs() CostsClient {
	return a.costsClient
}

func (a *apiClient) Approvals() ApprovalsClient {
	return a.approvalsClient
}

func (a *apiClient) Organizations() OrganizationsClient {
	return a.organizationsClient
}
