package portal

import (
	"context"
	"net/http"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

// OrganizationsClient is the specialized client for the organization
// directory.
type OrganizationsClient interface {
	// List returns every department as a flat list. See BuildOrgTree.
	List(context.Context) ([]Organization, error)
	// ListUsers returns the employees of the department with the specified
	// code.
	ListUsers(ctx context.Context, orgCode string) ([]OrgUser, error)
}

type organizationsClient struct {
	baseClients
}

func (o *organizationsClient) List(ctx context.Context) ([]Organization, error) {
	orgs := []Organization{}
	err := o.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "api/organizations",
			SuccessCode: http.StatusOK,
			RespObj:     &orgs,
		},
	)
	return orgs, err
}

func (o *organizationsClient) ListUsers(
	ctx context.Context,
	orgCode string,
) ([]OrgUser, error) {
	users := []OrgUser{}
	err := o.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodGet,
			Path:   "api/users",
			QueryParams: map[string]string{
				"orgCode": orgCode,
			},
			SuccessCode: http.StatusOK,
			RespObj:     &users,
		},
	)
	return users, err
}
