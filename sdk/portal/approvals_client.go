package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

const applicationsPath = "api/applications"

// ApprovalsClient is the specialized client for approval applications.
type ApprovalsClient interface {
	// List returns all applications visible to the current user.
	List(context.Context) ([]Approval, error)
	// Create submits a new application.
	Create(context.Context, CreateApplicationRequest) (Approval, error)
	// BulkApprove records several decisions at once.
	BulkApprove(context.Context, []BulkApprovalItem) error
}

type approvalsClient struct {
	baseClients
}

func (a *approvalsClient) List(ctx context.Context) ([]Approval, error) {
	approvals := []Approval{}
	err := a.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        applicationsPath,
			SuccessCode: http.StatusOK,
			RespObj:     &approvals,
		},
	)
	return approvals, err
}

func (a *approvalsClient) Create(
	ctx context.Context,
	req CreateApplicationRequest,
) (Approval, error) {
	approval := Approval{}
	bodyBytes, err := validate(applicationSchema, req)
	if err != nil {
		return approval, err
	}
	err = a.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       applicationsPath,
			ReqBodyObj: bodyBytes,
			RespObj:    &approval,
		},
	)
	return approval, err
}

func (a *approvalsClient) BulkApprove(
	ctx context.Context,
	items []BulkApprovalItem,
) error {
	bodyBytes, err := validate(
		bulkApprovalSchema,
		bulkApprovalRequest{Approvals: items},
	)
	if err != nil {
		return err
	}
	return a.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       fmt.Sprintf("%s/bulk-approve", applicationsPath),
			ReqBodyObj: bodyBytes,
		},
	)
}
