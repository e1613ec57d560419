package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

const costsPath = "api/cost"

// CostsClient is the specialized client for managing IT costs with the IT
// Portal API.
type CostsClient interface {
	// List returns all IT costs.
	List(context.Context) ([]ItCost, error)
	// Get retrieves a single IT cost.
	Get(ctx context.Context, id string) (ItCost, error)
	// GetBulk retrieves several IT costs at once. IT costs that don't exist
	// are silently left out.
	GetBulk(ctx context.Context, ids []string) ([]ItCost, error)
	// Create creates a new IT cost.
	Create(context.Context, ItCost) (ItCost, error)
	// CreateFromBytes creates a new IT cost from raw JSON.
	CreateFromBytes(context.Context, []byte) (ItCost, error)
	// Update updates an existing IT cost.
	Update(ctx context.Context, id string, cost ItCost) (ItCost, error)
	// UpdateFromBytes updates an existing IT cost from raw JSON containing
	// only the fields to change.
	UpdateFromBytes(ctx context.Context, id string, costBytes []byte) (ItCost, error)
	// Delete deletes a single IT cost.
	Delete(ctx context.Context, id string) error
}

type costsClient struct {
	baseClients
}

func (c *costsClient) List(ctx context.Context) ([]ItCost, error) {
	costs := []ItCost{}
	err := c.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        costsPath,
			SuccessCode: http.StatusOK,
			RespObj:     &costs,
		},
	)
	return costs, err
}

func (c *costsClient) Get(ctx context.Context, id string) (ItCost, error) {
	cost := ItCost{}
	err := c.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("%s/%s", costsPath, id),
			SuccessCode: http.StatusOK,
			RespObj:     &cost,
		},
	)
	return cost, err
}

func (c *costsClient) GetBulk(ctx context.Context, ids []string) ([]ItCost, error) {
	costs := []ItCost{}
	err := c.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       fmt.Sprintf("%s/bulk-get", costsPath),
			ReqBodyObj: costsBulkGetRequest{IDs: ids},
			RespObj:    &costs,
		},
	)
	return costs, err
}

func (c *costsClient) Create(ctx context.Context, cost ItCost) (ItCost, error) {
	return c.create(ctx, cost)
}

func (c *costsClient) CreateFromBytes(
	ctx context.Context,
	costBytes []byte,
) (ItCost, error) {
	return c.create(ctx, costBytes)
}

func (c *costsClient) create(
	ctx context.Context,
	bodyObj interface{},
) (ItCost, error) {
	createdCost := ItCost{}
	bodyBytes, err := validate(costCreateSchema, bodyObj)
	if err != nil {
		return createdCost, err
	}
	err = c.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       costsPath,
			ReqBodyObj: bodyBytes,
			RespObj:    &createdCost,
		},
	)
	return createdCost, err
}

func (c *costsClient) Update(
	ctx context.Context,
	id string,
	cost ItCost,
) (ItCost, error) {
	return c.update(ctx, id, cost)
}

func (c *costsClient) UpdateFromBytes(
	ctx context.Context,
	id string,
	costBytes []byte,
) (ItCost, error) {
	return c.update(ctx, id, costBytes)
}

func (c *costsClient) update(
	ctx context.Context,
	id string,
	bodyObj interface{},
) (ItCost, error) {
	updatedCost := ItCost{}
	bodyBytes, err := validate(costUpdateSchema, bodyObj)
	if err != nil {
		return updatedCost, err
	}
	err = c.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPut,
			Path:       fmt.Sprintf("%s/%s", costsPath, id),
			ReqBodyObj: bodyBytes,
			RespObj:    &updatedCost,
		},
	)
	return updatedCost, err
}

func (c *costsClient) Delete(ctx context.Context, id string) error {
	return c.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("%s/%s", costsPath, id),
		},
	)
}
