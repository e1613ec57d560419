package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
)

const projectsPath = "api/projects"

// ProjectsClient is the specialized client for managing IT projects with the
// IT Portal API.
type ProjectsClient interface {
	// List returns the summaries of all projects.
	List(context.Context) ([]Project, error)
	// Get retrieves the full description of a single project, budget items
	// included.
	Get(ctx context.Context, id string) (ProjectDetail, error)
	// GetBulk retrieves the full descriptions of several projects at once.
	// Projects that don't exist are silently left out.
	GetBulk(ctx context.Context, ids []string) ([]ProjectDetail, error)
	// Create creates a new project.
	Create(context.Context, ProjectDetail) (ProjectDetail, error)
	// CreateFromBytes creates a new project from raw JSON, presumably
	// originating from a file.
	CreateFromBytes(context.Context, []byte) (ProjectDetail, error)
	// Update replaces the fields of an existing project that are set in
	// project.
	Update(ctx context.Context, id string, project ProjectDetail) (ProjectDetail, error)
	// UpdateFromBytes updates an existing project from raw JSON containing only
	// the fields to change.
	UpdateFromBytes(ctx context.Context, id string, projectBytes []byte) (ProjectDetail, error)
	// Delete deletes a single project.
	Delete(ctx context.Context, id string) error
}

type projectsClient struct {
	baseClients
}

func (p *projectsClient) List(ctx context.Context) ([]Project, error) {
	projects := []Project{}
	err := p.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        projectsPath,
			SuccessCode: http.StatusOK,
			RespObj:     &projects,
		},
	)
	return projects, err
}

func (p *projectsClient) Get(ctx context.Context, id string) (ProjectDetail, error) {
	project := ProjectDetail{}
	err := p.reads.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("%s/%s", projectsPath, id),
			SuccessCode: http.StatusOK,
			RespObj:     &project,
		},
	)
	return project, err
}

func (p *projectsClient) GetBulk(
	ctx context.Context,
	ids []string,
) ([]ProjectDetail, error) {
	projects := []ProjectDetail{}
	err := p.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       fmt.Sprintf("%s/bulk-get", projectsPath),
			ReqBodyObj: projectsBulkGetRequest{IDs: ids},
			RespObj:    &projects,
		},
	)
	return projects, err
}

func (p *projectsClient) Create(
	ctx context.Context,
	project ProjectDetail,
) (ProjectDetail, error) {
	return p.create(ctx, project)
}

func (p *projectsClient) CreateFromBytes(
	ctx context.Context,
	projectBytes []byte,
) (ProjectDetail, error) {
	return p.create(ctx, projectBytes)
}

func (p *projectsClient) create(
	ctx context.Context,
	bodyObj interface{},
) (ProjectDetail, error) {
	createdProject := ProjectDetail{}
	bodyBytes, err := validate(projectCreateSchema, bodyObj)
	if err != nil {
		return createdProject, err
	}
	err = p.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPost,
			Path:       projectsPath,
			ReqBodyObj: bodyBytes,
			RespObj:    &createdProject,
		},
	)
	return createdProject, err
}

func (p *projectsClient) Update(
	ctx context.Context,
	id string,
	project ProjectDetail,
) (ProjectDetail, error) {
	return p.update(ctx, id, project)
}

func (p *projectsClient) UpdateFromBytes(
	ctx context.Context,
	id string,
	projectBytes []byte,
) (ProjectDetail, error) {
	return p.update(ctx, id, projectBytes)
}

func (p *projectsClient) update(
	ctx context.Context,
	id string,
	bodyObj interface{},
) (ProjectDetail, error) {
	updatedProject := ProjectDetail{}
	bodyBytes, err := validate(projectUpdateSchema, bodyObj)
	if err != nil {
		return updatedProject, err
	}
	err = p.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:     http.MethodPut,
			Path:       fmt.Sprintf("%s/%s", projectsPath, id),
			ReqBodyObj: bodyBytes,
			RespObj:    &updatedProject,
		},
	)
	return updatedProject, err
}

func (p *projectsClient) Delete(ctx context.Context, id string) error {
	return p.writes.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("%s/%s", projectsPath, id),
		},
	)
}
