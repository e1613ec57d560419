package portal

import (
	"context"
	"net/http"
	"testing"

	"github.com/itportal/itportal/sdk/meta"
	"github.com/stretchr/testify/require"
)

func testProject() ProjectDetail {
	return ProjectDetail{
		Project: Project{
			Name:       "차세대 ERP 구축",
			Type:       "신규개발",
			OwnerDept:  "재무부",
			ITDept:     "IT기획부",
			Budget:     1500000000,
			StartDate:  "2026-01-01",
			EndDate:    "2026-12-31",
			BudgetYear: 2026,
		},
		Necessity: "<p>노후 시스템 교체</p>",
		Items: []ProjectItem{
			{
				Category:       "소프트웨어",
				Name:           "ERP 라이선스",
				Quantity:       10,
				Currency:       "KRW",
				UnitPrice:      50000000,
				Amount:         500000000,
				InfoProtection: "N",
			},
		},
	}
}

func TestProjectsClient(t *testing.T) {
	client, srv, _ := newTestClient(t)
	defer srv.Close()
	ctx := context.Background()
	projects := client.Projects()

	created, err := projects.Create(ctx, testProject())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "차세대 ERP 구축", created.Name)
	require.Len(t, created.Items, 1)

	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, float64(1500000000), list[0].Budget)

	got, err := projects.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	updated, err := projects.UpdateFromBytes(
		ctx,
		created.ID,
		[]byte(`{"prjSts":"사업 진행중"}`),
	)
	require.NoError(t, err)
	require.Equal(t, "사업 진행중", updated.Status)
	require.Equal(t, created.Name, updated.Name)

	bulk, err := projects.GetBulk(ctx, []string{created.ID, "PRJ-9999"})
	require.NoError(t, err)
	require.Len(t, bulk, 1)
	require.Equal(t, "<p>노후 시스템 교체</p>", bulk[0].Necessity)

	require.NoError(t, projects.Delete(ctx, created.ID))
	_, err = projects.Get(ctx, created.ID)
	require.IsType(t, &meta.ErrNotFound{}, err)

	require.Equal(t, 1, srv.Calls(http.MethodGet, "/api/projects"))
	require.Equal(t, 2, srv.Calls(http.MethodGet, "/api/projects/{id}"))
	require.Equal(t, 1, srv.Calls(http.MethodPost, "/api/projects/bulk-get"))
	require.Equal(t, 1, srv.Calls(http.MethodPut, "/api/projects/{id}"))
}

func TestProjectsClientValidation(t *testing.T) {
	client, srv, _ := newTestClient(t)
	defer srv.Close()
	ctx := context.Background()
	callsBefore := srv.TotalCalls()

	testCases := []struct {
		name       string
		fn         func() error
		assertions func(*meta.ErrBadRequest)
	}{
		{
			name: "missing required fields",
			fn: func() error {
				_, err := client.Projects().Create(ctx, ProjectDetail{})
				return err
			},
			assertions: func(err *meta.ErrBadRequest) {
				require.Len(t, err.Details, 4)
			},
		},
		{
			name: "malformed date",
			fn: func() error {
				project := testProject()
				project.StartDate = "2026/01/01"
				_, err := client.Projects().Create(ctx, project)
				return err
			},
			assertions: func(err *meta.ErrBadRequest) {
				require.Len(t, err.Details, 1)
				require.Contains(t, err.Details[0], "sttDt")
			},
		},
		{
			name: "bad item",
			fn: func() error {
				project := testProject()
				project.Items[0].InfoProtection = "maybe"
				_, err := client.Projects().Create(ctx, project)
				return err
			},
			assertions: func(err *meta.ErrBadRequest) {
				require.Len(t, err.Details, 1)
				require.Contains(t, err.Details[0], "infPrtYn")
			},
		},
		{
			name: "not JSON",
			fn: func() error {
				_, err := client.Projects().CreateFromBytes(ctx, []byte("prjNm: ERP"))
				return err
			},
			assertions: func(err *meta.ErrBadRequest) {
				require.Equal(t, "Could not validate request body.", err.Reason)
			},
		},
		{
			name: "negative budget in update",
			fn: func() error {
				_, err := client.Projects().UpdateFromBytes(
					ctx,
					"PRJ-0001",
					[]byte(`{"prjBg":-1}`),
				)
				return err
			},
			assertions: func(err *meta.ErrBadRequest) {
				require.Len(t, err.Details, 1)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.fn()
			require.Error(t, err)
			badRequest, ok := err.(*meta.ErrBadRequest)
			require.True(t, ok, "%T", err)
			testCase.assertions(badRequest)
		})
	}
	// Nothing invalid ever reached the API
	require.Equal(t, callsBefore, srv.TotalCalls())
}
