package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itportal/itportal/sdk/portal"
	"github.com/stretchr/testify/require"
)

func testProjectDetail(id, name string) portal.ProjectDetail {
	return portal.ProjectDetail{
		Project: portal.Project{
			ID:         id,
			Name:       name,
			Type:       "신규개발",
			OwnerDept:  "영업기획부",
			ITDept:     "IT기획부",
			Budget:     1500000000,
			StartDate:  "2026-03-01",
			EndDate:    "2026-12-31",
			BudgetYear: 2026,
		},
		ITManager:  "홍길동",
		ITTeamLead: "김팀장",
		Necessity:  "<p>노후 장비 교체</p><p>보안 강화</p>",
	}
}

func testApprovalLine() ApprovalLine {
	return ApprovalLine{
		Drafter:  Signer{ID: "E001", Name: "홍길동", Rank: "대리", Date: "2026-01-01"},
		TeamLead: Signer{ID: "E002", Name: "김팀장", Rank: "팀장"},
	}
}

func TestGenerate(t *testing.T) {
	buf := &bytes.Buffer{}
	err := Generate(
		buf,
		[]portal.ProjectDetail{
			testProjectDetail("PRJ-0001", "ERP"),
			testProjectDetail("PRJ-0002", "CRM"),
		},
		testApprovalLine(),
		&Options{FontDir: t.TempDir()},
	)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerateNoProjects(t *testing.T) {
	err := Generate(&bytes.Buffer{}, nil, ApprovalLine{}, nil)
	require.Error(t, err)
}

func TestRenderOnePagePerProject(t *testing.T) {
	pdf, err := render(
		[]portal.ProjectDetail{
			testProjectDetail("PRJ-0001", "ERP"),
			testProjectDetail("PRJ-0002", "CRM"),
		},
		testApprovalLine(),
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, 2, pdf.PageCount())

	pdf.SetCompression(false)
	buf := &bytes.Buffer{}
	require.NoError(t, pdf.Output(buf))
	out := buf.String()
	require.Contains(t, out, "1. ERP")
	require.Contains(t, out, "2. CRM")
	require.Contains(t, out, "1 / 2")
	require.Contains(t, out, "2 / 2")
}

func TestRenderSplitsLongNarratives(t *testing.T) {
	project := testProjectDetail("PRJ-0001", "ERP")
	project.Description = strings.Repeat("<p>Replace the storage array.</p>", 120)
	pdf, err := render([]portal.ProjectDetail{project}, ApprovalLine{}, nil)
	require.NoError(t, err)
	require.Greater(t, pdf.PageCount(), 2)
}

func TestWrap(t *testing.T) {
	g := newGenerator("")
	g.pdf.AddPage()
	g.setFont("", 10)

	require.Equal(t, []string{""}, g.wrap("", 50))
	require.Equal(t, []string{"a", "", "b"}, g.wrap("a\n\nb", 50))

	lines := g.wrap(strings.Repeat("word ", 40), 40)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		require.LessOrEqual(t, g.pdf.GetStringWidth(line), 40.0)
	}

	// A word wider than a line is broken up
	lines = g.wrap(strings.Repeat("x", 200), 40)
	require.Greater(t, len(lines), 1)
	require.Equal(t, strings.Repeat("x", 200), strings.Join(lines, ""))
}
