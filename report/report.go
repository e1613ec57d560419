package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// Signer is one person on an approval line.
type Signer struct {
	ID   string
	Name string
	Rank string
	// Date is the date the signer signed off, if they have.
	Date string
}

// ApprovalLine is the people who sign off on a budget request.
type ApprovalLine struct {
	Drafter  Signer
	TeamLead Signer
	DeptHead Signer
}

// Options represents useful report options.
type Options struct {
	// FontDir is the directory containing NanumGothic-Regular.ttf,
	// NanumGothic-Bold.ttf and NanumGothic-ExtraBold.ttf. Without them the
	// report is set in Helvetica, which has no Korean glyphs.
	FontDir string
}

type color struct {
	r, g, b int
}

var (
	primaryColor     = color{30, 58, 138}
	accentColor      = color{37, 99, 235}
	headerBgColor    = color{239, 246, 255}
	borderColor      = color{191, 219, 254}
	secondaryColor   = color{75, 85, 99}
	bodyColor        = color{31, 41, 55}
	placeholderColor = color{156, 163, 175}
	white            = color{255, 255, 255}
)

const (
	pageMargin   = 14.0
	footerHeight = 8.0
	lineHeight   = 5.0
	cellPadding  = 2.0

	approvalColumnWidth = 21.0
	approvalLabelHeight = 7.0
	approvalNameHeight  = 16.0
	approvalDateHeight  = 6.0
)

type cellKind int

const (
	labelCell cellKind = iota
	valueCell
	strongCell
	amountCell
)

type cell struct {
	kind  cellKind
	width float64
	text  string
}

type generator struct {
	pdf             *gofpdf.Fpdf
	family          string
	extraBoldFamily string
	contentWidth    float64
	pageHeight      float64
}

// Generate writes a budget request to w as a PDF. Every project gets its own
// page (or pages) starting with the title block and the approval line.
func Generate(
	w io.Writer,
	projects []portal.ProjectDetail,
	line ApprovalLine,
	opts *Options,
) error {
	pdf, err := render(projects, line, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(pdf.Output(w), "error writing PDF")
}

func render(
	projects []portal.ProjectDetail,
	line ApprovalLine,
	opts *Options,
) (*gofpdf.Fpdf, error) {
	if len(projects) == 0 {
		return nil, errors.New("no projects to report on")
	}
	if opts == nil {
		opts = &Options{}
	}
	g := newGenerator(opts.FontDir)
	for i, project := range projects {
		g.pdf.AddPage()
		g.titleBlock(line)
		g.banner(i+1, project.Name)
		g.details(project)
	}
	if g.pdf.Err() {
		return nil, errors.Wrap(g.pdf.Error(), "error rendering PDF")
	}
	return g.pdf, nil
}

func newGenerator(fontDir string) *generator {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AliasNbPages("")
	pageWidth, pageHeight := pdf.GetPageSize()
	g := &generator{
		pdf:             pdf,
		family:          fallbackFontFamily,
		extraBoldFamily: fallbackFontFamily,
		contentWidth:    pageWidth - 2*pageMargin,
		pageHeight:      pageHeight,
	}
	if fontDir == "" {
		glog.V(1).Infof("no font directory; setting the report in %s", fallbackFontFamily)
	} else if fonts, err := loadFonts(fontDir); err != nil {
		glog.Warningf(
			"error loading Korean fonts; falling back to %s: %s",
			fallbackFontFamily,
			err,
		)
	} else {
		pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.regular)
		pdf.AddUTF8FontFromBytes(fontFamily, "B", fonts.bold)
		pdf.AddUTF8FontFromBytes(extraBoldFontFamily, "", fonts.extraBold)
		g.family = fontFamily
		g.extraBoldFamily = extraBoldFontFamily
	}
	pdf.SetDrawColor(borderColor.r, borderColor.g, borderColor.b)
	pdf.SetLineWidth(0.3)
	pdf.SetFooterFunc(g.footer)
	return g
}

func (g *generator) setFont(style string, size float64) {
	g.pdf.SetFont(g.family, style, size)
}

func (g *generator) setExtraBoldFont(size float64) {
	if g.extraBoldFamily == fallbackFontFamily {
		g.pdf.SetFont(fallbackFontFamily, "B", size)
		return
	}
	g.pdf.SetFont(g.extraBoldFamily, "", size)
}

func (g *generator) setTextColor(c color) {
	g.pdf.SetTextColor(c.r, c.g, c.b)
}

func (g *generator) setFillColor(c color) {
	g.pdf.SetFillColor(c.r, c.g, c.b)
}

func (g *generator) footer() {
	g.pdf.SetY(-footerHeight - 2)
	g.setFont("", 9)
	g.setTextColor(secondaryColor)
	g.pdf.CellFormat(
		0,
		footerHeight,
		fmt.Sprintf("%d / {nb}", g.pdf.PageNo()),
		"",
		0,
		"C",
		false,
		0,
		"",
	)
}

// titleBlock draws the document title on the left and the approval box on
// the right. Undecided approvers are shown as placeholders.
func (g *generator) titleBlock(line ApprovalLine) {
	pdf := g.pdf
	boxX := pageMargin + g.contentWidth - 3*approvalColumnWidth
	titleWidth := boxX - pageMargin

	pdf.SetXY(pageMargin, pageMargin)
	g.setExtraBoldFont(22)
	g.setTextColor(primaryColor)
	pdf.CellFormat(titleWidth, 11, "예산편성 신청", "", 2, "L", false, 0, "")
	g.setFont("", 9)
	g.setTextColor(secondaryColor)
	pdf.CellFormat(titleWidth, 5, "문서번호: (자동생성)", "", 2, "L", false, 0, "")
	pdf.CellFormat(titleWidth, 5, "보존연한: 5년", "", 2, "L", false, 0, "")

	columns := []struct {
		label       string
		signer      Signer
		placeholder bool
	}{
		{label: "기안자", signer: line.Drafter},
		{label: "팀장", signer: line.TeamLead, placeholder: true},
		{label: "부서장", signer: line.DeptHead, placeholder: true},
	}
	for i, column := range columns {
		x := boxX + float64(i)*approvalColumnWidth
		y := pageMargin

		g.setFillColor(headerBgColor)
		pdf.Rect(x, y, approvalColumnWidth, approvalLabelHeight, "FD")
		pdf.SetXY(x, y)
		g.setFont("B", 10)
		g.setTextColor(primaryColor)
		pdf.CellFormat(approvalColumnWidth, approvalLabelHeight, column.label, "", 0, "C", false, 0, "")

		y += approvalLabelHeight
		pdf.Rect(x, y, approvalColumnWidth, approvalNameHeight, "D")
		name, rank, nameColor := column.signer.Name, column.signer.Rank, bodyColor
		if column.placeholder && name == "" {
			name, nameColor = "결재자", placeholderColor
		}
		if column.placeholder && rank == "" {
			rank = "(미지정)"
		}
		pdf.SetXY(x, y+3)
		g.setFont("", 10)
		g.setTextColor(nameColor)
		pdf.CellFormat(approvalColumnWidth, 5, name, "", 2, "C", false, 0, "")
		g.setFont("", 8)
		g.setTextColor(secondaryColor)
		pdf.CellFormat(approvalColumnWidth, 4, rank, "", 0, "C", false, 0, "")

		y += approvalNameHeight
		pdf.Rect(x, y, approvalColumnWidth, approvalDateHeight, "D")
		pdf.SetXY(x, y)
		pdf.CellFormat(approvalColumnWidth, approvalDateHeight, column.signer.Date, "", 0, "C", false, 0, "")
	}
	pdf.SetXY(
		pageMargin,
		pageMargin+approvalLabelHeight+approvalNameHeight+approvalDateHeight+7,
	)
}

func (g *generator) banner(n int, name string) {
	g.setFillColor(accentColor)
	g.setTextColor(white)
	g.setExtraBoldFont(14)
	g.pdf.SetX(pageMargin)
	g.pdf.CellFormat(
		g.contentWidth,
		10,
		fmt.Sprintf("%d. %s", n, name),
		"",
		1,
		"L",
		true,
		0,
		"",
	)
	g.pdf.Ln(3)
}

func (g *generator) details(p portal.ProjectDetail) {
	labelWidth := g.contentWidth * 0.15
	valueWidth := g.contentWidth * 0.35
	wideWidth := g.contentWidth - labelWidth
	label := func(text string) cell {
		return cell{kind: labelCell, width: labelWidth, text: text}
	}
	value := func(text string) cell {
		return cell{kind: valueCell, width: valueWidth, text: text}
	}

	g.row(label("사업명"), cell{kind: strongCell, width: wideWidth, text: p.Name})
	g.row(label("관리번호"), value(p.ID), label("사업유형"), value(p.Type))
	g.row(label("상태"), value(p.Status), label("보고상태"), value(p.ReportStatus))
	budget := ""
	if p.Budget != 0 {
		budget = portal.FormatBudget(p.Budget, portal.UnitWon) + " 원"
	}
	budgetYear := ""
	if p.BudgetYear != 0 {
		budgetYear = strconv.Itoa(p.BudgetYear)
	}
	g.row(
		label("예산년도"),
		value(budgetYear),
		label("소요예산"),
		cell{kind: amountCell, width: valueWidth, text: budget},
	)
	g.row(label("시작일"), value(p.StartDate), label("종료일"), value(p.EndDate))
	g.row(label("주관부문"), value(p.OwnerDivision), label("주관부서"), value(p.OwnerDept))
	g.row(label("현업담당자"), value(p.OwnerManager), label("현업팀장"), value(p.OwnerTeamLead))
	g.row(
		label("IT담당부서"),
		value(p.ITDept),
		label("IT담당자"),
		value(fmt.Sprintf("%s / %s (팀장)", p.ITManager, p.ITTeamLead)),
	)
	g.row(label("주요사용자"), value(p.MainUsers), label("업무구분"), value(p.BusinessCategory))
	g.row(label("기술유형"), value(p.TechnologyType), label("전결권"), value(p.DecisionAuthority))
	g.row(label("중복여부"), value(p.Duplicate), label("의무완료"), value(p.MandatoryDeadline))

	for _, narrative := range []struct {
		label string
		html  string
	}{
		{"현황(Situation)", p.CurrentState},
		{"필요성(Needs)", p.Necessity},
		{"사업내용(Des)", p.Description},
		{"사업범위(Scope)", p.Scope},
		{"기대효과(Effect)", p.ExpectedEffect},
		{"추진사유", p.Rationale},
		{"추진경과", p.Progress},
		{"문제점", p.Problems},
		{"향후계획", p.FuturePlan},
		{"추진가능성", p.Feasibility},
	} {
		g.row(
			label(narrative.label),
			cell{kind: valueCell, width: wideWidth, text: HTMLToText(narrative.html)},
		)
	}
}

func (g *generator) applyCellStyle(kind cellKind) string {
	switch kind {
	case labelCell:
		g.setFont("B", 10)
		g.setTextColor(primaryColor)
		g.setFillColor(headerBgColor)
		return "C"
	case strongCell:
		g.setFont("B", 10)
		g.setTextColor(primaryColor)
	case amountCell:
		g.setFont("B", 10)
		g.setTextColor(bodyColor)
		return "R"
	default:
		g.setFont("", 10)
		g.setTextColor(bodyColor)
	}
	return "L"
}

// row draws one table row. A row that doesn't fit in what is left of the
// page moves to the next one, and a row taller than a whole page is split
// across pages.
func (g *generator) row(cells ...cell) {
	lines := make([][]string, len(cells))
	for i, c := range cells {
		g.applyCellStyle(c.kind)
		lines[i] = g.wrap(c.text, c.width-2*cellPadding)
	}
	bottom := g.pageHeight - pageMargin - footerHeight
	linesPerPage := int((bottom - pageMargin - 2*cellPadding) / lineHeight)
	for {
		n := 0
		for _, cellLines := range lines {
			if len(cellLines) > n {
				n = len(cellLines)
			}
		}
		if n == 0 {
			return
		}
		fit := int((bottom - g.pdf.GetY() - 2*cellPadding) / lineHeight)
		if fit < n && (fit < 1 || n <= linesPerPage) {
			g.pdf.AddPage()
			continue
		}
		if fit > n {
			fit = n
		}
		g.drawRow(cells, lines, fit)
		for i := range lines {
			if len(lines[i]) > fit {
				lines[i] = lines[i][fit:]
			} else {
				lines[i] = nil
			}
		}
	}
}

func (g *generator) drawRow(cells []cell, lines [][]string, n int) {
	pdf := g.pdf
	x, y := pageMargin, pdf.GetY()
	height := float64(n)*lineHeight + 2*cellPadding
	for i, c := range cells {
		align := g.applyCellStyle(c.kind)
		if c.kind == labelCell {
			pdf.Rect(x, y, c.width, height, "FD")
		} else {
			pdf.Rect(x, y, c.width, height, "D")
		}
		for j, line := range lines[i] {
			if j == n {
				break
			}
			pdf.SetXY(x+cellPadding, y+cellPadding+float64(j)*lineHeight)
			pdf.CellFormat(c.width-2*cellPadding, lineHeight, line, "", 0, align, false, 0, "")
		}
		x += c.width
	}
	pdf.SetXY(pageMargin, y+height)
}

// wrap breaks text into lines no wider than width in the current font. Line
// breaks in text are kept and a word wider than a whole line is broken
// between characters.
func (g *generator) wrap(text string, width float64) []string {
	lines := []string{}
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if g.pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for g.pdf.GetStringWidth(word) > width {
				cut := g.fittingPrefix(word, width)
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// fittingPrefix returns the length in bytes of the longest prefix of s that
// is no wider than width, but at least one character.
func (g *generator) fittingPrefix(s string, width float64) int {
	cut := 0
	for i, r := range s {
		next := i + utf8.RuneLen(r)
		if g.pdf.GetStringWidth(s[:next]) > width {
			break
		}
		cut = next
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(s)
	}
	return cut
}
