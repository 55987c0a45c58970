package report

// Package report produces a polished multi-page proposal PDF without any
// external converter. Layout is a vertical cursor over fixed A4 pages:
// every line is measured, wrapped and placed explicitly, and a page break
// is emitted whenever the remaining space cannot hold one more line.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gofpdf "github.com/lvillar/gofpdf"

	"docgen/internal/viewmodel"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 18.0
	marginRight  = 18.0
	marginTop    = 22.0
	marginBottom = 24.0
	contentWidth = pageWidth - marginLeft - marginRight

	fontFamily  = "Helvetica"
	ptToMM      = 0.3528
	lineSpacing = 1.45
)

// tocEntries is the literal table of contents. Page numbers are nominal:
// they are not derived from rendered length, so long content can push a
// section past its listed page.
var tocEntries = []struct {
	title string
	page  int
}{
	{"Overview", 3},
	{"Project Phases", 4},
	{"Milestones & Deliverables", 5},
	{"Financials", 6},
	{"Deployment & Running Costs", 7},
}

var projectPhases = []string{
	"Requirement analysis and scope confirmation",
	"UI/UX design and review",
	"Iterative development",
	"Testing and quality assurance",
	"Deployment to the production environment",
	"Handover, training and support",
}

const deploymentNote = "Hosting, domain registration and third-party service " +
	"charges are billed separately at cost. A standard deployment includes " +
	"environment setup, SSL configuration and an initial production release. " +
	"Recurring infrastructure costs depend on the selected hosting tier and " +
	"are reviewed with the client before go-live."

const disclaimer = "This proposal is valid for 30 days from the date above. " +
	"Figures quoted are estimates based on the requirements discussed and may " +
	"be revised if the scope changes. All deliverables remain the property of " +
	"the supplier until payment is received in full."

// Generator builds paginated proposal reports. LogoPath may be empty or
// point at a missing file; the cover then falls back to a text title.
type Generator struct {
	LogoPath string
}

// Build renders the full report for one proposal view model.
func (g *Generator) Build(v *viewmodel.ProposalView) ([]byte, error) {
	b := newBuilder(v.Sender.CompanyName)
	b.coverPage(v, g.LogoPath)
	b.tableOfContents()

	b.section("Overview")
	b.writeWrapped(v.Overview, 11, "")

	b.section("Project Phases")
	b.writeWrapped("The engagement is delivered in the following phases:", 11, "")
	b.space(2)
	for i, phase := range projectPhases {
		b.writeWrapped(fmt.Sprintf("%d. %s", i+1, phase), 11, "")
	}

	b.section("Milestones & Deliverables")
	for _, m := range v.Milestones {
		line := m.Name
		if m.Amount != "" {
			line += " - " + m.Amount
		}
		if m.TimePeriod != "" {
			line += " (" + m.TimePeriod + ")"
		}
		b.writeWrapped(line, 12, "B")
		if m.Description != "" {
			b.writeWrapped(m.Description, 10.5, "")
		}
		b.space(3)
	}

	b.section("Financials")
	b.writeWrapped("Advance Payment: "+v.AdvancePayment, 11, "")
	b.writeWrapped("Project Cost: "+v.ProjectCost, 11, "")
	b.writeWrapped("Total: "+v.Total, 12, "B")
	b.space(4)
	b.writeWrapped("Payment terms: "+v.Sender.PaymentTerms, 10.5, "")

	b.section("Deployment & Running Costs")
	b.writeWrapped(deploymentNote, 11, "")
	b.space(6)
	b.writeWrapped(disclaimer, 9, "I")

	if b.pdf.Err() {
		return nil, fmt.Errorf("build report: %w", b.pdf.Error())
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return buf.Bytes(), nil
}

// builder tracks the vertical cursor and page state during layout.
type builder struct {
	pdf   *gofpdf.Fpdf
	brand string
	y     float64
}

func newBuilder(brand string) *builder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-16)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentWidth/2, 6, brand, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return &builder{pdf: pdf, brand: brand}
}

func lineHeight(size float64) float64 {
	return size * ptToMM * lineSpacing
}

func (b *builder) newPage() {
	b.pdf.AddPage()
	b.y = marginTop
}

// ensureSpace starts a new page when fewer than h millimeters remain above
// the bottom margin.
func (b *builder) ensureSpace(h float64) {
	if b.y+h > pageHeight-marginBottom {
		b.newPage()
	}
}

func (b *builder) space(h float64) {
	b.y += h
}

func (b *builder) writeLine(text string, size float64, style string, align string) {
	h := lineHeight(size)
	b.ensureSpace(h)
	b.pdf.SetFont(fontFamily, style, size)
	b.pdf.SetXY(marginLeft, b.y)
	b.pdf.CellFormat(contentWidth, h, text, "", 0, align, false, 0, "")
	b.y += h
}

// writeWrapped word-wraps text to the content width and writes each line,
// breaking pages as needed.
func (b *builder) writeWrapped(text string, size float64, style string) {
	b.pdf.SetFont(fontFamily, style, size)
	for _, line := range wrapText(text, contentWidth, b.pdf.GetStringWidth) {
		b.writeLine(line, size, style, "L")
	}
}

// section starts its content on a fresh page with a small running header
// and a separating rule.
func (b *builder) section(title string) {
	b.newPage()
	b.pdf.SetFont(fontFamily, "", 9)
	b.pdf.SetTextColor(120, 120, 120)
	b.pdf.SetXY(marginLeft, 10)
	b.pdf.CellFormat(contentWidth, 5, b.brand, "", 0, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.SetDrawColor(180, 180, 180)
	b.pdf.Line(marginLeft, 16.5, pageWidth-marginRight, 16.5)
	b.writeLine(title, 18, "B", "L")
	b.space(4)
}

func (b *builder) coverPage(v *viewmodel.ProposalView, logoPath string) {
	b.newPage()
	b.y = 70
	if !b.drawLogo(logoPath) {
		b.writeLine(b.brand, 26, "B", "C")
	}
	b.space(14)
	b.writeLine(v.ProjectName, 24, "B", "C")
	b.space(6)
	b.writeLine("Prepared by "+v.PreparedBy, 12, "", "C")
	b.space(2)
	b.writeLine(v.Date, 11, "", "C")
}

// drawLogo embeds the configured logo image, reporting false so the caller
// can fall back to a text title when the asset is absent or undecodable.
func (b *builder) drawLogo(path string) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	imgType := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if imgType != "png" && imgType != "jpg" && imgType != "jpeg" && imgType != "gif" {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: imgType}
	info := b.pdf.RegisterImageOptionsReader("cover-logo", opts, bytes.NewReader(data))
	if b.pdf.Err() {
		b.pdf.ClearError()
		return false
	}
	const logoWidth = 48.0
	h := logoWidth * info.Height() / info.Width()
	b.pdf.ImageOptions("cover-logo", (pageWidth-logoWidth)/2, b.y, logoWidth, 0, false, opts, 0, "")
	b.y += h
	return true
}

func (b *builder) tableOfContents() {
	b.section("Contents")
	for _, e := range tocEntries {
		h := lineHeight(11.5)
		b.ensureSpace(h)
		b.pdf.SetFont(fontFamily, "", 11.5)
		b.pdf.SetXY(marginLeft, b.y)
		b.pdf.CellFormat(contentWidth-14, h, e.title, "", 0, "L", false, 0, "")
		b.pdf.CellFormat(14, h, fmt.Sprintf("%d", e.page), "", 0, "R", false, 0, "")
		b.y += h + 1.5
	}
}
