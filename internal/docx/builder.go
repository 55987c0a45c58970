package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"docgen/internal/viewmodel"
)

// BuildProposal composes a proposal package directly from the view model,
// for callers that want an editable document when no template is configured.
// There is no placeholder substitution on this path, so it cannot fail on
// malformed template input.
func BuildProposal(v *viewmodel.ProposalView) ([]byte, error) {
	var body strings.Builder

	para(&body, "Project Proposal", style{size: 40, bold: true})
	para(&body, v.ProjectName, style{size: 28, bold: true})
	para(&body, v.Date, style{})
	para(&body, "", style{})

	heading(&body, "Introduction")
	para(&body, v.Overview, style{})

	heading(&body, "Key Features")
	for _, f := range v.Features {
		para(&body, "• "+f, style{})
	}

	heading(&body, "Deliverables")
	for _, m := range v.Milestones {
		line := m.Name
		if m.Amount != "" {
			line += " - " + m.Amount
		}
		if m.TimePeriod != "" {
			line += " (" + m.TimePeriod + ")"
		}
		para(&body, line, style{bold: true})
		if m.Description != "" {
			para(&body, m.Description, style{})
		}
	}

	heading(&body, "Financials")
	para(&body, "Advance Payment: "+v.AdvancePayment, style{})
	para(&body, "Project Cost: "+v.ProjectCost, style{})
	para(&body, "Total: "+v.Total, style{bold: true})

	return writePackage(body.String())
}

type style struct {
	size int // half-points; 0 keeps the document default
	bold bool
}

func heading(b *strings.Builder, title string) {
	para(b, "", style{})
	para(b, title, style{size: 28, bold: true})
}

// para appends one single-run paragraph. Building single runs from the start
// is what lets generated packages skip the normalization step.
func para(b *strings.Builder, text string, s style) {
	b.WriteString("<w:p>")
	if s.size > 0 || s.bold {
		b.WriteString("<w:pPr><w:rPr>")
		if s.bold {
			b.WriteString("<w:b/>")
		}
		if s.size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/>`, s.size)
		}
		b.WriteString("</w:rPr></w:pPr>")
	}
	b.WriteString("<w:r>")
	if s.size > 0 || s.bold {
		b.WriteString("<w:rPr>")
		if s.bold {
			b.WriteString("<w:b/>")
		}
		if s.size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/>`, s.size)
		}
		b.WriteString("</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escapeText(text))
	b.WriteString("</w:t></w:r></w:p>")
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `</w:body></w:document>`

func writePackage(body string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{documentPart, documentHeader + body + documentFooter},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}
