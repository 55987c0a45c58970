package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/viewmodel"
)

func testProposalView() *viewmodel.ProposalView {
	return &viewmodel.ProposalView{
		ProjectName: "Customer Portal",
		ClientName:  "Globex",
		Date:        "4 September 2026",
		Overview:    "A customer-facing portal for inquiries & billing.",
		Features:    []string{"Self-service accounts", "Invoice history"},
		Milestones: []viewmodel.MilestoneRow{
			{Name: "Discovery", Amount: "LKR 50,000.00", TimePeriod: "2 weeks", Description: "Requirement workshops"},
			{Name: "Handover"},
		},
		AdvancePayment: "LKR 0.00",
		ProjectCost:    "LKR 350,000.00",
		Total:          "LKR 350,000.00",
	}
}

func TestBuildProposal(t *testing.T) {
	pkg, err := BuildProposal(testProposalView())
	require.NoError(t, err)

	doc, err := ReadPart(pkg, documentPart)
	require.NoError(t, err)

	paras, err := scanParagraphs(doc)
	require.NoError(t, err)
	var all string
	for _, p := range paras {
		all += p.text + "\n"
	}

	assert.Contains(t, all, "Project Proposal")
	assert.Contains(t, all, "Customer Portal")
	assert.Contains(t, all, "4 September 2026")
	for _, h := range []string{"Introduction", "Key Features", "Deliverables", "Financials"} {
		assert.Contains(t, all, h)
	}
	assert.Contains(t, all, "• Self-service accounts")
	assert.Contains(t, all, "Discovery - LKR 50,000.00 (2 weeks)")
	assert.Contains(t, all, "Requirement workshops")
	// Milestone without amount or period carries no suffix.
	assert.Contains(t, all, "Handover\n")
	assert.NotContains(t, all, "Handover -")
	assert.Contains(t, all, "Advance Payment: LKR 0.00")
	assert.Contains(t, all, "Total: LKR 350,000.00")
	// Ampersand in the overview is escaped in the raw part.
	assert.Contains(t, string(doc), "inquiries &amp; billing")
}

func TestBuildProposal_SingleRunParagraphs(t *testing.T) {
	pkg, err := BuildProposal(testProposalView())
	require.NoError(t, err)

	// Generated packages build correct single-run paragraphs from the start,
	// so normalization finds no split tokens and leaves the bytes alone.
	out, err := Normalize(pkg)
	require.NoError(t, err)
	assert.Equal(t, pkg, out)
}

func TestBuildProposal_ValidArchiveStructure(t *testing.T) {
	pkg, err := BuildProposal(testProposalView())
	require.NoError(t, err)

	entries := readEntries(t, pkg)
	assert.Contains(t, entries, "[Content_Types].xml")
	assert.Contains(t, entries, "_rels/.rels")
	assert.Contains(t, entries, documentPart)
}
