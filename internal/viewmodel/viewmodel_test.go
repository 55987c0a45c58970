package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/config"
	"docgen/internal/model"
)

var testSender = config.SenderConfig{
	CompanyName:   "Acme Solutions",
	Address:       "42 Galle Road, Colombo",
	Email:         "hello@acme.example",
	Phone:         "+94 11 234 5678",
	BankName:      "Bank of Ceylon",
	AccountName:   "Acme Solutions (Pvt) Ltd",
	AccountNumber: "001-234567",
	BankBranch:    "Colombo Main",
	PaymentTerms:  "50% advance, balance on delivery",
}

var testNow = time.Date(2026, time.September, 4, 10, 0, 0, 0, time.UTC)

func TestCurrencyFormatting(t *testing.T) {
	assert.Equal(t, "LKR 1,234,500", Currency0(1234500))
	assert.Equal(t, "LKR 0", Currency0(0))
	assert.Equal(t, "LKR 1,234,500.50", Currency2(1234500.5))
	assert.Equal(t, "LKR 0.00", Currency2(0))
}

func TestDateFormatting(t *testing.T) {
	d := time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "4 September 2026", LongDate(d))
	assert.Equal(t, "04 SEP 2026", UpperDate(d))
}

func TestProjectBilling_ZeroItemsPlaceholderRow(t *testing.T) {
	rec := &model.Billing{
		InvoiceNumber: "INV-001",
		CustomerName:  "Globex",
		TotalAmount:   25000,
	}

	v := ProjectBilling(rec, testSender, testNow)

	require.Len(t, v.Items, 1)
	assert.Equal(t, ItemRow{No: "1", Description: Dash, Amount: "LKR 0"}, v.Items[0])
	// The stored total wins over the derived (empty) subtotal.
	assert.Equal(t, "LKR 25,000", v.Total)
	assert.Equal(t, "LKR 0", v.Subtotal)
}

func TestProjectBilling_DerivedTotals(t *testing.T) {
	rec := &model.Billing{
		CustomerName:   "Globex",
		Items:          []model.LineItem{{Description: "Design", Amount: 30000}, {Description: "Build", Amount: 70000}},
		AdvanceApplied: 120000,
	}

	v := ProjectBilling(rec, testSender, testNow)

	assert.Equal(t, "LKR 100,000", v.Subtotal)
	// Advance larger than subtotal floors the derived total at zero.
	assert.Equal(t, "LKR 0", v.Total)
	assert.Equal(t, []string{"1", "2"}, []string{v.Items[0].No, v.Items[1].No})
}

func TestProjectBilling_AdvancePolicy(t *testing.T) {
	withAdvance := ProjectBilling(&model.Billing{AdvanceApplied: 5000, TotalAmount: 10000}, testSender, testNow)
	assert.True(t, withAdvance.HasAdvance)
	assert.Equal(t, "LKR 5,000", withAdvance.Advance)
	rows := withAdvance.Placeholders().Sections["advance"]
	require.Len(t, rows, 1)
	assert.Equal(t, "LKR 5,000", rows[0]["advanceApplied"])

	// A zero advance is absent for invoices: the section carries no rows.
	zeroAdvance := ProjectBilling(&model.Billing{TotalAmount: 10000}, testSender, testNow)
	assert.False(t, zeroAdvance.HasAdvance)
	assert.Empty(t, zeroAdvance.Placeholders().Sections["advance"])
}

func TestProjectProposal_AdvanceAlwaysShown(t *testing.T) {
	// Proposals always show the advance line, even at zero.
	v := ProjectProposal(&model.Proposal{ProjectName: "Portal", ProjectCost: 200000}, testSender, testNow)

	assert.Equal(t, "LKR 0.00", v.AdvancePayment)
	assert.Equal(t, "LKR 200,000.00", v.ProjectCost)
	assert.Equal(t, "LKR 200,000.00", v.Total)
	assert.Equal(t, "LKR 0.00", v.Placeholders().Fields["advancePayment"])
}

func TestProjectProposal_TotalFlooredAtZero(t *testing.T) {
	v := ProjectProposal(&model.Proposal{ProjectCost: 50000, AdvancePayment: 80000}, testSender, testNow)
	assert.Equal(t, "LKR 0.00", v.Total)
}

func TestProjectProposal_MissingScalarsRenderDash(t *testing.T) {
	v := ProjectProposal(&model.Proposal{}, testSender, testNow)

	assert.Equal(t, Dash, v.ProjectName)
	assert.Equal(t, Dash, v.ClientName)
	assert.Equal(t, Dash, v.Overview)
	assert.Equal(t, Dash, v.PreparedBy)
}

func TestProjectProposal_MilestoneOptionalSuffix(t *testing.T) {
	v := ProjectProposal(&model.Proposal{
		Milestones: []model.Milestone{
			{Name: "Discovery", Amount: 25000, TimePeriod: "2 weeks", Description: "Workshops"},
			{Name: "Handover"},
		},
	}, testSender, testNow)

	require.Len(t, v.Milestones, 2)
	assert.Equal(t, "LKR 25,000.00", v.Milestones[0].Amount)
	assert.Equal(t, "2 weeks", v.Milestones[0].TimePeriod)
	assert.Empty(t, v.Milestones[1].Amount)
	assert.Empty(t, v.Milestones[1].TimePeriod)

	rows := v.Placeholders().Sections["milestones"]
	assert.Equal(t, Dash, rows[1]["amount"])
}

func TestProjectUsesNowOnlyWhenRecordHasNoDate(t *testing.T) {
	dated := &model.Billing{Date: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "02 JAN 2026", ProjectBilling(dated, testSender, testNow).Date)

	undated := &model.Billing{}
	assert.Equal(t, "04 SEP 2026", ProjectBilling(undated, testSender, testNow).Date)
}

func TestProjectionIsDeterministic(t *testing.T) {
	rec := &model.Proposal{
		ProjectName: "Portal",
		Features:    []string{"Auth", "Reports"},
		Milestones:  []model.Milestone{{Name: "Build", Amount: 100000}},
		ProjectCost: 150000,
	}

	a := ProjectProposal(rec, testSender, testNow)
	b := ProjectProposal(rec, testSender, testNow)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Placeholders(), b.Placeholders())
}

func TestBillingFirstItemAlias(t *testing.T) {
	v := ProjectBilling(&model.Billing{
		Items: []model.LineItem{{Description: "Hosting", Amount: 4500}},
	}, testSender, testNow)

	fields := v.Placeholders().Fields
	assert.Equal(t, "Hosting", fields["itemDescription"])
	assert.Equal(t, "LKR 4,500", fields["itemAmount"])
}
