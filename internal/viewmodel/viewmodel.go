package viewmodel

// Package viewmodel projects domain records into flat, display-ready value
// sets. Projection is pure: no I/O, and identical input yields identical
// output ("now" is only consulted when the record itself carries no date).
//
// The placeholder names produced by Placeholders() are an external contract
// with template authors; they are case-sensitive and must match exactly.

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"docgen/internal/config"
	"docgen/internal/model"
)

// Dash is rendered in place of missing optional scalar fields so template
// layouts remain visually stable.
const Dash = "—"

var printer = message.NewPrinter(language.English)

// ViewModel is the flat value set consumed by the placeholder renderer.
// Fields holds scalar substitutions. Sections holds named blocks: a block
// repeats once per row, and a conditional block carries zero or one row.
type ViewModel struct {
	Fields   map[string]string
	Sections map[string][]map[string]string
}

// SenderView carries the organization details shared by both document kinds.
type SenderView struct {
	CompanyName   string
	Address       string
	Email         string
	Phone         string
	BankName      string
	AccountName   string
	AccountNumber string
	BankBranch    string
	PaymentTerms  string
}

// ProposalView is the render-ready projection of a proposal record.
// Monetary fields are pre-formatted 2-decimal currency strings.
type ProposalView struct {
	ProjectName    string
	ClientName     string
	Date           string
	Overview       string
	PreparedBy     string
	Features       []string
	Milestones     []MilestoneRow
	AdvancePayment string
	ProjectCost    string
	Total          string
	Sender         SenderView
}

// MilestoneRow is one milestone line. Amount and TimePeriod are empty when
// the record carries none, so builders can suppress the suffix.
type MilestoneRow struct {
	Name        string
	Description string
	Amount      string
	TimePeriod  string
}

// BillingView is the render-ready projection of an invoice record.
// Monetary fields are pre-formatted 0-decimal currency strings.
type BillingView struct {
	InvoiceNumber string
	CustomerName  string
	ProjectName   string
	Date          string
	Items         []ItemRow
	Subtotal      string
	Advance       string
	HasAdvance    bool
	Total         string
	Sender        SenderView
}

// ItemRow is one invoice line: running number, description, formatted amount.
type ItemRow struct {
	No          string
	Description string
	Amount      string
}

// ProjectProposal builds a ProposalView. now is used only when the record
// has no date of its own.
func ProjectProposal(rec *model.Proposal, sender config.SenderConfig, now time.Time) *ProposalView {
	total := rec.ProjectCost - rec.AdvancePayment
	if total < 0 {
		total = 0
	}

	rows := make([]MilestoneRow, 0, len(rec.Milestones))
	for _, m := range rec.Milestones {
		row := MilestoneRow{
			Name:        m.Name,
			Description: m.Description,
			TimePeriod:  m.TimePeriod,
		}
		if m.Amount > 0 {
			row.Amount = Currency2(m.Amount)
		}
		rows = append(rows, row)
	}

	return &ProposalView{
		ProjectName:    orDash(rec.ProjectName),
		ClientName:     orDash(rec.ClientName),
		Date:           LongDate(recordDate(rec.Date, now)),
		Overview:       orDash(rec.Overview),
		PreparedBy:     orDash(rec.PreparedBy),
		Features:       rec.Features,
		Milestones:     rows,
		AdvancePayment: Currency2(rec.AdvancePayment),
		ProjectCost:    Currency2(rec.ProjectCost),
		Total:          Currency2(total),
		Sender:         senderView(sender),
	}
}

// ProjectBilling builds a BillingView. Invoices with zero items synthesize
// exactly one placeholder row so fixed single-row templates never render
// blank. An advance of zero is treated as absent for invoices.
func ProjectBilling(rec *model.Billing, sender config.SenderConfig, now time.Time) *BillingView {
	var subtotal float64
	items := make([]ItemRow, 0, len(rec.Items))
	for i, it := range rec.Items {
		subtotal += it.Amount
		items = append(items, ItemRow{
			No:          strconv.Itoa(i + 1),
			Description: orDash(it.Description),
			Amount:      Currency0(it.Amount),
		})
	}
	if len(items) == 0 {
		items = append(items, ItemRow{No: "1", Description: Dash, Amount: Currency0(0)})
	}

	total := rec.TotalAmount
	if total <= 0 {
		total = subtotal - rec.AdvanceApplied
		if total < 0 {
			total = 0
		}
	}

	v := &BillingView{
		InvoiceNumber: orDash(rec.InvoiceNumber),
		CustomerName:  orDash(rec.CustomerName),
		ProjectName:   orDash(rec.ProjectName),
		Date:          UpperDate(recordDate(rec.Date, now)),
		Items:         items,
		Subtotal:      Currency0(subtotal),
		Total:         Currency0(total),
		Sender:        senderView(sender),
	}
	if rec.AdvanceApplied > 0 {
		v.Advance = Currency0(rec.AdvanceApplied)
		v.HasAdvance = true
	}
	return v
}

// Placeholders flattens the proposal view for template substitution.
func (v *ProposalView) Placeholders() *ViewModel {
	fields := map[string]string{
		"projectName":    v.ProjectName,
		"clientName":     v.ClientName,
		"proposalDate":   v.Date,
		"overview":       v.Overview,
		"preparedBy":     v.PreparedBy,
		"advancePayment": v.AdvancePayment,
		"projectCost":    v.ProjectCost,
		"total":          v.Total,
	}
	addSenderFields(fields, v.Sender)

	features := make([]map[string]string, 0, len(v.Features))
	for _, f := range v.Features {
		features = append(features, map[string]string{"feature": f})
	}
	milestones := make([]map[string]string, 0, len(v.Milestones))
	for _, m := range v.Milestones {
		milestones = append(milestones, map[string]string{
			"name":        m.Name,
			"description": orDash(m.Description),
			"amount":      orDash(m.Amount),
			"timePeriod":  orDash(m.TimePeriod),
		})
	}

	return &ViewModel{
		Fields: fields,
		Sections: map[string][]map[string]string{
			"features":   features,
			"milestones": milestones,
		},
	}
}

// Placeholders flattens the billing view for template substitution. The
// advance section carries zero rows when no advance was applied, so templates
// can suppress the line entirely. The first item is also aliased into scalar
// fields for single-row templates.
func (v *BillingView) Placeholders() *ViewModel {
	fields := map[string]string{
		"invoiceNumber": v.InvoiceNumber,
		"customerName":  v.CustomerName,
		"projectName":   v.ProjectName,
		"invoiceDate":   v.Date,
		"subtotal":      v.Subtotal,
		"total":         v.Total,
	}
	addSenderFields(fields, v.Sender)

	rows := make([]map[string]string, 0, len(v.Items))
	for _, it := range v.Items {
		rows = append(rows, map[string]string{
			"no":          it.No,
			"description": it.Description,
			"amount":      it.Amount,
		})
	}
	// First-item alias for templates with a fixed single-row layout.
	fields["itemDescription"] = v.Items[0].Description
	fields["itemAmount"] = v.Items[0].Amount

	advance := []map[string]string{}
	if v.HasAdvance {
		advance = append(advance, map[string]string{"advanceApplied": v.Advance})
	}

	return &ViewModel{
		Fields: fields,
		Sections: map[string][]map[string]string{
			"items":   rows,
			"advance": advance,
		},
	}
}

// Currency0 formats an amount as a 0-decimal LKR string with thousands
// separators. Used for invoices.
func Currency0(amount float64) string {
	return printer.Sprintf("LKR %.0f", amount)
}

// Currency2 formats an amount as a 2-decimal LKR string with thousands
// separators. Used for proposals.
func Currency2(amount float64) string {
	return printer.Sprintf("LKR %.2f", amount)
}

// LongDate renders a date in the long form used by proposals, e.g.
// "4 September 2026".
func LongDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// UpperDate renders a date in the upper-cased abbreviated form used by
// invoices, e.g. "04 SEP 2026".
func UpperDate(t time.Time) string {
	return strings.ToUpper(t.Format("02 Jan 2006"))
}

func recordDate(d time.Time, now time.Time) time.Time {
	if d.IsZero() {
		return now
	}
	return d
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

func senderView(s config.SenderConfig) SenderView {
	return SenderView{
		CompanyName:   orDash(s.CompanyName),
		Address:       orDash(s.Address),
		Email:         orDash(s.Email),
		Phone:         orDash(s.Phone),
		BankName:      orDash(s.BankName),
		AccountName:   orDash(s.AccountName),
		AccountNumber: orDash(s.AccountNumber),
		BankBranch:    orDash(s.BankBranch),
		PaymentTerms:  orDash(s.PaymentTerms),
	}
}

func addSenderFields(fields map[string]string, s SenderView) {
	fields["companyName"] = s.CompanyName
	fields["companyAddress"] = s.Address
	fields["companyEmail"] = s.Email
	fields["companyPhone"] = s.Phone
	fields["bankName"] = s.BankName
	fields["accountName"] = s.AccountName
	fields["accountNumber"] = s.AccountNumber
	fields["bankBranch"] = s.BankBranch
	fields["paymentTerms"] = s.PaymentTerms
}
