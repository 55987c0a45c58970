package model

import "time"

// Package model contains the domain records the render pipeline consumes.
// Records arrive fully validated from the upstream CRUD services; this
// subsystem never persists or mutates them.

// Proposal is a project proposal record.
type Proposal struct {
	ID             string      `json:"id"`
	ClientName     string      `json:"client_name"`
	ProjectName    string      `json:"project_name"`
	Date           time.Time   `json:"date"`
	Overview       string      `json:"overview"`
	Features       []string    `json:"features"`
	Milestones     []Milestone `json:"milestones"`
	ProjectCost    float64     `json:"project_cost"`
	AdvancePayment float64     `json:"advance_payment"`
	PreparedBy     string      `json:"prepared_by"`
}

// Milestone is one deliverable phase of a proposal. Amount and TimePeriod
// are optional; zero values suppress their suffix in rendered output.
type Milestone struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	TimePeriod  string  `json:"time_period"`
}

// Billing is an invoice record.
type Billing struct {
	ID             string     `json:"id"`
	InvoiceNumber  string     `json:"invoice_number"`
	CustomerName   string     `json:"customer_name"`
	ProjectName    string     `json:"project_name"`
	Date           time.Time  `json:"date"`
	Items          []LineItem `json:"items"`
	AdvanceApplied float64    `json:"advance_applied"`
	TotalAmount    float64    `json:"total_amount"`
}

// LineItem is one billed row of an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}
