package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Lifecycle: created pending by the aggregator -> approved ->
// completed (terminal; transactions flip to paid), or cancelled at any point
// before completion (terminal; releases transactions).
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod enum
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodPayroll      PaymentMethod = "payroll"
	MethodOther        PaymentMethod = "other"
)

// Payout - a batch of approved transactions for one staff member over one
// period, representing one payment event. NetAmount is always derived as
// gross - tax + adjustments and never set independently.
type Payout struct {
	ID               string
	CompanyID        string
	Reference        string
	StaffID          string
	StaffName        string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	GrossAmount      decimal.Decimal
	TaxAmount        decimal.Decimal
	Adjustments      decimal.Decimal
	NetAmount        decimal.Decimal
	TransactionCount int
	Status           Status
	PaymentMethod    *PaymentMethod
	PaymentReference string
	ApprovedAt       *time.Time
	ApprovedByID     *string
	PaidAt           *time.Time
	PaidByID         *string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanBeModified reports whether the payout still accepts changes.
func (p Payout) CanBeModified() bool {
	return p.Status == StatusDraft || p.Status == StatusPending
}

// CanBeProcessed reports whether the payout may be marked paid.
func (p Payout) CanBeProcessed() bool {
	return p.Status == StatusPending || p.Status == StatusApproved
}
