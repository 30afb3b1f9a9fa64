package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Lifecycle: pending -> {approved, cancelled};
// approved -> {cancelled, paid} (paid only via payout completion);
// cancelled and paid are terminal. "adjusted" is reserved for records
// superseded by a manual correction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusAdjusted  Status = "adjusted"
)

// Transaction - one computed commission record, tied to a sale.
// StaffName is a snapshot taken at creation time and is never refreshed from
// the staff record. RuleID stays nullable: a rule may be deleted or
// deactivated later while the transaction keeps its computed values.
type Transaction struct {
	ID               string
	CompanyID        string
	StaffID          string
	StaffName        string
	SaleID           *string
	SaleReference    string
	AppointmentID    *string
	SaleAmount       decimal.Decimal
	CommissionRate   decimal.Decimal
	CommissionAmount decimal.Decimal
	TaxAmount        decimal.Decimal
	NetCommission    decimal.Decimal
	RuleID           *string
	Status           Status
	PayoutID         *string
	TransactionDate  time.Time
	ApprovedAt       *time.Time
	ApprovedByID     *string
	Description      string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
