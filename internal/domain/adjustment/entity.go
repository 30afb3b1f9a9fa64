package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypeBonus            Type = "bonus"
	TypeCorrection       Type = "correction"
	TypeDeduction        Type = "deduction"
	TypeRefundAdjustment Type = "refund_adjustment"
	TypeOther            Type = "other"
)

// Adjustment is a signed manual change to a staff member's commission balance
// outside the normal sale flow. Amount carries the sign: negative for
// deductions, positive for bonuses.
type Adjustment struct {
	ID             string
	CompanyID      string
	StaffID        string
	StaffName      string
	AdjustmentType Type
	Amount         decimal.Decimal
	Reason         string
	PayoutID       *string
	AdjustmentDate time.Time
	CreatedByID    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLinked reports whether the adjustment has been absorbed into a payout.
// Linked adjustments cannot be deleted.
func (a Adjustment) IsLinked() bool {
	return a.PayoutID != nil
}
