package report

import (
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DateRange is an optional inclusive date filter on report queries.
type DateRange struct {
	StartDate *string
	EndDate   *string
}

func (dr DateRange) Validate() error {
	var errs validator.ValidationErrors

	var startOK, endOK bool
	if dr.StartDate != nil {
		if _, ok := validator.IsValidDate(*dr.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
		} else {
			startOK = true
		}
	}
	if dr.EndDate != nil {
		if _, ok := validator.IsValidDate(*dr.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
		} else {
			endOK = true
		}
	}
	if startOK && endOK && *dr.EndDate < *dr.StartDate {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StaffSummary aggregates a staff member's commission activity, optionally
// bounded by a date range.
type StaffSummary struct {
	StaffID   string  `json:"staff_id"`
	StaffName string  `json:"staff_name"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalNet         decimal.Decimal `json:"total_net"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	TransactionCount int64           `json:"transaction_count"`

	// The pending/paid breakdown sums net commission.
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PendingCount  int64           `json:"pending_count"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaidCount     int64           `json:"paid_count"`

	AdjustmentTotal decimal.Decimal `json:"adjustment_total"`
	AdjustmentCount int64           `json:"adjustment_count"`
}

// TopEarner is one row of the dashboard top-earner ranking, ordered by net
// commission over approved and paid transactions.
type TopEarner struct {
	StaffID       string          `json:"staff_id"`
	StaffName     string          `json:"staff_name"`
	NetCommission decimal.Decimal `json:"net_commission"`
}

// PayoutStatusTotal groups payout amounts by status over the period.
type PayoutStatusTotal struct {
	Status    string          `json:"status"`
	NetAmount decimal.Decimal `json:"net_amount"`
	Count     int64           `json:"count"`
}

// DashboardStats is the company-wide commission overview for a period.
type DashboardStats struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalNet         decimal.Decimal `json:"total_net"`
	TransactionCount int64           `json:"transaction_count"`

	PendingTransactionCount int64 `json:"pending_transaction_count"`
	PendingPayoutCount      int64 `json:"pending_payout_count"`

	TopEarners   []TopEarner         `json:"top_earners"`
	PayoutTotals []PayoutStatusTotal `json:"payout_totals"`
}

// UnpaidBalance is a staff member's earned-but-not-paid amount: net commission
// over approved unclaimed transactions plus unlinked adjustments.
type UnpaidBalance struct {
	StaffID           string          `json:"staff_id"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	AdjustmentAmount  decimal.Decimal `json:"adjustment_amount"`
	TotalUnpaid       decimal.Decimal `json:"total_unpaid"`
}
