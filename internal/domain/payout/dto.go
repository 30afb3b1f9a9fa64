package payout

import (
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayoutRequest struct {
	StaffID     string `json:"staff_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Notes       string `json:"notes,omitempty"`
}

func (r *CreatePayoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}

	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessPayoutRequest struct {
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

func (r *ProcessPayoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.PaymentMethod, []string{"cash", "bank_transfer", "check", "payroll", "other"}) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash', 'bank_transfer', 'check', 'payroll' or 'other'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelPayoutRequest struct {
	Reason string `json:"reason,omitempty"`
}

type PayoutResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Reference        string          `json:"reference"`
	StaffID          string          `json:"staff_id"`
	StaffName        string          `json:"staff_name"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Adjustments      decimal.Decimal `json:"adjustments"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
	Status           string          `json:"status"`
	PaymentMethod    *string         `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	ApprovedByID     *string         `json:"approved_by_id,omitempty"`
	PaidAt           *string         `json:"paid_at,omitempty"`
	PaidByID         *string         `json:"paid_by_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type PayoutFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

type ListPayoutsResponse struct {
	Data       []PayoutResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}
