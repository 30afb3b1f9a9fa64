package transaction

import (
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	StaffID          string           `json:"staff_id"`
	SaleID           *string          `json:"sale_id,omitempty"`
	SaleReference    string           `json:"sale_reference,omitempty"`
	AppointmentID    *string          `json:"appointment_id,omitempty"`
	SaleAmount       decimal.Decimal  `json:"sale_amount"`
	CommissionRate   decimal.Decimal  `json:"commission_rate"`
	CommissionAmount decimal.Decimal  `json:"commission_amount"`
	NetCommission    *decimal.Decimal `json:"net_commission,omitempty"`
	RuleID           *string          `json:"rule_id,omitempty"`
	TransactionDate  *string          `json:"transaction_date,omitempty"`
	Description      string           `json:"description,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.SaleAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "sale_amount", Message: "must be non-negative"})
	}
	if r.CommissionRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "commission_rate", Message: "must be non-negative"})
	}
	if r.CommissionAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "commission_amount", Message: "must be non-negative"})
	}
	if r.TransactionDate != nil {
		if _, ok := validator.IsValidDate(*r.TransactionDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "transaction_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectTransactionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type VoidTransactionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type TransactionResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	StaffID          string          `json:"staff_id"`
	StaffName        string          `json:"staff_name"`
	SaleID           *string         `json:"sale_id,omitempty"`
	SaleReference    string          `json:"sale_reference,omitempty"`
	AppointmentID    *string         `json:"appointment_id,omitempty"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	NetCommission    decimal.Decimal `json:"net_commission"`
	RuleID           *string         `json:"rule_id,omitempty"`
	Status           string          `json:"status"`
	PayoutID         *string         `json:"payout_id,omitempty"`
	TransactionDate  string          `json:"transaction_date"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	ApprovedByID     *string         `json:"approved_by_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type TransactionFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ListTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}
