package adjustment

import (
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdjustmentRequest struct {
	StaffID        string          `json:"staff_id"`
	AdjustmentType string          `json:"adjustment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	AdjustmentDate *string         `json:"adjustment_date,omitempty"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}

	if !validator.IsInSlice(r.AdjustmentType, []string{"bonus", "correction", "deduction", "refund_adjustment", "other"}) {
		errs = append(errs, validator.ValidationError{Field: "adjustment_type", Message: "must be 'bonus', 'correction', 'deduction', 'refund_adjustment' or 'other'"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if r.AdjustmentDate != nil {
		if _, ok := validator.IsValidDate(*r.AdjustmentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "adjustment_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	StaffID        string          `json:"staff_id"`
	StaffName      string          `json:"staff_name"`
	AdjustmentType string          `json:"adjustment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	PayoutID       *string         `json:"payout_id,omitempty"`
	AdjustmentDate string          `json:"adjustment_date"`
	CreatedByID    *string         `json:"created_by_id,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type AdjustmentFilter struct {
	StaffID        *string
	AdjustmentType *string
	StartDate      *string
	EndDate        *string
	Page           int
	Limit          int
}

type ListAdjustmentsResponse struct {
	Data       []AdjustmentResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}
