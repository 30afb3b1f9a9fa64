package settings

import (
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SettingsResponse struct {
	ID                      string          `json:"id"`
	CompanyID               string          `json:"company_id"`
	DefaultCommissionRate   decimal.Decimal `json:"default_commission_rate"`
	CalculationBasis        string          `json:"calculation_basis"`
	PayoutFrequency         string          `json:"payout_frequency"`
	PayoutDay               int             `json:"payout_day"`
	MinimumPayoutAmount     decimal.Decimal `json:"minimum_payout_amount"`
	ApplyTaxWithholding     bool            `json:"apply_tax_withholding"`
	TaxWithholdingRate      decimal.Decimal `json:"tax_withholding_rate"`
	ShowCommissionOnReceipt bool            `json:"show_commission_on_receipt"`
	ShowPendingCommission   bool            `json:"show_pending_commission"`
}

type UpdateSettingsRequest struct {
	DefaultCommissionRate   *decimal.Decimal `json:"default_commission_rate,omitempty"`
	CalculationBasis        *string          `json:"calculation_basis,omitempty"`
	PayoutFrequency         *string          `json:"payout_frequency,omitempty"`
	PayoutDay               *int             `json:"payout_day,omitempty"`
	MinimumPayoutAmount     *decimal.Decimal `json:"minimum_payout_amount,omitempty"`
	ApplyTaxWithholding     *bool            `json:"apply_tax_withholding,omitempty"`
	TaxWithholdingRate      *decimal.Decimal `json:"tax_withholding_rate,omitempty"`
	ShowCommissionOnReceipt *bool            `json:"show_commission_on_receipt,omitempty"`
	ShowPendingCommission   *bool            `json:"show_pending_commission,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DefaultCommissionRate != nil && !isValidRate(*r.DefaultCommissionRate) {
		errs = append(errs, validator.ValidationError{Field: "default_commission_rate", Message: "must be between 0 and 100"})
	}
	if r.TaxWithholdingRate != nil && !isValidRate(*r.TaxWithholdingRate) {
		errs = append(errs, validator.ValidationError{Field: "tax_withholding_rate", Message: "must be between 0 and 100"})
	}
	if r.MinimumPayoutAmount != nil && r.MinimumPayoutAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "minimum_payout_amount", Message: "must be non-negative"})
	}
	if r.PayoutDay != nil && (*r.PayoutDay < 1 || *r.PayoutDay > 31) {
		errs = append(errs, validator.ValidationError{Field: "payout_day", Message: "must be between 1 and 31"})
	}
	if r.CalculationBasis != nil && !validator.IsInSlice(*r.CalculationBasis, []string{"gross", "net", "profit"}) {
		errs = append(errs, validator.ValidationError{Field: "calculation_basis", Message: "must be 'gross', 'net' or 'profit'"})
	}
	if r.PayoutFrequency != nil && !validator.IsInSlice(*r.PayoutFrequency, []string{"weekly", "biweekly", "monthly", "custom"}) {
		errs = append(errs, validator.ValidationError{Field: "payout_frequency", Message: "must be 'weekly', 'biweekly', 'monthly' or 'custom'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}
