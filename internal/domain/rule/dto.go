package rule

import (
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	RuleType       string           `json:"rule_type"`
	Rate           decimal.Decimal  `json:"rate"`
	StaffID        *string          `json:"staff_id,omitempty"`
	ServiceID      *string          `json:"service_id,omitempty"`
	CategoryID     *string          `json:"category_id,omitempty"`
	ProductID      *string          `json:"product_id,omitempty"`
	TierThresholds []TierThreshold  `json:"tier_thresholds,omitempty"`
	EffectiveFrom  *string          `json:"effective_from,omitempty"`
	EffectiveUntil *string          `json:"effective_until,omitempty"`
	Priority       int              `json:"priority"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (r *CreateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsInSlice(r.RuleType, []string{"flat", "percentage", "tiered"}) {
		errs = append(errs, validator.ValidationError{Field: "rule_type", Message: "must be 'flat', 'percentage' or 'tiered'"})
	}
	if r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be non-negative"})
	}
	if r.Priority < 0 {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "must be non-negative"})
	}
	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.EffectiveUntil != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveUntil); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_until", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.RuleType == "tiered" {
		errs = append(errs, validateThresholds(r.TierThresholds)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateThresholds enforces the tier partition: ascending by min_amount,
// non-negative rates, and at most one open-ended tier which must be the
// highest.
func validateThresholds(tiers []TierThreshold) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if len(tiers) == 0 {
		errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "at least one tier is required for tiered rules"})
		return errs
	}

	openEnded := 0
	for i, tier := range tiers {
		if tier.Rate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "tier rates must be non-negative"})
			break
		}
		if tier.MaxAmount == nil {
			openEnded++
			if i != len(tiers)-1 {
				errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "only the highest tier may be open-ended"})
			}
			continue
		}
		if tier.MaxAmount.LessThan(tier.MinAmount) {
			errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "tier max_amount must not be below min_amount"})
		}
		if i > 0 && tier.MinAmount.LessThan(tiers[i-1].MinAmount) {
			errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "tiers must be ordered ascending by min_amount"})
		}
	}
	if openEnded > 1 {
		errs = append(errs, validator.ValidationError{Field: "tier_thresholds", Message: "at most one open-ended tier is allowed"})
	}

	return errs
}

// UpdateRuleRequest applies a partial update. Omitted fields keep their
// value; an empty string on a scoping field (staff_id, service_id,
// category_id, product_id) or on effective_until clears it back to NULL.
type UpdateRuleRequest struct {
	ID             string
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	StaffID        *string          `json:"staff_id,omitempty"`
	ServiceID      *string          `json:"service_id,omitempty"`
	CategoryID     *string          `json:"category_id,omitempty"`
	ProductID      *string          `json:"product_id,omitempty"`
	TierThresholds []TierThreshold  `json:"tier_thresholds,omitempty"`
	EffectiveFrom  *string          `json:"effective_from,omitempty"`
	EffectiveUntil *string          `json:"effective_until,omitempty"`
	Priority       *int             `json:"priority,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (r *UpdateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.Rate != nil && r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be non-negative"})
	}
	if len(r.TierThresholds) > 0 {
		errs = append(errs, validateThresholds(r.TierThresholds)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RuleResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	RuleType       string          `json:"rule_type"`
	Rate           decimal.Decimal `json:"rate"`
	StaffID        *string         `json:"staff_id,omitempty"`
	ServiceID      *string         `json:"service_id,omitempty"`
	CategoryID     *string         `json:"category_id,omitempty"`
	ProductID      *string         `json:"product_id,omitempty"`
	TierThresholds []TierThreshold `json:"tier_thresholds,omitempty"`
	EffectiveFrom  *string         `json:"effective_from,omitempty"`
	EffectiveUntil *string         `json:"effective_until,omitempty"`
	Priority       int             `json:"priority"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ApplicableRulesQuery struct {
	StaffID    *string
	ServiceID  *string
	CategoryID *string
	ProductID  *string
	AsOf       time.Time
}

type CalculateRequest struct {
	RuleID      *string          `json:"rule_id,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	SalesVolume *decimal.Decimal `json:"sales_volume,omitempty"`
	StaffID     *string          `json:"staff_id,omitempty"`
	ServiceID   *string          `json:"service_id,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	ProductID   *string          `json:"product_id,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculateResponse struct {
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	RuleID           *string         `json:"rule_id,omitempty"`
	RuleName         *string         `json:"rule_name,omitempty"`
}
