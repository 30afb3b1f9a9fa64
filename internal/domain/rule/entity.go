package rule

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RuleType enum
type RuleType string

const (
	RuleTypeFlat       RuleType = "flat"
	RuleTypePercentage RuleType = "percentage"
	RuleTypeTiered     RuleType = "tiered"
)

var hundred = decimal.NewFromInt(100)

// TierThreshold is one band of a tiered rule. MaxAmount nil means open-ended;
// only the highest tier may be open-ended.
type TierThreshold struct {
	MinAmount decimal.Decimal  `json:"min_amount"`
	MaxAmount *decimal.Decimal `json:"max_amount"`
	Rate      decimal.Decimal  `json:"rate"`
}

// Rule - commission policy. Scoping fields are all optional; a rule with no
// scoping set applies globally.
type Rule struct {
	ID             string
	CompanyID      string
	Name           string
	Description    string
	RuleType       RuleType
	Rate           decimal.Decimal
	StaffID        *string
	ServiceID      *string
	CategoryID     *string
	ProductID      *string
	TierThresholds []TierThreshold
	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time
	Priority       int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScopeCriteria carries the sale context a rule is matched against.
type ScopeCriteria struct {
	StaffID    *string
	ServiceID  *string
	CategoryID *string
	ProductID  *string
}

// IsApplicableOn reports whether the rule is active and its date bounds
// bracket the given date. A nil bound is unbounded on that side.
func (r Rule) IsApplicableOn(asOf time.Time) bool {
	if !r.IsActive {
		return false
	}
	day := asOf.Truncate(24 * time.Hour)
	if r.EffectiveFrom != nil && day.Before(r.EffectiveFrom.Truncate(24*time.Hour)) {
		return false
	}
	if r.EffectiveUntil != nil && day.After(r.EffectiveUntil.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// MatchesScope reports whether the rule applies to the given criteria.
// A rule is excluded only when one of its scoping fields is set and differs
// from the corresponding input.
func (r Rule) MatchesScope(c ScopeCriteria) bool {
	if r.StaffID != nil && c.StaffID != nil && *r.StaffID != *c.StaffID {
		return false
	}
	if r.ServiceID != nil && c.ServiceID != nil && *r.ServiceID != *c.ServiceID {
		return false
	}
	if r.CategoryID != nil && c.CategoryID != nil && *r.CategoryID != *c.CategoryID {
		return false
	}
	if r.ProductID != nil && c.ProductID != nil && *r.ProductID != *c.ProductID {
		return false
	}
	return true
}

// CalculateCommission computes the commission for a sale amount.
// Flat rules return the rate verbatim. Percentage rules apply rate% of the
// amount. Tiered rules require salesVolume; the first tier (ascending by
// min_amount) whose band contains the volume wins, and its rate is applied as
// a percentage of the amount. No matching tier, missing thresholds, or a nil
// volume yields zero - a defined outcome, not an error.
// Results are quantized to 2 decimal places, round half up.
func (r Rule) CalculateCommission(amount decimal.Decimal, salesVolume *decimal.Decimal) decimal.Decimal {
	switch r.RuleType {
	case RuleTypeFlat:
		return r.Rate.Round(2)

	case RuleTypePercentage:
		return amount.Mul(r.Rate).Div(hundred).Round(2)

	case RuleTypeTiered:
		if len(r.TierThresholds) == 0 || salesVolume == nil {
			return decimal.Zero
		}

		tiers := make([]TierThreshold, len(r.TierThresholds))
		copy(tiers, r.TierThresholds)
		sort.SliceStable(tiers, func(i, j int) bool {
			return tiers[i].MinAmount.LessThan(tiers[j].MinAmount)
		})

		for _, tier := range tiers {
			if salesVolume.LessThan(tier.MinAmount) {
				continue
			}
			if tier.MaxAmount != nil && salesVolume.GreaterThan(*tier.MaxAmount) {
				continue
			}
			return amount.Mul(tier.Rate).Div(hundred).Round(2)
		}

		return decimal.Zero
	}

	return decimal.Zero
}

// SortByPriority orders rules descending by priority, ties broken by name
// ascending. The first rule in the result is the one applied in
// single-rule-per-sale flows.
func SortByPriority(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].Name < rules[j].Name
	})
}
