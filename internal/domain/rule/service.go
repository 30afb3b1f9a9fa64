package rule

import (
	"context"
)

type RuleService interface {
	CreateRule(ctx context.Context, req CreateRuleRequest) (RuleResponse, error)
	GetRule(ctx context.Context, id string) (RuleResponse, error)
	ListRules(ctx context.Context, activeOnly bool) ([]RuleResponse, error)
	UpdateRule(ctx context.Context, req UpdateRuleRequest) (RuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
	ToggleRule(ctx context.Context, id string) (RuleResponse, error)

	// ApplicableRules returns the ordered set of rules matching the criteria
	// on the given date. The first rule wins in single-rule-per-sale flows.
	ApplicableRules(ctx context.Context, query ApplicableRulesQuery) ([]RuleResponse, error)

	// Calculate computes a commission either for an explicit rule or for the
	// best applicable rule, falling back to the tenant default rate when
	// nothing matches.
	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)
}
