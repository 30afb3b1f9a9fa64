package rule

import "context"

// RuleRepository defines data access methods for commission rules.
// All methods include companyID to prevent cross-company data access.
type RuleRepository interface {
	Create(ctx context.Context, r Rule) (Rule, error)
	GetByID(ctx context.Context, id string, companyID string) (Rule, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]Rule, error)
	Update(ctx context.Context, companyID string, req UpdateRuleRequest) error
	Delete(ctx context.Context, id string, companyID string) error
	SetActive(ctx context.Context, id string, companyID string, active bool) error

	// GetApplicable returns active rules whose date bounds bracket query.AsOf,
	// ordered by priority descending, name ascending. Scope filtering happens
	// in the service layer against the full criteria.
	GetApplicable(ctx context.Context, companyID string, asOf string) ([]Rule, error)

	// CountTransactions reports how many transactions reference the rule.
	CountTransactions(ctx context.Context, id string, companyID string) (int64, error)
}
