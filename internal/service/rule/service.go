package rule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/rule"
	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type RuleServiceImpl struct {
	ruleRepo     rule.RuleRepository
	settingsRepo settings.SettingsRepository
}

func NewRuleService(ruleRepo rule.RuleRepository, settingsRepo settings.SettingsRepository) rule.RuleService {
	return &RuleServiceImpl{
		ruleRepo:     ruleRepo,
		settingsRepo: settingsRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, req rule.CreateRuleRequest) (rule.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.RuleResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	r := rule.Rule{
		CompanyID:      companyID,
		Name:           req.Name,
		Description:    req.Description,
		RuleType:       rule.RuleType(req.RuleType),
		Rate:           req.Rate,
		StaffID:        req.StaffID,
		ServiceID:      req.ServiceID,
		CategoryID:     req.CategoryID,
		ProductID:      req.ProductID,
		TierThresholds: req.TierThresholds,
		EffectiveFrom:  parseDatePtr(req.EffectiveFrom),
		EffectiveUntil: parseDatePtr(req.EffectiveUntil),
		Priority:       req.Priority,
		IsActive:       isActive,
	}

	created, err := s.ruleRepo.Create(ctx, r)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	return toResponse(created), nil
}

func (s *RuleServiceImpl) GetRule(ctx context.Context, id string) (rule.RuleResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	r, err := s.ruleRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	return toResponse(r), nil
}

func (s *RuleServiceImpl) ListRules(ctx context.Context, activeOnly bool) ([]rule.RuleResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.List(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]rule.RuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, toResponse(r))
	}
	return responses, nil
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, req rule.UpdateRuleRequest) (rule.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.RuleResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	if err := s.ruleRepo.Update(ctx, companyID, req); err != nil {
		return rule.RuleResponse{}, err
	}

	updated, err := s.ruleRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	return toResponse(updated), nil
}

func (s *RuleServiceImpl) DeleteRule(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.ruleRepo.GetByID(ctx, id, companyID); err != nil {
		return err
	}

	// A rule referenced by transactions keeps its history; deactivate instead.
	count, err := s.ruleRepo.CountTransactions(ctx, id, companyID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d transactions reference it", rule.ErrRuleInUse, count)
	}

	return s.ruleRepo.Delete(ctx, id, companyID)
}

func (s *RuleServiceImpl) ToggleRule(ctx context.Context, id string) (rule.RuleResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	r, err := s.ruleRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	if err := s.ruleRepo.SetActive(ctx, id, companyID, !r.IsActive); err != nil {
		return rule.RuleResponse{}, err
	}

	r.IsActive = !r.IsActive
	return toResponse(r), nil
}

func (s *RuleServiceImpl) ApplicableRules(ctx context.Context, query rule.ApplicableRulesQuery) ([]rule.RuleResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := s.applicableRules(ctx, companyID, query)
	if err != nil {
		return nil, err
	}

	responses := make([]rule.RuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, toResponse(r))
	}
	return responses, nil
}

// applicableRules pulls the date-bracketed active rules and filters them by
// scope in memory; the winner ordering is priority desc, name asc.
func (s *RuleServiceImpl) applicableRules(ctx context.Context, companyID string, query rule.ApplicableRulesQuery) ([]rule.Rule, error) {
	asOf := query.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	candidates, err := s.ruleRepo.GetApplicable(ctx, companyID, asOf.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	criteria := rule.ScopeCriteria{
		StaffID:    query.StaffID,
		ServiceID:  query.ServiceID,
		CategoryID: query.CategoryID,
		ProductID:  query.ProductID,
	}

	var matched []rule.Rule
	for _, r := range candidates {
		if r.MatchesScope(criteria) {
			matched = append(matched, r)
		}
	}

	rule.SortByPriority(matched)
	return matched, nil
}

func (s *RuleServiceImpl) Calculate(ctx context.Context, req rule.CalculateRequest) (rule.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.CalculateResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return rule.CalculateResponse{}, err
	}

	// Explicit rule requested
	if req.RuleID != nil {
		r, err := s.ruleRepo.GetByID(ctx, *req.RuleID, companyID)
		if err != nil {
			return rule.CalculateResponse{}, err
		}
		amount := r.CalculateCommission(req.Amount, req.SalesVolume)
		return rule.CalculateResponse{
			CommissionAmount: amount,
			CommissionRate:   r.Rate,
			RuleID:           &r.ID,
			RuleName:         &r.Name,
		}, nil
	}

	// Best applicable rule for the sale context
	matched, err := s.applicableRules(ctx, companyID, rule.ApplicableRulesQuery{
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		CategoryID: req.CategoryID,
		ProductID:  req.ProductID,
	})
	if err != nil {
		return rule.CalculateResponse{}, err
	}

	if len(matched) > 0 {
		winner := matched[0]
		amount := winner.CalculateCommission(req.Amount, req.SalesVolume)
		return rule.CalculateResponse{
			CommissionAmount: amount,
			CommissionRate:   winner.Rate,
			RuleID:           &winner.ID,
			RuleName:         &winner.Name,
		}, nil
	}

	// No rule matches: fall back to the company default rate as an implicit
	// percentage rule.
	current, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return rule.CalculateResponse{}, err
		}
		current = settings.Default(companyID)
	}
	rate := current.DefaultCommissionRate

	amount := req.Amount.Mul(rate).Div(hundred).Round(2)
	return rule.CalculateResponse{
		CommissionAmount: amount,
		CommissionRate:   rate,
	}, nil
}

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toResponse(r rule.Rule) rule.RuleResponse {
	return rule.RuleResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		Name:           r.Name,
		Description:    r.Description,
		RuleType:       string(r.RuleType),
		Rate:           r.Rate,
		StaffID:        r.StaffID,
		ServiceID:      r.ServiceID,
		CategoryID:     r.CategoryID,
		ProductID:      r.ProductID,
		TierThresholds: r.TierThresholds,
		EffectiveFrom:  formatDatePtr(r.EffectiveFrom),
		EffectiveUntil: formatDatePtr(r.EffectiveUntil),
		Priority:       r.Priority,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
