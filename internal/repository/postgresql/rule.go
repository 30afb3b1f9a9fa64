package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/rule"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type ruleRepositoryImpl struct {
	db *database.DB
}

func NewRuleRepository(db *database.DB) rule.RuleRepository {
	return &ruleRepositoryImpl{db: db}
}

const ruleColumns = `
	id, company_id, name, description, rule_type, rate,
	staff_id, service_id, category_id, product_id,
	tier_thresholds, effective_from, effective_until,
	priority, is_active, created_at, updated_at
`

func scanRule(row pgx.Row) (rule.Rule, error) {
	var r rule.Rule
	var thresholdsJSON []byte

	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Name, &r.Description, &r.RuleType, &r.Rate,
		&r.StaffID, &r.ServiceID, &r.CategoryID, &r.ProductID,
		&thresholdsJSON, &r.EffectiveFrom, &r.EffectiveUntil,
		&r.Priority, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return rule.Rule{}, err
	}

	r.TierThresholds, err = decodeTierThresholds(thresholdsJSON)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("commission rule %s: %w", r.ID, err)
	}

	return r, nil
}

// decodeTierThresholds parses the tier_thresholds jsonb column. A corrupt
// value is an error, not a flat rule with no tiers.
func decodeTierThresholds(data []byte) ([]rule.TierThreshold, error) {
	if data == nil {
		return nil, nil
	}
	var tiers []rule.TierThreshold
	if err := json.Unmarshal(data, &tiers); err != nil {
		return nil, fmt.Errorf("decode tier thresholds: %w", err)
	}
	return tiers, nil
}

// Create implements rule.RuleRepository.
func (l *ruleRepositoryImpl) Create(ctx context.Context, r rule.Rule) (rule.Rule, error) {
	q := GetQuerier(ctx, l.db)

	thresholdsJSON, _ := json.Marshal(r.TierThresholds)

	query := `
		INSERT INTO commission_rules (
			id, company_id, name, description, rule_type, rate,
			staff_id, service_id, category_id, product_id,
			tier_thresholds, effective_from, effective_until,
			priority, is_active, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		r.CompanyID, r.Name, r.Description, r.RuleType, r.Rate,
		r.StaffID, r.ServiceID, r.CategoryID, r.ProductID,
		thresholdsJSON, r.EffectiveFrom, r.EffectiveUntil,
		r.Priority, r.IsActive,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return rule.Rule{}, err
	}

	return r, nil
}

// GetByID implements rule.RuleRepository.
func (l *ruleRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (rule.Rule, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + ruleColumns + `
		FROM commission_rules
		WHERE id = $1 AND company_id = $2
	`

	r, err := scanRule(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.Rule{}, rule.ErrRuleNotFound
		}
		return rule.Rule{}, err
	}

	return r, nil
}

// List implements rule.RuleRepository.
func (l *ruleRepositoryImpl) List(ctx context.Context, companyID string, activeOnly bool) ([]rule.Rule, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + ruleColumns + `
		FROM commission_rules
		WHERE company_id = $1
	`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY priority DESC, name ASC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// GetApplicable implements rule.RuleRepository. Date bounds are inclusive and
// a null bound is open on that side.
func (l *ruleRepositoryImpl) GetApplicable(ctx context.Context, companyID string, asOf string) ([]rule.Rule, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + ruleColumns + `
		FROM commission_rules
		WHERE company_id = $1
		  AND is_active = true
		  AND (effective_from IS NULL OR effective_from <= $2)
		  AND (effective_until IS NULL OR effective_until >= $2)
		ORDER BY priority DESC, name ASC
	`

	rows, err := q.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Update implements rule.RuleRepository.
func (l *ruleRepositoryImpl) Update(ctx context.Context, companyID string, req rule.UpdateRuleRequest) error {
	q := GetQuerier(ctx, l.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *req.Description)
		argIdx++
	}
	if req.Rate != nil {
		updates = append(updates, fmt.Sprintf("rate = $%d", argIdx))
		args = append(args, *req.Rate)
		argIdx++
	}
	if req.StaffID != nil {
		if *req.StaffID == "" {
			updates = append(updates, "staff_id = NULL")
		} else {
			updates = append(updates, fmt.Sprintf("staff_id = $%d", argIdx))
			args = append(args, *req.StaffID)
			argIdx++
		}
	}
	if req.ServiceID != nil {
		if *req.ServiceID == "" {
			updates = append(updates, "service_id = NULL")
		} else {
			updates = append(updates, fmt.Sprintf("service_id = $%d", argIdx))
			args = append(args, *req.ServiceID)
			argIdx++
		}
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates = append(updates, "category_id = NULL")
		} else {
			updates = append(updates, fmt.Sprintf("category_id = $%d", argIdx))
			args = append(args, *req.CategoryID)
			argIdx++
		}
	}
	if req.ProductID != nil {
		if *req.ProductID == "" {
			updates = append(updates, "product_id = NULL")
		} else {
			updates = append(updates, fmt.Sprintf("product_id = $%d", argIdx))
			args = append(args, *req.ProductID)
			argIdx++
		}
	}
	if len(req.TierThresholds) > 0 {
		thresholdsJSON, _ := json.Marshal(req.TierThresholds)
		updates = append(updates, fmt.Sprintf("tier_thresholds = $%d", argIdx))
		args = append(args, thresholdsJSON)
		argIdx++
	}
	if req.EffectiveFrom != nil {
		updates = append(updates, fmt.Sprintf("effective_from = $%d", argIdx))
		args = append(args, *req.EffectiveFrom)
		argIdx++
	}
	if req.EffectiveUntil != nil {
		if *req.EffectiveUntil == "" {
			updates = append(updates, "effective_until = NULL")
		} else {
			updates = append(updates, fmt.Sprintf("effective_until = $%d", argIdx))
			args = append(args, *req.EffectiveUntil)
			argIdx++
		}
	}
	if req.Priority != nil {
		updates = append(updates, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *req.Priority)
		argIdx++
	}
	if req.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for commission rule update")
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, req.ID, companyID)

	sql := "UPDATE commission_rules SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND company_id = $%d RETURNING id", argIdx, argIdx+1)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.ErrRuleNotFound
		}
		return fmt.Errorf("failed to update commission rule with id %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements rule.RuleRepository.
func (l *ruleRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, l.db)
	query := `
		DELETE FROM commission_rules
		WHERE id = $1 AND company_id = $2
	`
	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return rule.ErrRuleNotFound
	}
	return nil
}

// SetActive implements rule.RuleRepository.
func (l *ruleRepositoryImpl) SetActive(ctx context.Context, id string, companyID string, active bool) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_rules
		SET is_active = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, active)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return rule.ErrRuleNotFound
	}
	return nil
}

// CountTransactions implements rule.RuleRepository.
func (l *ruleRepositoryImpl) CountTransactions(ctx context.Context, id string, companyID string) (int64, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT COUNT(*)
		FROM commission_transactions
		WHERE rule_id = $1 AND company_id = $2
	`
	var count int64
	if err := q.QueryRow(ctx, query, id, companyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
