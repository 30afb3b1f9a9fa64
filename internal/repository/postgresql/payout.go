package postgresql

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/payout"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payoutRepositoryImpl struct {
	db *database.DB
}

func NewPayoutRepository(db *database.DB) payout.PayoutRepository {
	return &payoutRepositoryImpl{db: db}
}

const payoutColumns = `
	id, company_id, reference, staff_id, staff_name, period_start, period_end,
	gross_amount, tax_amount, adjustments, net_amount, transaction_count,
	status, payment_method, payment_reference,
	approved_at, approved_by_id, paid_at, paid_by_id, notes,
	created_at, updated_at
`

func scanPayout(row pgx.Row) (payout.Payout, error) {
	var p payout.Payout
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Reference, &p.StaffID, &p.StaffName, &p.PeriodStart, &p.PeriodEnd,
		&p.GrossAmount, &p.TaxAmount, &p.Adjustments, &p.NetAmount, &p.TransactionCount,
		&p.Status, &p.PaymentMethod, &p.PaymentReference,
		&p.ApprovedAt, &p.ApprovedByID, &p.PaidAt, &p.PaidByID, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payout.Payout{}, err
	}
	return p, nil
}

// Create implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) Create(ctx context.Context, p payout.Payout) (payout.Payout, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO commission_payouts (
			id, company_id, reference, staff_id, staff_name, period_start, period_end,
			gross_amount, tax_amount, adjustments, net_amount, transaction_count,
			status, notes, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.CompanyID, p.Reference, p.StaffID, p.StaffName, p.PeriodStart, p.PeriodEnd,
		p.GrossAmount, p.TaxAmount, p.Adjustments, p.NetAmount, p.TransactionCount,
		p.Status, p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payout.Payout{}, err
	}

	return p, nil
}

// GetByID implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payout.Payout, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + payoutColumns + `
		FROM commission_payouts
		WHERE id = $1 AND company_id = $2
	`

	p, err := scanPayout(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payout.Payout{}, payout.ErrPayoutNotFound
		}
		return payout.Payout{}, err
	}

	return p, nil
}

// List implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) List(ctx context.Context, companyID string, filter payout.PayoutFilter) ([]payout.Payout, int64, error) {
	q := GetQuerier(ctx, l.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("period_end >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("period_start <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM commission_payouts WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM commission_payouts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		payoutColumns, where, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payouts []payout.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, 0, err
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return payouts, totalCount, nil
}

// SelectEligibleForUpdate implements payout.PayoutRepository. FOR UPDATE keeps
// the rows locked until the enclosing transaction ends, so two concurrent
// aggregations over an overlapping period serialize here.
func (l *payoutRepositoryImpl) SelectEligibleForUpdate(ctx context.Context, companyID string, staffID string, periodStart, periodEnd time.Time) ([]payout.EligibleTransaction, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT id, commission_amount, tax_amount, net_commission
		FROM commission_transactions
		WHERE company_id = $1
		  AND staff_id = $2
		  AND status = 'approved'
		  AND payout_id IS NULL
		  AND transaction_date >= $3
		  AND transaction_date <= $4
		ORDER BY transaction_date ASC
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, companyID, staffID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eligible []payout.EligibleTransaction
	for rows.Next() {
		var et payout.EligibleTransaction
		if err := rows.Scan(&et.ID, &et.CommissionAmount, &et.TaxAmount, &et.NetCommission); err != nil {
			return nil, err
		}
		eligible = append(eligible, et)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return eligible, nil
}

// ClaimTransactions implements payout.PayoutRepository. The predicate re-checks
// eligibility at write time; the caller compares the returned count against the
// expected one and rolls back on mismatch.
func (l *payoutRepositoryImpl) ClaimTransactions(ctx context.Context, companyID string, payoutID string, transactionIDs []string) (int64, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_transactions
		SET payout_id = $1, updated_at = NOW()
		WHERE company_id = $2
		  AND id = ANY($3)
		  AND payout_id IS NULL
		  AND status = 'approved'
	`
	commandTag, err := q.Exec(ctx, query, payoutID, companyID, transactionIDs)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

// LockReferenceScope implements payout.PayoutRepository. The advisory lock is
// transaction-scoped and released automatically at commit or rollback.
func (l *payoutRepositoryImpl) LockReferenceScope(ctx context.Context, companyID string, prefix string) error {
	q := GetQuerier(ctx, l.db)

	h := fnv.New64a()
	h.Write([]byte(companyID + "/" + prefix))
	key := int64(h.Sum64())

	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key)
	return err
}

// CountReferencesWithPrefix implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) CountReferencesWithPrefix(ctx context.Context, companyID string, prefix string) (int64, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT COUNT(*)
		FROM commission_payouts
		WHERE company_id = $1 AND reference LIKE $2
	`
	var count int64
	if err := q.QueryRow(ctx, query, companyID, prefix+"%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SetApproved implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) SetApproved(ctx context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_payouts
		SET status = 'approved', approved_at = $3, approved_by_id = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status IN ('draft', 'pending')
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, approvedAt, approvedByID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payout.ErrPayoutNotModifiable
	}
	return nil
}

// SetCompleted implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) SetCompleted(ctx context.Context, id string, companyID string, method payout.PaymentMethod, paymentReference string, paidByID *string, paidAt time.Time) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_payouts
		SET status = 'completed', payment_method = $3, payment_reference = $4,
			paid_at = $5, paid_by_id = $6, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status IN ('pending', 'approved')
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, method, paymentReference, paidAt, paidByID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payout.ErrPayoutNotProcessable
	}
	return nil
}

// SetCancelled implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) SetCancelled(ctx context.Context, id string, companyID string, notes string) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_payouts
		SET status = 'cancelled', notes = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status != 'completed'
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, notes)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payout.ErrPayoutCompleted
	}
	return nil
}

// MarkTransactionsPaid implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) MarkTransactionsPaid(ctx context.Context, payoutID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_transactions
		SET status = 'paid', updated_at = NOW()
		WHERE payout_id = $1 AND company_id = $2 AND status = 'approved'
	`
	commandTag, err := q.Exec(ctx, query, payoutID, companyID)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

// ReleaseTransactions implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) ReleaseTransactions(ctx context.Context, payoutID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_transactions
		SET payout_id = NULL, status = 'approved', updated_at = NOW()
		WHERE payout_id = $1 AND company_id = $2
	`
	commandTag, err := q.Exec(ctx, query, payoutID, companyID)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

// AggregateLinked implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) AggregateLinked(ctx context.Context, payoutID string, companyID string) (payout.LinkedTotals, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT COALESCE(SUM(commission_amount), 0),
			   COALESCE(SUM(tax_amount), 0),
			   COUNT(*)
		FROM commission_transactions
		WHERE payout_id = $1 AND company_id = $2
		  AND status IN ('pending', 'approved', 'paid')
	`
	var totals payout.LinkedTotals
	if err := q.QueryRow(ctx, query, payoutID, companyID).Scan(&totals.Gross, &totals.Tax, &totals.Count); err != nil {
		return payout.LinkedTotals{}, err
	}
	return totals, nil
}

// SumLinkedAdjustments implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) SumLinkedAdjustments(ctx context.Context, payoutID string, companyID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM commission_adjustments
		WHERE payout_id = $1 AND company_id = $2
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, payoutID, companyID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// UpdateTotals implements payout.PayoutRepository.
func (l *payoutRepositoryImpl) UpdateTotals(ctx context.Context, id string, companyID string, totals payout.LinkedTotals, adjustments, net decimal.Decimal) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_payouts
		SET gross_amount = $3, tax_amount = $4, adjustments = $5, net_amount = $6,
			transaction_count = $7, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, totals.Gross, totals.Tax, adjustments, net, totals.Count)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payout.ErrPayoutNotFound
	}
	return nil
}
