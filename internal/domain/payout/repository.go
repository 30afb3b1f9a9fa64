package payout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EligibleTransaction is the slice of a commission transaction the aggregator
// needs when building a payout batch.
type EligibleTransaction struct {
	ID               string
	CommissionAmount decimal.Decimal
	TaxAmount        decimal.Decimal
	NetCommission    decimal.Decimal
}

// LinkedTotals are the aggregates re-derived from currently linked
// transactions during recalculation.
type LinkedTotals struct {
	Gross decimal.Decimal
	Tax   decimal.Decimal
	Count int
}

// PayoutRepository defines data access methods for commission payouts.
// All methods include companyID to prevent cross-company data access.
// The multi-row methods are meant to run inside a single transaction via the
// postgresql transaction helper; see the payout service.
type PayoutRepository interface {
	Create(ctx context.Context, p Payout) (Payout, error)
	GetByID(ctx context.Context, id string, companyID string) (Payout, error)
	List(ctx context.Context, companyID string, filter PayoutFilter) ([]Payout, int64, error)

	// SelectEligibleForUpdate returns approved, unclaimed transactions for the
	// staff member within the period, locking the rows for the duration of the
	// enclosing transaction so concurrent aggregations serialize.
	SelectEligibleForUpdate(ctx context.Context, companyID string, staffID string, periodStart, periodEnd time.Time) ([]EligibleTransaction, error)

	// ClaimTransactions links the given transactions to the payout with a
	// conditional update that re-checks `payout_id IS NULL AND status =
	// 'approved'` at write time. Returns the number of rows actually claimed.
	ClaimTransactions(ctx context.Context, companyID string, payoutID string, transactionIDs []string) (int64, error)

	// LockReferenceScope serializes reference generation for a company+month
	// scope for the duration of the enclosing transaction.
	LockReferenceScope(ctx context.Context, companyID string, prefix string) error

	// CountReferencesWithPrefix counts existing payout references carrying the
	// month prefix, used to derive the next sequence number.
	CountReferencesWithPrefix(ctx context.Context, companyID string, prefix string) (int64, error)

	SetApproved(ctx context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error
	SetCompleted(ctx context.Context, id string, companyID string, method PaymentMethod, paymentReference string, paidByID *string, paidAt time.Time) error
	SetCancelled(ctx context.Context, id string, companyID string, notes string) error

	// MarkTransactionsPaid flips every transaction linked to the payout to
	// paid. Used when a payout completes.
	MarkTransactionsPaid(ctx context.Context, payoutID string, companyID string) (int64, error)

	// ReleaseTransactions unlinks every transaction from the payout and
	// returns them to approved. Used when a payout is cancelled.
	ReleaseTransactions(ctx context.Context, payoutID string, companyID string) (int64, error)

	// AggregateLinked re-derives gross/tax/count over transactions linked to
	// the payout with status in {pending, approved, paid}.
	AggregateLinked(ctx context.Context, payoutID string, companyID string) (LinkedTotals, error)

	// SumLinkedAdjustments totals the adjustments linked to the payout.
	SumLinkedAdjustments(ctx context.Context, payoutID string, companyID string) (decimal.Decimal, error)

	// UpdateTotals persists recalculated amounts. net is always derived by the
	// caller as gross - tax + adjustments.
	UpdateTotals(ctx context.Context, id string, companyID string, totals LinkedTotals, adjustments, net decimal.Decimal) error
}
