package payout

import "context"

type PayoutService interface {
	// CreatePayout claims the approved, unclaimed transactions of the staff
	// member within the period into a new pending payout. The whole sequence
	// (select, validate, create, claim) runs atomically; a concurrent call for
	// an overlapping set observes zero eligible rows and fails with
	// ErrNoEligibleTransactions.
	CreatePayout(ctx context.Context, req CreatePayoutRequest) (PayoutResponse, error)

	GetPayout(ctx context.Context, id string) (PayoutResponse, error)
	ListPayouts(ctx context.Context, filter PayoutFilter) (ListPayoutsResponse, error)

	// ApprovePayout is valid from draft or pending only.
	ApprovePayout(ctx context.Context, id string) (PayoutResponse, error)

	// ProcessPayout marks the payout completed, stamps the payment fields and
	// cascades every linked transaction to paid. Valid from pending or
	// approved only.
	ProcessPayout(ctx context.Context, id string, req ProcessPayoutRequest) (PayoutResponse, error)

	// CancelPayout releases all linked transactions back to approved and
	// unlinked, then marks the payout cancelled. Fails on completed payouts.
	CancelPayout(ctx context.Context, id string, req CancelPayoutRequest) (PayoutResponse, error)

	// RecalculateTotals is an idempotent consistency repair that re-derives
	// gross/tax/count/net from the currently linked transactions.
	RecalculateTotals(ctx context.Context, id string) (PayoutResponse, error)
}
