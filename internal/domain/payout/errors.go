package payout

import "errors"

var (
	ErrPayoutNotFound          = errors.New("commission payout not found")
	ErrPayoutNotModifiable     = errors.New("commission payout can no longer be modified")
	ErrPayoutNotProcessable    = errors.New("commission payout cannot be processed")
	ErrPayoutCompleted         = errors.New("commission payout is already completed")
	ErrNoEligibleTransactions  = errors.New("no approved unclaimed transactions found for this period")
	ErrBelowMinimumPayout      = errors.New("total amount is below the minimum payout amount")
)
