package transaction

import "errors"

var (
	ErrTransactionNotFound   = errors.New("commission transaction not found")
	ErrTransactionNotPending = errors.New("commission transaction is not pending")
	ErrTransactionPaid       = errors.New("commission transaction is already paid")
	ErrTransactionInPayout   = errors.New("commission transaction is part of a payout")

	// ErrTransactionNotCancellable reports a cancel write that matched no row:
	// the transaction was claimed by a payout or left a cancellable status
	// after it was read.
	ErrTransactionNotCancellable = errors.New("commission transaction can no longer be cancelled")
)
