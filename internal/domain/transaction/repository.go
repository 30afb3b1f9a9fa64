package transaction

import (
	"context"
	"time"
)

// TransactionRepository defines data access methods for commission
// transactions. All methods include companyID to prevent cross-company data
// access.
type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string, companyID string) (Transaction, error)
	List(ctx context.Context, companyID string, filter TransactionFilter) ([]Transaction, int64, error)

	// SetApproved moves a pending transaction to approved, stamping the
	// approver. Returns ErrTransactionNotPending when the row is no longer
	// pending at write time.
	SetApproved(ctx context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error

	// SetCancelled moves a transaction to cancelled with the audit note. The
	// write re-checks that the row is unclaimed and still pending or approved,
	// returning ErrTransactionNotCancellable otherwise.
	SetCancelled(ctx context.Context, id string, companyID string, notes string) error
}
