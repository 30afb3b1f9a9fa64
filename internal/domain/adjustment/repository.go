package adjustment

import "context"

// AdjustmentRepository defines data access methods for commission adjustments.
// All methods include companyID to prevent cross-company data access.
type AdjustmentRepository interface {
	Create(ctx context.Context, a Adjustment) (Adjustment, error)
	GetByID(ctx context.Context, id string, companyID string) (Adjustment, error)
	List(ctx context.Context, companyID string, filter AdjustmentFilter) ([]Adjustment, int64, error)

	// Delete removes the adjustment only while it is not linked to a payout.
	// Returns ErrAdjustmentLinked when payout_id is set at delete time.
	Delete(ctx context.Context, id string, companyID string) error
}
