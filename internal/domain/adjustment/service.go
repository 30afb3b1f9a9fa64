package adjustment

import "context"

type AdjustmentService interface {
	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	GetAdjustment(ctx context.Context, id string) (AdjustmentResponse, error)
	ListAdjustments(ctx context.Context, filter AdjustmentFilter) (ListAdjustmentsResponse, error)
	DeleteAdjustment(ctx context.Context, id string) error
}
