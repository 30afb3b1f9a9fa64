package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/adjustment"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/go-chi/jwtauth/v5"
)

type AdjustmentServiceImpl struct {
	adjustmentRepo adjustment.AdjustmentRepository
	staffRepo      staff.StaffRepository
}

func NewAdjustmentService(
	adjustmentRepo adjustment.AdjustmentRepository,
	staffRepo staff.StaffRepository,
) adjustment.AdjustmentService {
	return &AdjustmentServiceImpl{
		adjustmentRepo: adjustmentRepo,
		staffRepo:      staffRepo,
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

func (s *AdjustmentServiceImpl) CreateAdjustment(ctx context.Context, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, req.StaffID, companyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adjustmentDate := time.Now()
	if req.AdjustmentDate != nil {
		adjustmentDate, _ = time.Parse("2006-01-02", *req.AdjustmentDate)
	}

	var createdBy *string
	if userID != "" {
		createdBy = &userID
	}

	a := adjustment.Adjustment{
		CompanyID:      companyID,
		StaffID:        req.StaffID,
		StaffName:      member.FullName,
		AdjustmentType: adjustment.Type(req.AdjustmentType),
		Amount:         req.Amount,
		Reason:         req.Reason,
		AdjustmentDate: adjustmentDate,
		CreatedByID:    createdBy,
	}

	created, err := s.adjustmentRepo.Create(ctx, a)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return toResponse(created), nil
}

func (s *AdjustmentServiceImpl) GetAdjustment(ctx context.Context, id string) (adjustment.AdjustmentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	a, err := s.adjustmentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	return toResponse(a), nil
}

func (s *AdjustmentServiceImpl) ListAdjustments(ctx context.Context, filter adjustment.AdjustmentFilter) (adjustment.ListAdjustmentsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return adjustment.ListAdjustmentsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	adjustments, totalCount, err := s.adjustmentRepo.List(ctx, companyID, filter)
	if err != nil {
		return adjustment.ListAdjustmentsResponse{}, err
	}

	responses := make([]adjustment.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		responses = append(responses, toResponse(a))
	}

	return adjustment.ListAdjustmentsResponse{
		Data:       responses,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *AdjustmentServiceImpl) DeleteAdjustment(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	a, err := s.adjustmentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if a.IsLinked() {
		return fmt.Errorf("%w: cancel the payout first", adjustment.ErrAdjustmentLinked)
	}

	return s.adjustmentRepo.Delete(ctx, id, companyID)
}

func toResponse(a adjustment.Adjustment) adjustment.AdjustmentResponse {
	return adjustment.AdjustmentResponse{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		StaffID:        a.StaffID,
		StaffName:      a.StaffName,
		AdjustmentType: string(a.AdjustmentType),
		Amount:         a.Amount,
		Reason:         a.Reason,
		PayoutID:       a.PayoutID,
		AdjustmentDate: a.AdjustmentDate.Format("2006-01-02"),
		CreatedByID:    a.CreatedByID,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}
