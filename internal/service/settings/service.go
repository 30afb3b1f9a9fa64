package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/go-chi/jwtauth/v5"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
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

func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.SettingsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			// Companies that never saved settings get the defaults.
			return toResponse(settings.Default(companyID)), nil
		}
		return settings.SettingsResponse{}, err
	}

	return toResponse(current), nil
}

func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	// Get current settings or start from defaults
	current, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.SettingsResponse{}, err
		}
		current = settings.Default(companyID)
	}

	// Apply updates
	if req.DefaultCommissionRate != nil {
		current.DefaultCommissionRate = *req.DefaultCommissionRate
	}
	if req.CalculationBasis != nil {
		current.CalculationBasis = settings.CalculationBasis(*req.CalculationBasis)
	}
	if req.PayoutFrequency != nil {
		current.PayoutFrequency = settings.PayoutFrequency(*req.PayoutFrequency)
	}
	if req.PayoutDay != nil {
		current.PayoutDay = *req.PayoutDay
	}
	if req.MinimumPayoutAmount != nil {
		current.MinimumPayoutAmount = *req.MinimumPayoutAmount
	}
	if req.ApplyTaxWithholding != nil {
		current.ApplyTaxWithholding = *req.ApplyTaxWithholding
	}
	if req.TaxWithholdingRate != nil {
		current.TaxWithholdingRate = *req.TaxWithholdingRate
	}
	if req.ShowCommissionOnReceipt != nil {
		current.ShowCommissionOnReceipt = *req.ShowCommissionOnReceipt
	}
	if req.ShowPendingCommission != nil {
		current.ShowPendingCommission = *req.ShowPendingCommission
	}

	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	return toResponse(updated), nil
}

func toResponse(s settings.Settings) settings.SettingsResponse {
	return settings.SettingsResponse{
		ID:                      s.ID,
		CompanyID:               s.CompanyID,
		DefaultCommissionRate:   s.DefaultCommissionRate,
		CalculationBasis:        string(s.CalculationBasis),
		PayoutFrequency:         string(s.PayoutFrequency),
		PayoutDay:               s.PayoutDay,
		MinimumPayoutAmount:     s.MinimumPayoutAmount,
		ApplyTaxWithholding:     s.ApplyTaxWithholding,
		TaxWithholdingRate:      s.TaxWithholdingRate,
		ShowCommissionOnReceipt: s.ShowCommissionOnReceipt,
		ShowPendingCommission:   s.ShowPendingCommission,
	}
}
