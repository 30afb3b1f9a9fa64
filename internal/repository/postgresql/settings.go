package postgresql

import (
	"context"
	"errors"

	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.SettingsRepository.
func (s *settingsRepositoryImpl) Get(ctx context.Context, companyID string) (settings.Settings, error) {
	q := GetQuerier(ctx, s.db)
	query := `
		SELECT id, company_id, default_commission_rate, calculation_basis,
			   payout_frequency, payout_day, minimum_payout_amount,
			   apply_tax_withholding, tax_withholding_rate,
			   show_commission_on_receipt, show_pending_commission,
			   created_at, updated_at
		FROM commission_settings
		WHERE company_id = $1
	`

	var st settings.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&st.ID, &st.CompanyID, &st.DefaultCommissionRate, &st.CalculationBasis,
		&st.PayoutFrequency, &st.PayoutDay, &st.MinimumPayoutAmount,
		&st.ApplyTaxWithholding, &st.TaxWithholdingRate,
		&st.ShowCommissionOnReceipt, &st.ShowPendingCommission,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, err
	}

	return st, nil
}

// Upsert implements settings.SettingsRepository. One settings row per company,
// keyed by the company_id unique constraint.
func (s *settingsRepositoryImpl) Upsert(ctx context.Context, st settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, s.db)
	query := `
		INSERT INTO commission_settings (
			id, company_id, default_commission_rate, calculation_basis,
			payout_frequency, payout_day, minimum_payout_amount,
			apply_tax_withholding, tax_withholding_rate,
			show_commission_on_receipt, show_pending_commission,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
		ON CONFLICT (company_id) DO UPDATE SET
			default_commission_rate = EXCLUDED.default_commission_rate,
			calculation_basis = EXCLUDED.calculation_basis,
			payout_frequency = EXCLUDED.payout_frequency,
			payout_day = EXCLUDED.payout_day,
			minimum_payout_amount = EXCLUDED.minimum_payout_amount,
			apply_tax_withholding = EXCLUDED.apply_tax_withholding,
			tax_withholding_rate = EXCLUDED.tax_withholding_rate,
			show_commission_on_receipt = EXCLUDED.show_commission_on_receipt,
			show_pending_commission = EXCLUDED.show_pending_commission,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		st.CompanyID, st.DefaultCommissionRate, st.CalculationBasis,
		st.PayoutFrequency, st.PayoutDay, st.MinimumPayoutAmount,
		st.ApplyTaxWithholding, st.TaxWithholdingRate,
		st.ShowCommissionOnReceipt, st.ShowPendingCommission,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return settings.Settings{}, err
	}

	return st, nil
}
