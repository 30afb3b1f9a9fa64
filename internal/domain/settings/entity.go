package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationBasis enum - which monetary figure percentage rates apply to.
type CalculationBasis string

const (
	BasisGross  CalculationBasis = "gross"
	BasisNet    CalculationBasis = "net"
	BasisProfit CalculationBasis = "profit"
)

// PayoutFrequency enum
type PayoutFrequency string

const (
	FrequencyWeekly   PayoutFrequency = "weekly"
	FrequencyBiweekly PayoutFrequency = "biweekly"
	FrequencyMonthly  PayoutFrequency = "monthly"
	FrequencyCustom   PayoutFrequency = "custom"
)

var hundred = decimal.NewFromInt(100)

// Settings - per-company commissions configuration, one row per company.
type Settings struct {
	ID                      string
	CompanyID               string
	DefaultCommissionRate   decimal.Decimal
	CalculationBasis        CalculationBasis
	PayoutFrequency         PayoutFrequency
	PayoutDay               int
	MinimumPayoutAmount     decimal.Decimal
	ApplyTaxWithholding     bool
	TaxWithholdingRate      decimal.Decimal
	ShowCommissionOnReceipt bool
	ShowPendingCommission   bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Default returns the settings a company starts with before any explicit
// update.
func Default(companyID string) Settings {
	return Settings{
		CompanyID:             companyID,
		DefaultCommissionRate: decimal.NewFromInt(10),
		CalculationBasis:      BasisNet,
		PayoutFrequency:       FrequencyMonthly,
		PayoutDay:             1,
		MinimumPayoutAmount:   decimal.Zero,
		ApplyTaxWithholding:   false,
		TaxWithholdingRate:    decimal.Zero,
		ShowPendingCommission: true,
	}
}

// SplitTax applies the configured withholding to a commission amount and
// returns the (net, tax) pair. When withholding is disabled or the rate is
// not positive the commission passes through untouched. The split is computed
// once at transaction creation and frozen into the record; later settings
// changes never alter existing transactions.
func (s Settings) SplitTax(commission decimal.Decimal) (net decimal.Decimal, tax decimal.Decimal) {
	if !s.ApplyTaxWithholding || !s.TaxWithholdingRate.IsPositive() {
		return commission, decimal.Zero
	}

	tax = commission.Mul(s.TaxWithholdingRate).Div(hundred).Round(2)
	net = commission.Sub(tax)
	return net, tax
}
