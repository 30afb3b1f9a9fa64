package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReportRepository defines read-only aggregate queries over commission data.
// All methods include companyID to prevent cross-company data access.
type ReportRepository interface {
	// Staff Summary Report
	StaffSummary(ctx context.Context, companyID string, staffID string, dr DateRange) (StaffSummary, error)

	// Dashboard Overview
	PeriodTotals(ctx context.Context, companyID string, startDate, endDate string) (commission, net decimal.Decimal, count int64, err error)
	PendingCounts(ctx context.Context, companyID string) (pendingTransactions, pendingPayouts int64, err error)
	TopEarners(ctx context.Context, companyID string, startDate, endDate string, limit int) ([]TopEarner, error)
	PayoutTotalsByStatus(ctx context.Context, companyID string, startDate, endDate string) ([]PayoutStatusTotal, error)

	// Unpaid Balance
	UnpaidTransactionAmount(ctx context.Context, companyID string, staffID string) (decimal.Decimal, error)
	UnpaidAdjustmentAmount(ctx context.Context, companyID string, staffID string) (decimal.Decimal, error)
}
