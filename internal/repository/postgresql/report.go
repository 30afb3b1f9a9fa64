package postgresql

import (
	"context"

	"github.com/ERPlora/commissions-backend-go/internal/domain/report"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// StaffSummary implements report.ReportRepository. One round trip per
// aggregate group keeps the SQL readable; the report is read-only so the
// groups do not need to be snapshot-consistent with each other.
func (r *reportRepositoryImpl) StaffSummary(ctx context.Context, companyID string, staffID string, dr report.DateRange) (report.StaffSummary, error) {
	q := GetQuerier(ctx, r.db)

	dateCond := ""
	args := []interface{}{companyID, staffID}
	if dr.StartDate != nil {
		args = append(args, *dr.StartDate)
		dateCond += " AND transaction_date >= $3"
	}
	if dr.EndDate != nil {
		args = append(args, *dr.EndDate)
		if dr.StartDate != nil {
			dateCond += " AND transaction_date <= $4"
		} else {
			dateCond += " AND transaction_date <= $3"
		}
	}

	summary := report.StaffSummary{StaffID: staffID, StartDate: dr.StartDate, EndDate: dr.EndDate}

	query := `
		SELECT COALESCE(MAX(staff_name), ''),
			   COALESCE(SUM(sale_amount), 0),
			   COALESCE(SUM(commission_amount), 0),
			   COALESCE(SUM(net_commission), 0),
			   COALESCE(SUM(tax_amount), 0),
			   COUNT(*),
			   COALESCE(SUM(net_commission) FILTER (WHERE status = 'pending'), 0),
			   COUNT(*) FILTER (WHERE status = 'pending'),
			   COALESCE(SUM(net_commission) FILTER (WHERE status = 'paid'), 0),
			   COUNT(*) FILTER (WHERE status = 'paid')
		FROM commission_transactions
		WHERE company_id = $1 AND staff_id = $2` + dateCond

	err := q.QueryRow(ctx, query, args...).Scan(
		&summary.StaffName,
		&summary.TotalSales, &summary.TotalCommission, &summary.TotalNet, &summary.TotalTax,
		&summary.TransactionCount,
		&summary.PendingAmount, &summary.PendingCount,
		&summary.PaidAmount, &summary.PaidCount,
	)
	if err != nil {
		return report.StaffSummary{}, err
	}

	adjCond := ""
	adjArgs := []interface{}{companyID, staffID}
	if dr.StartDate != nil {
		adjArgs = append(adjArgs, *dr.StartDate)
		adjCond += " AND adjustment_date >= $3"
	}
	if dr.EndDate != nil {
		adjArgs = append(adjArgs, *dr.EndDate)
		if dr.StartDate != nil {
			adjCond += " AND adjustment_date <= $4"
		} else {
			adjCond += " AND adjustment_date <= $3"
		}
	}

	adjQuery := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM commission_adjustments
		WHERE company_id = $1 AND staff_id = $2` + adjCond

	if err := q.QueryRow(ctx, adjQuery, adjArgs...).Scan(&summary.AdjustmentTotal, &summary.AdjustmentCount); err != nil {
		return report.StaffSummary{}, err
	}

	return summary, nil
}

// PeriodTotals implements report.ReportRepository.
func (r *reportRepositoryImpl) PeriodTotals(ctx context.Context, companyID string, startDate, endDate string) (decimal.Decimal, decimal.Decimal, int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT COALESCE(SUM(commission_amount), 0),
			   COALESCE(SUM(net_commission), 0),
			   COUNT(*)
		FROM commission_transactions
		WHERE company_id = $1
		  AND transaction_date >= $2
		  AND transaction_date <= $3
	`
	var commission, net decimal.Decimal
	var count int64
	if err := q.QueryRow(ctx, query, companyID, startDate, endDate).Scan(&commission, &net, &count); err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}
	return commission, net, count, nil
}

// PendingCounts implements report.ReportRepository.
func (r *reportRepositoryImpl) PendingCounts(ctx context.Context, companyID string) (int64, int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT
			(SELECT COUNT(*) FROM commission_transactions WHERE company_id = $1 AND status = 'pending'),
			(SELECT COUNT(*) FROM commission_payouts WHERE company_id = $1 AND status = 'pending')
	`
	var pendingTransactions, pendingPayouts int64
	if err := q.QueryRow(ctx, query, companyID).Scan(&pendingTransactions, &pendingPayouts); err != nil {
		return 0, 0, err
	}
	return pendingTransactions, pendingPayouts, nil
}

// TopEarners implements report.ReportRepository.
func (r *reportRepositoryImpl) TopEarners(ctx context.Context, companyID string, startDate, endDate string, limit int) ([]report.TopEarner, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT staff_id, MAX(staff_name), SUM(net_commission) AS total_net
		FROM commission_transactions
		WHERE company_id = $1
		  AND status IN ('approved', 'paid')
		  AND transaction_date >= $2
		  AND transaction_date <= $3
		GROUP BY staff_id
		ORDER BY total_net DESC
		LIMIT $4
	`

	rows, err := q.Query(ctx, query, companyID, startDate, endDate, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earners []report.TopEarner
	for rows.Next() {
		var e report.TopEarner
		if err := rows.Scan(&e.StaffID, &e.StaffName, &e.NetCommission); err != nil {
			return nil, err
		}
		earners = append(earners, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return earners, nil
}

// PayoutTotalsByStatus implements report.ReportRepository.
func (r *reportRepositoryImpl) PayoutTotalsByStatus(ctx context.Context, companyID string, startDate, endDate string) ([]report.PayoutStatusTotal, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT status, COALESCE(SUM(net_amount), 0), COUNT(*)
		FROM commission_payouts
		WHERE company_id = $1
		  AND period_end >= $2
		  AND period_start <= $3
		GROUP BY status
		ORDER BY status
	`

	rows, err := q.Query(ctx, query, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []report.PayoutStatusTotal
	for rows.Next() {
		var t report.PayoutStatusTotal
		if err := rows.Scan(&t.Status, &t.NetAmount, &t.Count); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

// UnpaidTransactionAmount implements report.ReportRepository.
func (r *reportRepositoryImpl) UnpaidTransactionAmount(ctx context.Context, companyID string, staffID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT COALESCE(SUM(net_commission), 0)
		FROM commission_transactions
		WHERE company_id = $1 AND staff_id = $2
		  AND status = 'approved' AND payout_id IS NULL
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, companyID, staffID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// UnpaidAdjustmentAmount implements report.ReportRepository.
func (r *reportRepositoryImpl) UnpaidAdjustmentAmount(ctx context.Context, companyID string, staffID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM commission_adjustments
		WHERE company_id = $1 AND staff_id = $2 AND payout_id IS NULL
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, companyID, staffID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
