package report

import (
	"context"
	"fmt"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/report"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/go-chi/jwtauth/v5"
)

const topEarnerLimit = 5

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	staffRepo  staff.StaffRepository
}

func NewReportService(reportRepo report.ReportRepository, staffRepo staff.StaffRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		staffRepo:  staffRepo,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *ReportServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// StaffSummary generates the per-staff commission summary
func (s *ReportServiceImpl) StaffSummary(ctx context.Context, staffID string, dr report.DateRange) (report.StaffSummary, error) {
	if err := dr.Validate(); err != nil {
		return report.StaffSummary{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.StaffSummary{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, staffID, companyID)
	if err != nil {
		return report.StaffSummary{}, err
	}

	summary, err := s.reportRepo.StaffSummary(ctx, companyID, staffID, dr)
	if err != nil {
		return report.StaffSummary{}, err
	}

	// A staff member without any transactions yet has no stored name snapshot
	// to aggregate over.
	if summary.StaffName == "" {
		summary.StaffName = member.FullName
	}

	return summary, nil
}

// DashboardStats generates the company-wide commission overview
func (s *ReportServiceImpl) DashboardStats(ctx context.Context, dr report.DateRange) (report.DashboardStats, error) {
	if err := dr.Validate(); err != nil {
		return report.DashboardStats{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.DashboardStats{}, err
	}

	// Default period: first of the current month through today.
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	endDate := now.Format("2006-01-02")
	if dr.StartDate != nil {
		startDate = *dr.StartDate
	}
	if dr.EndDate != nil {
		endDate = *dr.EndDate
	}

	stats := report.DashboardStats{
		StartDate: startDate,
		EndDate:   endDate,
	}

	commission, net, count, err := s.reportRepo.PeriodTotals(ctx, companyID, startDate, endDate)
	if err != nil {
		return report.DashboardStats{}, err
	}
	stats.TotalCommission = commission
	stats.TotalNet = net
	stats.TransactionCount = count

	pendingTransactions, pendingPayouts, err := s.reportRepo.PendingCounts(ctx, companyID)
	if err != nil {
		return report.DashboardStats{}, err
	}
	stats.PendingTransactionCount = pendingTransactions
	stats.PendingPayoutCount = pendingPayouts

	earners, err := s.reportRepo.TopEarners(ctx, companyID, startDate, endDate, topEarnerLimit)
	if err != nil {
		return report.DashboardStats{}, err
	}
	stats.TopEarners = earners

	payoutTotals, err := s.reportRepo.PayoutTotalsByStatus(ctx, companyID, startDate, endDate)
	if err != nil {
		return report.DashboardStats{}, err
	}
	stats.PayoutTotals = payoutTotals

	return stats, nil
}

// UnpaidBalance computes the earned-but-not-paid amount for a staff member
func (s *ReportServiceImpl) UnpaidBalance(ctx context.Context, staffID string) (report.UnpaidBalance, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.UnpaidBalance{}, err
	}

	if _, err := s.staffRepo.GetByID(ctx, staffID, companyID); err != nil {
		return report.UnpaidBalance{}, err
	}

	transactionAmount, err := s.reportRepo.UnpaidTransactionAmount(ctx, companyID, staffID)
	if err != nil {
		return report.UnpaidBalance{}, err
	}

	adjustmentAmount, err := s.reportRepo.UnpaidAdjustmentAmount(ctx, companyID, staffID)
	if err != nil {
		return report.UnpaidBalance{}, err
	}

	return report.UnpaidBalance{
		StaffID:           staffID,
		TransactionAmount: transactionAmount,
		AdjustmentAmount:  adjustmentAmount,
		TotalUnpaid:       transactionAmount.Add(adjustmentAmount),
	}, nil
}
