package report

import (
	"context"
	"testing"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/report"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "0191e4a0-0000-7000-8000-000000000001"
	testStaffID   = "0191e4a0-0000-7000-8000-000000000002"
)

func claimsContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"type":       "access",
		"company_id": testCompanyID,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeReportRepo struct {
	summary           report.StaffSummary
	unpaidTransaction decimal.Decimal
	unpaidAdjustment  decimal.Decimal

	periodStart string
	periodEnd   string
}

func (r *fakeReportRepo) StaffSummary(_ context.Context, _ string, staffID string, _ report.DateRange) (report.StaffSummary, error) {
	s := r.summary
	s.StaffID = staffID
	return s, nil
}

func (r *fakeReportRepo) PeriodTotals(_ context.Context, _ string, startDate, endDate string) (decimal.Decimal, decimal.Decimal, int64, error) {
	r.periodStart = startDate
	r.periodEnd = endDate
	return decimal.Zero, decimal.Zero, 0, nil
}

func (r *fakeReportRepo) PendingCounts(_ context.Context, _ string) (int64, int64, error) {
	return 2, 1, nil
}

func (r *fakeReportRepo) TopEarners(_ context.Context, _ string, _, _ string, limit int) ([]report.TopEarner, error) {
	earners := []report.TopEarner{
		{StaffID: testStaffID, StaffName: "Dana Reyes", NetCommission: decimal.RequireFromString("120")},
	}
	if limit < len(earners) {
		earners = earners[:limit]
	}
	return earners, nil
}

func (r *fakeReportRepo) PayoutTotalsByStatus(_ context.Context, _ string, _, _ string) ([]report.PayoutStatusTotal, error) {
	return nil, nil
}

func (r *fakeReportRepo) UnpaidTransactionAmount(_ context.Context, _ string, _ string) (decimal.Decimal, error) {
	return r.unpaidTransaction, nil
}

func (r *fakeReportRepo) UnpaidAdjustmentAmount(_ context.Context, _ string, _ string) (decimal.Decimal, error) {
	return r.unpaidAdjustment, nil
}

type fakeStaffRepo struct{}

func (fakeStaffRepo) GetByID(_ context.Context, id string, companyID string) (staff.Staff, error) {
	if id != testStaffID || companyID != testCompanyID {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return staff.Staff{ID: id, CompanyID: companyID, FullName: "Dana Reyes", IsActive: true}, nil
}

func TestStaffSummary_FillsNameWhenNoTransactions(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := NewReportService(&fakeReportRepo{}, fakeStaffRepo{})

	summary, err := svc.StaffSummary(ctx, testStaffID, report.DateRange{})
	require.NoError(t, err)

	// No transactions means no stored name snapshot; the staff record fills it.
	assert.Equal(t, "Dana Reyes", summary.StaffName)
	assert.Equal(t, testStaffID, summary.StaffID)
}

func TestStaffSummary_UnknownStaff(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeReportRepo{}, fakeStaffRepo{})

	_, err := svc.StaffSummary(claimsContext(t), "0191e4a0-0000-7000-8000-00000000dead", report.DateRange{})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestStaffSummary_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeReportRepo{}, fakeStaffRepo{})

	start := "2026-03-31"
	end := "2026-03-01"
	_, err := svc.StaffSummary(claimsContext(t), testStaffID, report.DateRange{StartDate: &start, EndDate: &end})
	assert.Error(t, err)
}

func TestDashboardStats_DefaultPeriod(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := &fakeReportRepo{}
	svc := NewReportService(repo, fakeStaffRepo{})

	stats, err := svc.DashboardStats(ctx, report.DateRange{})
	require.NoError(t, err)

	now := time.Now()
	wantStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	assert.Equal(t, wantStart, stats.StartDate)
	assert.Equal(t, now.Format("2006-01-02"), stats.EndDate)
	assert.Equal(t, wantStart, repo.periodStart)

	assert.Equal(t, int64(2), stats.PendingTransactionCount)
	assert.Equal(t, int64(1), stats.PendingPayoutCount)
	require.Len(t, stats.TopEarners, 1)
	assert.Equal(t, "Dana Reyes", stats.TopEarners[0].StaffName)
}

func TestDashboardStats_ExplicitPeriod(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := &fakeReportRepo{}
	svc := NewReportService(repo, fakeStaffRepo{})

	start := "2026-01-01"
	end := "2026-01-31"
	stats, err := svc.DashboardStats(ctx, report.DateRange{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, start, stats.StartDate)
	assert.Equal(t, end, stats.EndDate)
	assert.Equal(t, start, repo.periodStart)
	assert.Equal(t, end, repo.periodEnd)
}

func TestUnpaidBalance(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := &fakeReportRepo{
		unpaidTransaction: decimal.RequireFromString("90"),
		unpaidAdjustment:  decimal.RequireFromString("-15"),
	}
	svc := NewReportService(repo, fakeStaffRepo{})

	balance, err := svc.UnpaidBalance(ctx, testStaffID)
	require.NoError(t, err)

	assert.Equal(t, "90.00", balance.TransactionAmount.StringFixed(2))
	assert.Equal(t, "-15.00", balance.AdjustmentAmount.StringFixed(2))
	assert.Equal(t, "75.00", balance.TotalUnpaid.StringFixed(2))
}
