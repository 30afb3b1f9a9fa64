package report

import "context"

// ReportService defines the interface for commission reporting
type ReportService interface {
	// StaffSummary returns a staff member's commission totals and breakdowns,
	// optionally bounded by a date range.
	StaffSummary(ctx context.Context, staffID string, dr DateRange) (StaffSummary, error)

	// DashboardStats returns the company-wide overview. An empty range
	// defaults to the first day of the current month through today.
	DashboardStats(ctx context.Context, dr DateRange) (DashboardStats, error)

	// UnpaidBalance returns the staff member's earned-but-not-paid amount.
	UnpaidBalance(ctx context.Context, staffID string) (UnpaidBalance, error)
}
