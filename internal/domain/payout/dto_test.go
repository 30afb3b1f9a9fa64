package payout

import (
	"testing"

	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayoutRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := CreatePayoutRequest{
		StaffID:     "staff-1",
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	}
	assert.NoError(t, valid.Validate())

	sameDay := CreatePayoutRequest{
		StaffID:     "staff-1",
		PeriodStart: "2026-03-15",
		PeriodEnd:   "2026-03-15",
	}
	assert.NoError(t, sameDay.Validate(), "single-day periods are allowed")

	inverted := CreatePayoutRequest{
		StaffID:     "staff-1",
		PeriodStart: "2026-03-31",
		PeriodEnd:   "2026-03-01",
	}
	err := inverted.Validate()
	require.Error(t, err)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "period_end")

	empty := CreatePayoutRequest{}
	err = empty.Validate()
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "staff_id")
	assert.Contains(t, fields, "period_start")
	assert.Contains(t, fields, "period_end")
}

func TestProcessPayoutRequest_Validate(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"cash", "bank_transfer", "check", "payroll", "other"} {
		req := ProcessPayoutRequest{PaymentMethod: method}
		assert.NoError(t, req.Validate(), method)
	}

	bad := ProcessPayoutRequest{PaymentMethod: "crypto"}
	assert.Error(t, bad.Validate())

	missing := ProcessPayoutRequest{}
	assert.Error(t, missing.Validate())
}
