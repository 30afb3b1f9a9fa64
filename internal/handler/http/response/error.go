package response

import (
	"errors"
	"net/http"

	"github.com/ERPlora/commissions-backend-go/internal/domain/adjustment"
	"github.com/ERPlora/commissions-backend-go/internal/domain/payout"
	"github.com/ERPlora/commissions-backend-go/internal/domain/rule"
	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/domain/transaction"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Not found
	case errors.Is(err, rule.ErrRuleNotFound):
		NotFound(w, "Commission rule not found")
	case errors.Is(err, transaction.ErrTransactionNotFound):
		NotFound(w, "Commission transaction not found")
	case errors.Is(err, payout.ErrPayoutNotFound):
		NotFound(w, "Commission payout not found")
	case errors.Is(err, adjustment.ErrAdjustmentNotFound):
		NotFound(w, "Commission adjustment not found")
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Commission settings not found")

	// Referential conflicts
	case errors.Is(err, rule.ErrRuleInUse):
		Conflict(w, err.Error())
	case errors.Is(err, transaction.ErrTransactionInPayout):
		Conflict(w, err.Error())
	case errors.Is(err, adjustment.ErrAdjustmentLinked):
		Conflict(w, err.Error())

	// Invalid state transitions; the wrapped message names the current state
	case errors.Is(err, transaction.ErrTransactionNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, transaction.ErrTransactionPaid):
		Conflict(w, err.Error())
	case errors.Is(err, transaction.ErrTransactionNotCancellable):
		Conflict(w, err.Error())
	case errors.Is(err, payout.ErrPayoutNotModifiable):
		Conflict(w, err.Error())
	case errors.Is(err, payout.ErrPayoutNotProcessable):
		Conflict(w, err.Error())
	case errors.Is(err, payout.ErrPayoutCompleted):
		Conflict(w, err.Error())

	// Policy violations
	case errors.Is(err, payout.ErrNoEligibleTransactions):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payout.ErrBelowMinimumPayout):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
