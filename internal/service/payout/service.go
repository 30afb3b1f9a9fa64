package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/payout"
	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type PayoutServiceImpl struct {
	tx           postgresql.TxRunner
	payoutRepo   payout.PayoutRepository
	staffRepo    staff.StaffRepository
	settingsRepo settings.SettingsRepository
}

func NewPayoutService(
	tx postgresql.TxRunner,
	payoutRepo payout.PayoutRepository,
	staffRepo staff.StaffRepository,
	settingsRepo settings.SettingsRepository,
) payout.PayoutService {
	return &PayoutServiceImpl{
		tx:           tx,
		payoutRepo:   payoutRepo,
		staffRepo:    staffRepo,
		settingsRepo: settingsRepo,
	}
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

// CreatePayout implements payout.PayoutService. The whole sequence runs inside
// one database transaction: the FOR UPDATE select and the conditional claim
// together guarantee a transaction row lands in at most one payout, and the
// advisory lock keeps the monthly reference sequence gapless per company.
func (s *PayoutServiceImpl) CreatePayout(ctx context.Context, req payout.CreatePayoutRequest) (payout.PayoutResponse, error) {
	if err := req.Validate(); err != nil {
		return payout.PayoutResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	member, err := s.staffRepo.GetByID(ctx, req.StaffID, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	current, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return payout.PayoutResponse{}, err
		}
		current = settings.Default(companyID)
	}

	var created payout.Payout
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		eligible, err := s.payoutRepo.SelectEligibleForUpdate(txCtx, companyID, req.StaffID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return payout.ErrNoEligibleTransactions
		}

		gross, tax := decimal.Zero, decimal.Zero
		ids := make([]string, 0, len(eligible))
		for _, et := range eligible {
			gross = gross.Add(et.CommissionAmount)
			tax = tax.Add(et.TaxAmount)
			ids = append(ids, et.ID)
		}

		// The minimum compares the gross commission, before tax.
		if current.MinimumPayoutAmount.IsPositive() && gross.LessThan(current.MinimumPayoutAmount) {
			return fmt.Errorf("%w: gross %s is below minimum %s",
				payout.ErrBelowMinimumPayout, gross.StringFixed(2), current.MinimumPayoutAmount.StringFixed(2))
		}

		reference, err := s.nextReference(txCtx, companyID)
		if err != nil {
			return err
		}

		p := payout.Payout{
			CompanyID:        companyID,
			Reference:        reference,
			StaffID:          req.StaffID,
			StaffName:        member.FullName,
			PeriodStart:      periodStart,
			PeriodEnd:        periodEnd,
			GrossAmount:      gross,
			TaxAmount:        tax,
			Adjustments:      decimal.Zero,
			NetAmount:        gross.Sub(tax),
			TransactionCount: len(ids),
			Status:           payout.StatusPending,
			Notes:            req.Notes,
		}

		created, err = s.payoutRepo.Create(txCtx, p)
		if err != nil {
			return err
		}

		claimed, err := s.payoutRepo.ClaimTransactions(txCtx, companyID, created.ID, ids)
		if err != nil {
			return err
		}
		if claimed != int64(len(ids)) {
			// Another writer changed one of the rows between select and
			// claim. Rolling back leaves no side effects.
			return payout.ErrNoEligibleTransactions
		}

		return nil
	})
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	return toResponse(created), nil
}

// nextReference derives PAY-YYYYMM-NNNN for the current month. The advisory
// lock serializes concurrent generations within the company+month scope, so
// count+1 cannot collide.
func (s *PayoutServiceImpl) nextReference(ctx context.Context, companyID string) (string, error) {
	prefix := "PAY-" + time.Now().Format("200601") + "-"

	if err := s.payoutRepo.LockReferenceScope(ctx, companyID, prefix); err != nil {
		return "", err
	}

	count, err := s.payoutRepo.CountReferencesWithPrefix(ctx, companyID, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *PayoutServiceImpl) GetPayout(ctx context.Context, id string) (payout.PayoutResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	return toResponse(p), nil
}

func (s *PayoutServiceImpl) ListPayouts(ctx context.Context, filter payout.PayoutFilter) (payout.ListPayoutsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.ListPayoutsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	payouts, totalCount, err := s.payoutRepo.List(ctx, companyID, filter)
	if err != nil {
		return payout.ListPayoutsResponse{}, err
	}

	responses := make([]payout.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		responses = append(responses, toResponse(p))
	}

	return payout.ListPayoutsResponse{
		Data:       responses,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayoutServiceImpl) ApprovePayout(ctx context.Context, id string) (payout.PayoutResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}
	if !p.CanBeModified() {
		return payout.PayoutResponse{}, fmt.Errorf("%w: current status is %s", payout.ErrPayoutNotModifiable, p.Status)
	}

	var approvedBy *string
	if userID != "" {
		approvedBy = &userID
	}

	approvedAt := time.Now()
	if err := s.payoutRepo.SetApproved(ctx, id, companyID, approvedBy, approvedAt); err != nil {
		return payout.PayoutResponse{}, err
	}

	p.Status = payout.StatusApproved
	p.ApprovedAt = &approvedAt
	p.ApprovedByID = approvedBy
	return toResponse(p), nil
}

// ProcessPayout marks the payout completed and cascades its transactions to
// paid, atomically.
func (s *PayoutServiceImpl) ProcessPayout(ctx context.Context, id string, req payout.ProcessPayoutRequest) (payout.PayoutResponse, error) {
	if err := req.Validate(); err != nil {
		return payout.PayoutResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}
	if !p.CanBeProcessed() {
		return payout.PayoutResponse{}, fmt.Errorf("%w: current status is %s", payout.ErrPayoutNotProcessable, p.Status)
	}

	var paidBy *string
	if userID != "" {
		paidBy = &userID
	}

	method := payout.PaymentMethod(req.PaymentMethod)
	paidAt := time.Now()

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.payoutRepo.SetCompleted(txCtx, id, companyID, method, req.PaymentReference, paidBy, paidAt); err != nil {
			return err
		}
		if _, err := s.payoutRepo.MarkTransactionsPaid(txCtx, id, companyID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p.Status = payout.StatusCompleted
	p.PaymentMethod = &method
	p.PaymentReference = req.PaymentReference
	p.PaidAt = &paidAt
	p.PaidByID = paidBy
	return toResponse(p), nil
}

// CancelPayout releases the linked transactions back to approved and unlinked,
// then cancels the payout, atomically. Completed payouts stay immutable.
func (s *PayoutServiceImpl) CancelPayout(ctx context.Context, id string, req payout.CancelPayoutRequest) (payout.PayoutResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}
	if p.Status == payout.StatusCompleted {
		return payout.PayoutResponse{}, fmt.Errorf("%w: completed payouts cannot be cancelled", payout.ErrPayoutCompleted)
	}

	notes := appendReason(p.Notes, "Cancellation reason", req.Reason)

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.payoutRepo.ReleaseTransactions(txCtx, id, companyID); err != nil {
			return err
		}
		if err := s.payoutRepo.SetCancelled(txCtx, id, companyID, notes); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p.Status = payout.StatusCancelled
	p.Notes = notes
	return toResponse(p), nil
}

// RecalculateTotals re-derives the stored aggregates from the linked rows.
// It exists to repair drift after manual data fixes and is safe to run any
// number of times.
func (s *PayoutServiceImpl) RecalculateTotals(ctx context.Context, id string) (payout.PayoutResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	if _, err := s.payoutRepo.GetByID(ctx, id, companyID); err != nil {
		return payout.PayoutResponse{}, err
	}

	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		totals, err := s.payoutRepo.AggregateLinked(txCtx, id, companyID)
		if err != nil {
			return err
		}
		adjustments, err := s.payoutRepo.SumLinkedAdjustments(txCtx, id, companyID)
		if err != nil {
			return err
		}

		net := totals.Gross.Sub(totals.Tax).Add(adjustments)
		return s.payoutRepo.UpdateTotals(txCtx, id, companyID, totals, adjustments, net)
	})
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payout.PayoutResponse{}, err
	}

	return toResponse(p), nil
}

func appendReason(notes, label, reason string) string {
	if strings.TrimSpace(reason) == "" {
		return notes
	}
	entry := label + ": " + reason
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

func toResponse(p payout.Payout) payout.PayoutResponse {
	resp := payout.PayoutResponse{
		ID:               p.ID,
		CompanyID:        p.CompanyID,
		Reference:        p.Reference,
		StaffID:          p.StaffID,
		StaffName:        p.StaffName,
		PeriodStart:      p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        p.PeriodEnd.Format("2006-01-02"),
		GrossAmount:      p.GrossAmount,
		TaxAmount:        p.TaxAmount,
		Adjustments:      p.Adjustments,
		NetAmount:        p.NetAmount,
		TransactionCount: p.TransactionCount,
		Status:           string(p.Status),
		PaymentReference: p.PaymentReference,
		Notes:            p.Notes,
	}
	if p.PaymentMethod != nil {
		method := string(*p.PaymentMethod)
		resp.PaymentMethod = &method
	}
	if p.ApprovedAt != nil {
		approvedAt := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	resp.ApprovedByID = p.ApprovedByID
	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	resp.PaidByID = p.PaidByID
	return resp
}
