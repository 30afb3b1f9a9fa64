package payout

import (
	"context"
	"testing"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/payout"
	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "0191e4a0-0000-7000-8000-000000000001"
	testStaffID   = "0191e4a0-0000-7000-8000-000000000002"
	testUserID    = "0191e4a0-0000-7000-8000-000000000003"
)

func claimsContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"type":       "access",
		"company_id": testCompanyID,
		"user_id":    testUserID,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ===== FAKE REPOSITORIES =====

// inlineTxRunner executes the unit of work on the caller's context and
// records whether it would have rolled back.
type inlineTxRunner struct {
	rolledBack bool
}

func (r *inlineTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		r.rolledBack = true
		return err
	}
	return nil
}

type fakePayoutRepo struct {
	byID map[string]payout.Payout

	eligible []payout.EligibleTransaction
	refCount int64

	// claimShortfall makes ClaimTransactions report fewer rows than asked,
	// as when a concurrent aggregation claimed one of them first.
	claimShortfall int64
	claimedIDs     []string
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{byID: make(map[string]payout.Payout)}
}

func (r *fakePayoutRepo) put(p payout.Payout) payout.Payout {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.byID[p.ID] = p
	return p
}

func (r *fakePayoutRepo) Create(_ context.Context, p payout.Payout) (payout.Payout, error) {
	return r.put(p), nil
}

func (r *fakePayoutRepo) GetByID(_ context.Context, id string, companyID string) (payout.Payout, error) {
	p, ok := r.byID[id]
	if !ok || p.CompanyID != companyID {
		return payout.Payout{}, payout.ErrPayoutNotFound
	}
	return p, nil
}

func (r *fakePayoutRepo) List(_ context.Context, companyID string, _ payout.PayoutFilter) ([]payout.Payout, int64, error) {
	var out []payout.Payout
	for _, p := range r.byID {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePayoutRepo) SelectEligibleForUpdate(_ context.Context, _, _ string, _, _ time.Time) ([]payout.EligibleTransaction, error) {
	return r.eligible, nil
}

func (r *fakePayoutRepo) ClaimTransactions(_ context.Context, _, _ string, ids []string) (int64, error) {
	r.claimedIDs = append(r.claimedIDs, ids...)
	return int64(len(ids)) - r.claimShortfall, nil
}

func (r *fakePayoutRepo) LockReferenceScope(_ context.Context, _, _ string) error {
	return nil
}

func (r *fakePayoutRepo) CountReferencesWithPrefix(_ context.Context, _, _ string) (int64, error) {
	return r.refCount, nil
}

func (r *fakePayoutRepo) SetApproved(_ context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error {
	p, ok := r.byID[id]
	if !ok || p.CompanyID != companyID {
		return payout.ErrPayoutNotFound
	}
	p.Status = payout.StatusApproved
	p.ApprovedAt = &approvedAt
	p.ApprovedByID = approvedByID
	r.byID[id] = p
	return nil
}

func (r *fakePayoutRepo) SetCompleted(_ context.Context, id string, companyID string, method payout.PaymentMethod, paymentReference string, paidByID *string, paidAt time.Time) error {
	p, ok := r.byID[id]
	if !ok || p.CompanyID != companyID {
		return payout.ErrPayoutNotFound
	}
	p.Status = payout.StatusCompleted
	p.PaymentMethod = &method
	p.PaymentReference = paymentReference
	p.PaidAt = &paidAt
	p.PaidByID = paidByID
	r.byID[id] = p
	return nil
}

func (r *fakePayoutRepo) SetCancelled(_ context.Context, id string, companyID string, notes string) error {
	p, ok := r.byID[id]
	if !ok || p.CompanyID != companyID {
		return payout.ErrPayoutNotFound
	}
	p.Status = payout.StatusCancelled
	p.Notes = notes
	r.byID[id] = p
	return nil
}

func (r *fakePayoutRepo) MarkTransactionsPaid(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

func (r *fakePayoutRepo) ReleaseTransactions(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

func (r *fakePayoutRepo) AggregateLinked(_ context.Context, _, _ string) (payout.LinkedTotals, error) {
	return payout.LinkedTotals{}, nil
}

func (r *fakePayoutRepo) SumLinkedAdjustments(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakePayoutRepo) UpdateTotals(_ context.Context, _, _ string, _ payout.LinkedTotals, _, _ decimal.Decimal) error {
	return nil
}

type fakeStaffRepo struct{}

func (fakeStaffRepo) GetByID(_ context.Context, id string, companyID string) (staff.Staff, error) {
	if id != testStaffID || companyID != testCompanyID {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return staff.Staff{ID: id, CompanyID: companyID, FullName: "Dana Reyes", IsActive: true}, nil
}

type fakeSettingsRepo struct {
	stored *settings.Settings
}

func (r *fakeSettingsRepo) Get(_ context.Context, companyID string) (settings.Settings, error) {
	if r.stored == nil || r.stored.CompanyID != companyID {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return *r.stored, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, s settings.Settings) (settings.Settings, error) {
	r.stored = &s
	return s, nil
}

// ===== PAYOUT SERVICE TESTS =====

func newTestService(repo *fakePayoutRepo) payout.PayoutService {
	return NewPayoutService(&inlineTxRunner{}, repo, fakeStaffRepo{}, &fakeSettingsRepo{})
}

func eligibleRow(commission, tax string) payout.EligibleTransaction {
	c := decimal.RequireFromString(commission)
	tx := decimal.RequireFromString(tax)
	return payout.EligibleTransaction{
		ID:               uuid.NewString(),
		CommissionAmount: c,
		TaxAmount:        tx,
		NetCommission:    c.Sub(tx),
	}
}

func TestCreatePayout_ValidatesPeriod(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakePayoutRepo())

	_, err := svc.CreatePayout(claimsContext(t), payout.CreatePayoutRequest{
		StaffID:     testStaffID,
		PeriodStart: "2026-03-31",
		PeriodEnd:   "2026-03-01",
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "period_end")
}

func TestCreatePayout(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	repo.eligible = []payout.EligibleTransaction{
		eligibleRow("60", "6"),
		eligibleRow("40", "4"),
	}
	repo.refCount = 2

	svc := newTestService(repo)

	resp, err := svc.CreatePayout(ctx, payout.CreatePayoutRequest{
		StaffID:     testStaffID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Dana Reyes", resp.StaffName)
	assert.Equal(t, "100.00", resp.GrossAmount.StringFixed(2))
	assert.Equal(t, "10.00", resp.TaxAmount.StringFixed(2))
	assert.Equal(t, "90.00", resp.NetAmount.StringFixed(2))
	assert.Equal(t, 2, resp.TransactionCount)
	assert.Equal(t, "PAY-"+time.Now().Format("200601")+"-0003", resp.Reference)

	// Every selected row was claimed into the new payout.
	assert.Len(t, repo.claimedIDs, 2)
}

func TestCreatePayout_NoEligibleTransactions(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	runner := &inlineTxRunner{}
	svc := NewPayoutService(runner, repo, fakeStaffRepo{}, &fakeSettingsRepo{})

	_, err := svc.CreatePayout(ctx, payout.CreatePayoutRequest{
		StaffID:     testStaffID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})
	assert.ErrorIs(t, err, payout.ErrNoEligibleTransactions)

	// Nothing was persisted before the failure.
	assert.Empty(t, repo.byID)
	assert.True(t, runner.rolledBack)
}

func TestCreatePayout_BelowMinimum(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	configured := settings.Default(testCompanyID)
	configured.MinimumPayoutAmount = decimal.RequireFromString("100")

	repo := newFakePayoutRepo()
	repo.eligible = []payout.EligibleTransaction{eligibleRow("40", "4")}
	runner := &inlineTxRunner{}
	svc := NewPayoutService(runner, repo, fakeStaffRepo{}, &fakeSettingsRepo{stored: &configured})

	_, err := svc.CreatePayout(ctx, payout.CreatePayoutRequest{
		StaffID:     testStaffID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})
	assert.ErrorIs(t, err, payout.ErrBelowMinimumPayout)
	assert.True(t, runner.rolledBack)
}

func TestCreatePayout_ConcurrentClaimRollsBack(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	// A concurrent aggregation claimed one of the selected rows first, so
	// the conditional claim updates fewer rows than selected.
	repo := newFakePayoutRepo()
	repo.eligible = []payout.EligibleTransaction{
		eligibleRow("60", "6"),
		eligibleRow("40", "4"),
	}
	repo.claimShortfall = 1

	runner := &inlineTxRunner{}
	svc := NewPayoutService(runner, repo, fakeStaffRepo{}, &fakeSettingsRepo{})

	_, err := svc.CreatePayout(ctx, payout.CreatePayoutRequest{
		StaffID:     testStaffID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})
	assert.ErrorIs(t, err, payout.ErrNoEligibleTransactions)
	assert.True(t, runner.rolledBack)
}

func TestApprovePayout(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	created := repo.put(payout.Payout{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    payout.StatusPending,
	})

	svc := newTestService(repo)

	resp, err := svc.ApprovePayout(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, testUserID, *resp.ApprovedByID)

	// Approved payouts cannot be approved again.
	_, err = svc.ApprovePayout(ctx, created.ID)
	assert.ErrorIs(t, err, payout.ErrPayoutNotModifiable)
}

func TestProcessPayout_CompletedIsRejected(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	created := repo.put(payout.Payout{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    payout.StatusCompleted,
	})

	svc := newTestService(repo)

	_, err := svc.ProcessPayout(ctx, created.ID, payout.ProcessPayoutRequest{PaymentMethod: "bank_transfer"})
	assert.ErrorIs(t, err, payout.ErrPayoutNotProcessable)
}

func TestProcessPayout_ValidatesPaymentMethod(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakePayoutRepo())

	_, err := svc.ProcessPayout(ctx, "payout-1", payout.ProcessPayoutRequest{PaymentMethod: "barter"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestCancelPayout_CompletedIsImmutable(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	created := repo.put(payout.Payout{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    payout.StatusCompleted,
	})

	svc := newTestService(repo)

	_, err := svc.CancelPayout(ctx, created.ID, payout.CancelPayoutRequest{Reason: "mistake"})
	assert.ErrorIs(t, err, payout.ErrPayoutCompleted)
}

func TestGetPayout_CrossCompanyIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakePayoutRepo()
	created := repo.put(payout.Payout{
		CompanyID: "0191e4a0-0000-7000-8000-0000000000ff",
		StaffID:   testStaffID,
		Status:    payout.StatusPending,
	})

	svc := newTestService(repo)

	_, err := svc.GetPayout(ctx, created.ID)
	assert.ErrorIs(t, err, payout.ErrPayoutNotFound)
}

func TestListPayouts_PaginationDefaults(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakePayoutRepo())

	resp, err := svc.ListPayouts(ctx, payout.PayoutFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}
