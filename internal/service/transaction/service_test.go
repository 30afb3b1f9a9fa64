package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/domain/transaction"
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

type fakeTransactionRepo struct {
	byID map[string]transaction.Transaction

	// claimOnCancel links the row to a payout inside SetCancelled, as a
	// concurrent aggregation would between the service's read and its write.
	claimOnCancel map[string]string
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byID: make(map[string]transaction.Transaction)}
}

func (r *fakeTransactionRepo) put(t transaction.Transaction) transaction.Transaction {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	r.byID[t.ID] = t
	return t
}

func (r *fakeTransactionRepo) Create(_ context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	return r.put(t), nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id string, companyID string) (transaction.Transaction, error) {
	t, ok := r.byID[id]
	if !ok || t.CompanyID != companyID {
		return transaction.Transaction{}, transaction.ErrTransactionNotFound
	}
	return t, nil
}

func (r *fakeTransactionRepo) List(_ context.Context, companyID string, _ transaction.TransactionFilter) ([]transaction.Transaction, int64, error) {
	var out []transaction.Transaction
	for _, t := range r.byID {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) SetApproved(_ context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error {
	t, ok := r.byID[id]
	if !ok || t.CompanyID != companyID || t.Status != transaction.StatusPending {
		return transaction.ErrTransactionNotPending
	}
	t.Status = transaction.StatusApproved
	t.ApprovedAt = &approvedAt
	t.ApprovedByID = approvedByID
	r.byID[id] = t
	return nil
}

func (r *fakeTransactionRepo) SetCancelled(_ context.Context, id string, companyID string, notes string) error {
	t, ok := r.byID[id]
	if pid, claimed := r.claimOnCancel[id]; ok && claimed {
		t.PayoutID = &pid
		r.byID[id] = t
	}
	if !ok || t.CompanyID != companyID || t.PayoutID != nil ||
		(t.Status != transaction.StatusPending && t.Status != transaction.StatusApproved) {
		return transaction.ErrTransactionNotCancellable
	}
	t.Status = transaction.StatusCancelled
	t.Notes = notes
	r.byID[id] = t
	return nil
}

type fakeStaffRepo struct {
	byID map[string]staff.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byID: map[string]staff.Staff{
		testStaffID: {ID: testStaffID, CompanyID: testCompanyID, FullName: "Dana Reyes", IsActive: true},
	}}
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string, companyID string) (staff.Staff, error) {
	m, ok := r.byID[id]
	if !ok || m.CompanyID != companyID {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return m, nil
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

// ===== TRANSACTION SERVICE TESTS =====

func newTestService(txRepo *fakeTransactionRepo, settingsRepo *fakeSettingsRepo) transaction.TransactionService {
	return NewTransactionService(txRepo, newFakeStaffRepo(), settingsRepo)
}

func TestCreateTransaction_SplitsTaxFromSettings(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	settingsRepo := &fakeSettingsRepo{stored: &settings.Settings{
		CompanyID:           testCompanyID,
		ApplyTaxWithholding: true,
		TaxWithholdingRate:  decimal.RequireFromString("10"),
	}}
	svc := newTestService(newFakeTransactionRepo(), settingsRepo)

	resp, err := svc.CreateTransaction(ctx, transaction.CreateTransactionRequest{
		StaffID:          testStaffID,
		SaleAmount:       decimal.RequireFromString("500"),
		CommissionRate:   decimal.RequireFromString("10"),
		CommissionAmount: decimal.RequireFromString("50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dana Reyes", resp.StaffName)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "5.00", resp.TaxAmount.StringFixed(2))
	assert.Equal(t, "45.00", resp.NetCommission.StringFixed(2))
}

func TestCreateTransaction_ExplicitNetOverridesSplit(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakeTransactionRepo(), &fakeSettingsRepo{})

	net := decimal.RequireFromString("40")
	resp, err := svc.CreateTransaction(ctx, transaction.CreateTransactionRequest{
		StaffID:          testStaffID,
		SaleAmount:       decimal.RequireFromString("500"),
		CommissionAmount: decimal.RequireFromString("50"),
		NetCommission:    &net,
	})
	require.NoError(t, err)

	assert.Equal(t, "40.00", resp.NetCommission.StringFixed(2))
	assert.Equal(t, "10.00", resp.TaxAmount.StringFixed(2))
}

func TestCreateTransaction_NoSettingsRowUsesDefaults(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakeTransactionRepo(), &fakeSettingsRepo{})

	resp, err := svc.CreateTransaction(ctx, transaction.CreateTransactionRequest{
		StaffID:          testStaffID,
		SaleAmount:       decimal.RequireFromString("500"),
		CommissionAmount: decimal.RequireFromString("50"),
	})
	require.NoError(t, err)

	// Default settings carry no withholding.
	assert.True(t, resp.TaxAmount.IsZero())
	assert.Equal(t, "50.00", resp.NetCommission.StringFixed(2))
}

func TestCreateTransaction_UnknownStaff(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakeTransactionRepo(), &fakeSettingsRepo{})

	_, err := svc.CreateTransaction(ctx, transaction.CreateTransactionRequest{
		StaffID:          "0191e4a0-0000-7000-8000-00000000dead",
		CommissionAmount: decimal.RequireFromString("50"),
	})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestApproveTransaction(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusPending,
	})

	resp, err := svc.ApproveTransaction(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, testUserID, *resp.ApprovedByID)
	assert.NotNil(t, resp.ApprovedAt)

	// Approving twice fails on the state guard.
	_, err = svc.ApproveTransaction(ctx, created.ID)
	assert.ErrorIs(t, err, transaction.ErrTransactionNotPending)
}

func TestRejectTransaction_AppendsReason(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusPending,
		Notes:     "imported",
	})

	resp, err := svc.RejectTransaction(ctx, created.ID, transaction.RejectTransactionRequest{Reason: "duplicate sale"})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "imported\nRejection reason: duplicate sale", resp.Notes)
}

func TestVoidTransaction_PaidIsImmutable(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusPaid,
	})

	_, err := svc.VoidTransaction(ctx, created.ID, transaction.VoidTransactionRequest{})
	assert.ErrorIs(t, err, transaction.ErrTransactionPaid)
}

func TestVoidTransaction_ClaimedByPayout(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	payoutID := "payout-1"
	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusApproved,
		PayoutID:  &payoutID,
	})

	_, err := svc.VoidTransaction(ctx, created.ID, transaction.VoidTransactionRequest{})
	assert.ErrorIs(t, err, transaction.ErrTransactionInPayout)
}

func TestVoidTransaction_ApprovedUnclaimed(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusApproved,
	})

	resp, err := svc.VoidTransaction(ctx, created.ID, transaction.VoidTransactionRequest{Reason: "entered twice"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "Void reason: entered twice", resp.Notes)
}

func TestVoidTransaction_ClaimedBetweenReadAndWrite(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		Status:    transaction.StatusApproved,
	})
	// The service reads the row unclaimed; a payout claims it before the
	// cancel write lands.
	txRepo.claimOnCancel = map[string]string{created.ID: "payout-1"}

	_, err := svc.VoidTransaction(ctx, created.ID, transaction.VoidTransactionRequest{Reason: "stale read"})
	assert.ErrorIs(t, err, transaction.ErrTransactionNotCancellable)

	// The claimed row keeps its status and linkage.
	kept := txRepo.byID[created.ID]
	assert.Equal(t, transaction.StatusApproved, kept.Status)
	require.NotNil(t, kept.PayoutID)
}

func TestListTransactions_PaginationDefaults(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := newTestService(newFakeTransactionRepo(), &fakeSettingsRepo{})

	resp, err := svc.ListTransactions(ctx, transaction.TransactionFilter{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	resp, err = svc.ListTransactions(ctx, transaction.TransactionFilter{Page: 3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}

func TestGetTransaction_CrossCompanyIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	txRepo := newFakeTransactionRepo()
	svc := newTestService(txRepo, &fakeSettingsRepo{})

	created := txRepo.put(transaction.Transaction{
		CompanyID: "0191e4a0-0000-7000-8000-0000000000ff",
		StaffID:   testStaffID,
		Status:    transaction.StatusPending,
	})

	_, err := svc.GetTransaction(ctx, created.ID)
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)
}
