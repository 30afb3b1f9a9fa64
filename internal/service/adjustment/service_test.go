package adjustment

import (
	"context"
	"testing"

	"github.com/ERPlora/commissions-backend-go/internal/domain/adjustment"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
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

type fakeAdjustmentRepo struct {
	byID    map[string]adjustment.Adjustment
	deleted []string
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{byID: make(map[string]adjustment.Adjustment)}
}

func (r *fakeAdjustmentRepo) put(a adjustment.Adjustment) adjustment.Adjustment {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.byID[a.ID] = a
	return a
}

func (r *fakeAdjustmentRepo) Create(_ context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	return r.put(a), nil
}

func (r *fakeAdjustmentRepo) GetByID(_ context.Context, id string, companyID string) (adjustment.Adjustment, error) {
	a, ok := r.byID[id]
	if !ok || a.CompanyID != companyID {
		return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
	}
	return a, nil
}

func (r *fakeAdjustmentRepo) List(_ context.Context, companyID string, _ adjustment.AdjustmentFilter) ([]adjustment.Adjustment, int64, error) {
	var out []adjustment.Adjustment
	for _, a := range r.byID {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAdjustmentRepo) Delete(_ context.Context, id string, companyID string) error {
	a, ok := r.byID[id]
	if !ok || a.CompanyID != companyID {
		return adjustment.ErrAdjustmentNotFound
	}
	if a.PayoutID != nil {
		return adjustment.ErrAdjustmentLinked
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeStaffRepo struct{}

func (fakeStaffRepo) GetByID(_ context.Context, id string, companyID string) (staff.Staff, error) {
	if id != testStaffID || companyID != testCompanyID {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return staff.Staff{ID: id, CompanyID: companyID, FullName: "Dana Reyes", IsActive: true}, nil
}

func TestCreateAdjustment(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	svc := NewAdjustmentService(newFakeAdjustmentRepo(), fakeStaffRepo{})

	resp, err := svc.CreateAdjustment(ctx, adjustment.CreateAdjustmentRequest{
		StaffID:        testStaffID,
		AdjustmentType: "deduction",
		Amount:         decimal.RequireFromString("-25"),
		Reason:         "register shortfall",
	})
	require.NoError(t, err)

	assert.Equal(t, "Dana Reyes", resp.StaffName)
	assert.Equal(t, "deduction", resp.AdjustmentType)
	assert.Equal(t, "-25.00", resp.Amount.StringFixed(2))
	require.NotNil(t, resp.CreatedByID)
	assert.Equal(t, testUserID, *resp.CreatedByID)
}

func TestCreateAdjustment_RequiresReason(t *testing.T) {
	t.Parallel()

	svc := NewAdjustmentService(newFakeAdjustmentRepo(), fakeStaffRepo{})

	_, err := svc.CreateAdjustment(claimsContext(t), adjustment.CreateAdjustmentRequest{
		StaffID:        testStaffID,
		AdjustmentType: "bonus",
		Amount:         decimal.RequireFromString("10"),
	})
	assert.Error(t, err)
}

func TestDeleteAdjustment_LinkedIsRejected(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakeAdjustmentRepo()
	payoutID := "payout-1"
	created := repo.put(adjustment.Adjustment{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		PayoutID:  &payoutID,
	})

	svc := NewAdjustmentService(repo, fakeStaffRepo{})

	err := svc.DeleteAdjustment(ctx, created.ID)
	assert.ErrorIs(t, err, adjustment.ErrAdjustmentLinked)
	assert.Empty(t, repo.deleted)
}

func TestDeleteAdjustment_Unlinked(t *testing.T) {
	t.Parallel()
	ctx := claimsContext(t)

	repo := newFakeAdjustmentRepo()
	created := repo.put(adjustment.Adjustment{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
	})

	svc := NewAdjustmentService(repo, fakeStaffRepo{})

	require.NoError(t, svc.DeleteAdjustment(ctx, created.ID))
	assert.Equal(t, []string{created.ID}, repo.deleted)
}
