package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/settings"
	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/domain/transaction"
	"github.com/go-chi/jwtauth/v5"
)

type TransactionServiceImpl struct {
	transactionRepo transaction.TransactionRepository
	staffRepo       staff.StaffRepository
	settingsRepo    settings.SettingsRepository
}

func NewTransactionService(
	transactionRepo transaction.TransactionRepository,
	staffRepo staff.StaffRepository,
	settingsRepo settings.SettingsRepository,
) transaction.TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
		staffRepo:       staffRepo,
		settingsRepo:    settingsRepo,
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

func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, req transaction.CreateTransactionRequest) (transaction.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return transaction.TransactionResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	// Name snapshot at creation; never refreshed afterwards.
	member, err := s.staffRepo.GetByID(ctx, req.StaffID, companyID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	// The tax split uses the settings in force right now and is frozen into
	// the record. Later settings changes never touch existing transactions.
	current, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return transaction.TransactionResponse{}, err
		}
		current = settings.Default(companyID)
	}

	net, tax := current.SplitTax(req.CommissionAmount)
	if req.NetCommission != nil {
		net = *req.NetCommission
		tax = req.CommissionAmount.Sub(net)
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate, _ = time.Parse("2006-01-02", *req.TransactionDate)
	}

	t := transaction.Transaction{
		CompanyID:        companyID,
		StaffID:          req.StaffID,
		StaffName:        member.FullName,
		SaleID:           req.SaleID,
		SaleReference:    req.SaleReference,
		AppointmentID:    req.AppointmentID,
		SaleAmount:       req.SaleAmount,
		CommissionRate:   req.CommissionRate,
		CommissionAmount: req.CommissionAmount,
		TaxAmount:        tax,
		NetCommission:    net,
		RuleID:           req.RuleID,
		Status:           transaction.StatusPending,
		TransactionDate:  transactionDate,
		Description:      req.Description,
		Notes:            req.Notes,
	}

	created, err := s.transactionRepo.Create(ctx, t)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	return toResponse(created), nil
}

func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id string) (transaction.TransactionResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	t, err := s.transactionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	return toResponse(t), nil
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, filter transaction.TransactionFilter) (transaction.ListTransactionsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.ListTransactionsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	transactions, totalCount, err := s.transactionRepo.List(ctx, companyID, filter)
	if err != nil {
		return transaction.ListTransactionsResponse{}, err
	}

	responses := make([]transaction.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toResponse(t))
	}

	return transaction.ListTransactionsResponse{
		Data:       responses,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *TransactionServiceImpl) ApproveTransaction(ctx context.Context, id string) (transaction.TransactionResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	t, err := s.transactionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	if t.Status != transaction.StatusPending {
		return transaction.TransactionResponse{}, fmt.Errorf("%w: current status is %s", transaction.ErrTransactionNotPending, t.Status)
	}

	var approvedBy *string
	if userID != "" {
		approvedBy = &userID
	}

	approvedAt := time.Now()
	if err := s.transactionRepo.SetApproved(ctx, id, companyID, approvedBy, approvedAt); err != nil {
		return transaction.TransactionResponse{}, err
	}

	t.Status = transaction.StatusApproved
	t.ApprovedAt = &approvedAt
	t.ApprovedByID = approvedBy
	return toResponse(t), nil
}

func (s *TransactionServiceImpl) RejectTransaction(ctx context.Context, id string, req transaction.RejectTransactionRequest) (transaction.TransactionResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	t, err := s.transactionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	if t.Status != transaction.StatusPending {
		return transaction.TransactionResponse{}, fmt.Errorf("%w: current status is %s", transaction.ErrTransactionNotPending, t.Status)
	}

	notes := appendReason(t.Notes, "Rejection reason", req.Reason)
	if err := s.transactionRepo.SetCancelled(ctx, id, companyID, notes); err != nil {
		return transaction.TransactionResponse{}, err
	}

	t.Status = transaction.StatusCancelled
	t.Notes = notes
	return toResponse(t), nil
}

func (s *TransactionServiceImpl) VoidTransaction(ctx context.Context, id string, req transaction.VoidTransactionRequest) (transaction.TransactionResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}

	t, err := s.transactionRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return transaction.TransactionResponse{}, err
	}
	if t.Status == transaction.StatusPaid {
		return transaction.TransactionResponse{}, fmt.Errorf("%w: paid transactions cannot be voided", transaction.ErrTransactionPaid)
	}
	if t.PayoutID != nil {
		return transaction.TransactionResponse{}, fmt.Errorf("%w: cancel the payout first", transaction.ErrTransactionInPayout)
	}

	notes := appendReason(t.Notes, "Void reason", req.Reason)
	if err := s.transactionRepo.SetCancelled(ctx, id, companyID, notes); err != nil {
		return transaction.TransactionResponse{}, err
	}

	t.Status = transaction.StatusCancelled
	t.Notes = notes
	return toResponse(t), nil
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

func toResponse(t transaction.Transaction) transaction.TransactionResponse {
	resp := transaction.TransactionResponse{
		ID:               t.ID,
		CompanyID:        t.CompanyID,
		StaffID:          t.StaffID,
		StaffName:        t.StaffName,
		SaleID:           t.SaleID,
		SaleReference:    t.SaleReference,
		AppointmentID:    t.AppointmentID,
		SaleAmount:       t.SaleAmount,
		CommissionRate:   t.CommissionRate,
		CommissionAmount: t.CommissionAmount,
		TaxAmount:        t.TaxAmount,
		NetCommission:    t.NetCommission,
		RuleID:           t.RuleID,
		Status:           string(t.Status),
		PayoutID:         t.PayoutID,
		TransactionDate:  t.TransactionDate.Format("2006-01-02"),
		Description:      t.Description,
		Notes:            t.Notes,
	}
	if t.ApprovedAt != nil {
		approvedAt := t.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	resp.ApprovedByID = t.ApprovedByID
	return resp
}
