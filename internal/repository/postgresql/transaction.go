package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ERPlora/commissions-backend-go/internal/domain/transaction"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type transactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) transaction.TransactionRepository {
	return &transactionRepositoryImpl{db: db}
}

const transactionColumns = `
	id, company_id, staff_id, staff_name, sale_id, sale_reference, appointment_id,
	sale_amount, commission_rate, commission_amount, tax_amount, net_commission,
	rule_id, status, payout_id, transaction_date, approved_at, approved_by_id,
	description, notes, created_at, updated_at
`

func scanTransaction(row pgx.Row) (transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.StaffID, &t.StaffName, &t.SaleID, &t.SaleReference, &t.AppointmentID,
		&t.SaleAmount, &t.CommissionRate, &t.CommissionAmount, &t.TaxAmount, &t.NetCommission,
		&t.RuleID, &t.Status, &t.PayoutID, &t.TransactionDate, &t.ApprovedAt, &t.ApprovedByID,
		&t.Description, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return transaction.Transaction{}, err
	}
	return t, nil
}

// Create implements transaction.TransactionRepository.
func (l *transactionRepositoryImpl) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO commission_transactions (
			id, company_id, staff_id, staff_name, sale_id, sale_reference, appointment_id,
			sale_amount, commission_rate, commission_amount, tax_amount, net_commission,
			rule_id, status, transaction_date, description, notes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.CompanyID, t.StaffID, t.StaffName, t.SaleID, t.SaleReference, t.AppointmentID,
		t.SaleAmount, t.CommissionRate, t.CommissionAmount, t.TaxAmount, t.NetCommission,
		t.RuleID, t.Status, t.TransactionDate, t.Description, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return transaction.Transaction{}, err
	}

	return t, nil
}

// GetByID implements transaction.TransactionRepository.
func (l *transactionRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (transaction.Transaction, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + transactionColumns + `
		FROM commission_transactions
		WHERE id = $1 AND company_id = $2
	`

	t, err := scanTransaction(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transaction.Transaction{}, transaction.ErrTransactionNotFound
		}
		return transaction.Transaction{}, err
	}

	return t, nil
}

// List implements transaction.TransactionRepository.
func (l *transactionRepositoryImpl) List(ctx context.Context, companyID string, filter transaction.TransactionFilter) ([]transaction.Transaction, int64, error) {
	q := GetQuerier(ctx, l.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM commission_transactions WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	sortBy := "transaction_date"
	switch filter.SortBy {
	case "sale_amount", "commission_amount", "net_commission", "created_at", "transaction_date":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM commission_transactions WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		transactionColumns, where, sortBy, sortOrder, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return transactions, totalCount, nil
}

// SetApproved implements transaction.TransactionRepository. The status
// predicate in the UPDATE makes approval safe against concurrent state
// changes: a row that left pending between read and write is not matched.
func (l *transactionRepositoryImpl) SetApproved(ctx context.Context, id string, companyID string, approvedByID *string, approvedAt time.Time) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_transactions
		SET status = 'approved', approved_at = $3, approved_by_id = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'pending'
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, approvedAt, approvedByID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return transaction.ErrTransactionNotPending
	}
	return nil
}

// SetCancelled implements transaction.TransactionRepository. The predicate
// re-checks at write time that the row is still unclaimed and in a
// cancellable status; a row claimed by a concurrent payout between the
// service's read and this write is not matched.
func (l *transactionRepositoryImpl) SetCancelled(ctx context.Context, id string, companyID string, notes string) error {
	q := GetQuerier(ctx, l.db)
	query := `
		UPDATE commission_transactions
		SET status = 'cancelled', notes = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		  AND payout_id IS NULL AND status IN ('pending', 'approved')
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, notes)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return transaction.ErrTransactionNotCancellable
	}
	return nil
}
