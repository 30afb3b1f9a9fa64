package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ERPlora/commissions-backend-go/internal/domain/adjustment"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type adjustmentRepositoryImpl struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepositoryImpl{db: db}
}

const adjustmentColumns = `
	id, company_id, staff_id, staff_name, adjustment_type, amount, reason,
	payout_id, adjustment_date, created_by_id, created_at, updated_at
`

func scanAdjustment(row pgx.Row) (adjustment.Adjustment, error) {
	var a adjustment.Adjustment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.StaffID, &a.StaffName, &a.AdjustmentType, &a.Amount, &a.Reason,
		&a.PayoutID, &a.AdjustmentDate, &a.CreatedByID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return adjustment.Adjustment{}, err
	}
	return a, nil
}

// Create implements adjustment.AdjustmentRepository.
func (l *adjustmentRepositoryImpl) Create(ctx context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO commission_adjustments (
			id, company_id, staff_id, staff_name, adjustment_type, amount, reason,
			adjustment_date, created_by_id, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.CompanyID, a.StaffID, a.StaffName, a.AdjustmentType, a.Amount, a.Reason,
		a.AdjustmentDate, a.CreatedByID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return adjustment.Adjustment{}, err
	}

	return a, nil
}

// GetByID implements adjustment.AdjustmentRepository.
func (l *adjustmentRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		SELECT ` + adjustmentColumns + `
		FROM commission_adjustments
		WHERE id = $1 AND company_id = $2
	`

	a, err := scanAdjustment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, err
	}

	return a, nil
}

// List implements adjustment.AdjustmentRepository.
func (l *adjustmentRepositoryImpl) List(ctx context.Context, companyID string, filter adjustment.AdjustmentFilter) ([]adjustment.Adjustment, int64, error) {
	q := GetQuerier(ctx, l.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.AdjustmentType != nil {
		conditions = append(conditions, fmt.Sprintf("adjustment_type = $%d", argIdx))
		args = append(args, *filter.AdjustmentType)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("adjustment_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("adjustment_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM commission_adjustments WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM commission_adjustments WHERE %s ORDER BY adjustment_date DESC LIMIT $%d OFFSET $%d",
		adjustmentColumns, where, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var adjustments []adjustment.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, 0, err
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return adjustments, totalCount, nil
}

// Delete implements adjustment.AdjustmentRepository. The payout_id predicate
// re-checks linkage at write time, so a concurrent payout aggregation cannot
// race the delete.
func (l *adjustmentRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, l.db)
	query := `
		DELETE FROM commission_adjustments
		WHERE id = $1 AND company_id = $2 AND payout_id IS NULL
	`
	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return adjustment.ErrAdjustmentLinked
	}
	return nil
}
