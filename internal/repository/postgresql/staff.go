package postgresql

import (
	"context"
	"errors"

	"github.com/ERPlora/commissions-backend-go/internal/domain/staff"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

// GetByID implements staff.StaffRepository.
func (s *staffRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (staff.Staff, error) {
	q := GetQuerier(ctx, s.db)
	query := `
		SELECT id, company_id, full_name, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1 AND company_id = $2
	`

	var st staff.Staff
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&st.ID, &st.CompanyID, &st.FullName, &st.IsActive,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, err
	}

	return st, nil
}
