package staff

import "context"

// StaffRepository defines read access to staff identity records.
// All methods include companyID to prevent cross-company data access.
type StaffRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Staff, error)
}
