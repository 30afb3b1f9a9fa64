package staff

import "time"

// Staff is the identity record of a commission-earning staff member. The
// commissions module only reads it, to resolve the display-name snapshot
// stamped on transactions, payouts and adjustments at creation.
type Staff struct {
	ID        string
	CompanyID string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
