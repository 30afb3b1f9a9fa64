package adjustment

import "errors"

var (
	ErrAdjustmentNotFound = errors.New("commission adjustment not found")
	ErrAdjustmentLinked   = errors.New("commission adjustment is linked to a payout")
)
